package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"options-pricer/internal/models"
)

// legSpec is a leg candidate found during the token scan: a strike, the
// expiry context it was seen under (zero if none), and an optional
// explicit option type.
type legSpec struct {
	expiry time.Time
	strike float64
	typ    models.OptionType // "" when not explicit on the token
}

// scanState tracks the scanner's position in the token grammar.
type scanState int

const (
	// expectAnything: no month token seen yet, so strike tokens carry
	// no expiry context.
	expectAnything scanState = iota
	// inExpiryContext: a month token has set the current expiry; bare
	// strike and slash-strike tokens bind to it.
	inExpiryContext
)

var (
	monthTokenPattern  = regexp.MustCompile(`^(` + monthPattern + `)(\d{2})?$`)
	strikeTokenPattern = regexp.MustCompile(`^(\d+\.?\d*)([PCpc])?$`)
	typedStrikePattern = regexp.MustCompile(`^(\d+\.?\d*)([PCpc])$`)
	slashStrikePattern = regexp.MustCompile(`^(\d+\.?\d*)([PCpc])?/(\d+\.?\d*)([PCpc])?$`)
	bareNumberPattern  = regexp.MustCompile(`^(\d+\.?\d*)$`)
)

// multiLegTypes are the structure types whose leg strikes may appear as
// consecutive space-separated tokens after one month token.
var multiLegTypes = map[string]bool{
	"put_spread":    true,
	"call_spread":   true,
	"spread":        true,
	"risk_reversal": true,
	"strangle":      true,
	"butterfly":     true,
}

// scanner walks the token stream once, extracting the ticker, leg specs
// and default option type. Metadata tokens (stock ref, delta, quantity,
// price, ratio, modifiers, aliases) belong to the field extractors and
// are skipped here.
type scanner struct {
	tokens        []string
	pos           int
	today         time.Time
	structureType string

	state         scanState
	currentExpiry time.Time

	ticker      string
	specs       []legSpec
	defaultType models.OptionType
}

func newScanner(text string, structureType string, today time.Time) *scanner {
	tokens := strings.Fields(strings.TrimSpace(text))
	s := &scanner{
		tokens:        tokens,
		today:         today,
		structureType: structureType,
		state:         expectAnything,
	}
	if len(tokens) > 0 {
		s.ticker = strings.ToUpper(tokens[0])
	}
	return s
}

// scan runs the rule set over every token after the ticker. At each
// position the rules are tried in priority order; the first rule that
// consumes advances the cursor, and anything unmatched is skipped.
func (s *scanner) scan() error {
	for s.pos = 1; s.pos < len(s.tokens); {
		consumed, err := s.scanMonth()
		if err != nil {
			return err
		}
		if consumed {
			continue
		}
		if s.scanTypedStrike() {
			continue
		}
		if s.scanSlashStrikes() {
			continue
		}
		if s.scanTypeWord() {
			continue
		}
		if s.scanStrikeWithTypeWord() {
			continue
		}
		s.pos++
	}
	return nil
}

func (s *scanner) token(i int) string {
	if i < 0 || i >= len(s.tokens) {
		return ""
	}
	return s.tokens[i]
}

func (s *scanner) tokenLower(i int) string {
	return strings.ToLower(s.token(i))
}

// normalized lowercases a token and strips trailing punctuation, so
// "Jun26," still reads as a month token.
func (s *scanner) normalized(i int) string {
	return strings.TrimRight(s.tokenLower(i), ".,;")
}

// contextExpiry returns the current expiry while in the expiry context,
// and the zero time before any month token has been seen.
func (s *scanner) contextExpiry() time.Time {
	if s.state == inExpiryContext {
		return s.currentExpiry
	}
	return time.Time{}
}

// scanMonth handles a month token with optional attached 2-digit year
// ("jun", "jun26"). The year is never a separate token: a standalone
// number after the month is a strike. Entering this rule moves the
// scanner into the expiry context and consumes any strike tokens that
// immediately follow.
func (s *scanner) scanMonth() (bool, error) {
	m := monthTokenPattern.FindStringSubmatch(s.normalized(s.pos))
	if m == nil {
		return false, nil
	}

	expiry, err := ResolveExpiry(m[1], m[2], s.today)
	if err != nil {
		return false, err
	}
	s.currentExpiry = expiry
	s.state = inExpiryContext

	next := s.token(s.pos + 1)

	if sm := strikeTokenPattern.FindStringSubmatch(next); sm != nil {
		strike, _ := strconv.ParseFloat(sm[1], 64)
		s.specs = append(s.specs, legSpec{
			expiry: s.currentExpiry,
			strike: strike,
			typ:    optionTypeFromChar(sm[2]),
		})
		s.pos += 2
		s.consumeExtraStrikes()
		return true, nil
	}

	if sm := slashStrikePattern.FindStringSubmatch(next); sm != nil {
		s.appendSlashSpecs(sm)
		s.pos += 2
		return true, nil
	}

	s.pos++
	return true, nil
}

// consumeExtraStrikes grabs additional space-separated strike tokens at
// the current expiry (e.g. "jun 250 240 PS"), but only when the structure
// needs multiple legs or a structure alias token follows. Otherwise a
// bare number is metadata for another extractor.
func (s *scanner) consumeExtraStrikes() {
	for s.pos < len(s.tokens) {
		sm := strikeTokenPattern.FindStringSubmatch(s.token(s.pos))
		if sm == nil {
			return
		}
		isMulti := multiLegTypes[s.structureType]
		_, nextIsAlias := structureAliases[s.tokenLower(s.pos+1)]
		if !isMulti && !nextIsAlias {
			return
		}
		strike, _ := strconv.ParseFloat(sm[1], 64)
		s.specs = append(s.specs, legSpec{
			expiry: s.currentExpiry,
			strike: strike,
			typ:    optionTypeFromChar(sm[2]),
		})
		s.pos++
	}
}

// scanTypedStrike handles a strike with attached type suffix ("45P",
// "85P") seen without a preceding month at this position. A month token
// immediately after pairs with it ("85P Jan27"); otherwise the current
// expiry context applies, if any.
func (s *scanner) scanTypedStrike() bool {
	m := typedStrikePattern.FindStringSubmatch(s.token(s.pos))
	if m == nil {
		return false
	}
	strike, _ := strconv.ParseFloat(m[1], 64)
	optType := optionTypeFromChar(m[2])

	if am := monthTokenPattern.FindStringSubmatch(s.tokenLower(s.pos + 1)); am != nil {
		expiry, err := ResolveExpiry(am[1], am[2], s.today)
		if err == nil {
			s.specs = append(s.specs, legSpec{expiry: expiry, strike: strike, typ: optType})
			s.pos += 2
			return true
		}
	}

	s.specs = append(s.specs, legSpec{
		expiry: s.contextExpiry(),
		strike: strike,
		typ:    optType,
	})
	s.pos++
	return true
}

// scanSlashStrikes handles a slash-separated strike pair ("240/220",
// "240P/220P") without a preceding month; both strikes use the current
// expiry context.
func (s *scanner) scanSlashStrikes() bool {
	m := slashStrikePattern.FindStringSubmatch(s.token(s.pos))
	if m == nil {
		return false
	}
	s.appendSlashSpecs(m)
	s.pos++
	return true
}

func (s *scanner) appendSlashSpecs(m []string) {
	s1, _ := strconv.ParseFloat(m[1], 64)
	s2, _ := strconv.ParseFloat(m[3], 64)
	s.specs = append(s.specs,
		legSpec{expiry: s.contextExpiry(), strike: s1, typ: optionTypeFromChar(m[2])},
		legSpec{expiry: s.contextExpiry(), strike: s2, typ: optionTypeFromChar(m[4])},
	)
}

// scanTypeWord handles a bare option-type word ("call", "puts"). Words
// belonging to "delta to/like put|call" or "put|call over" phrases are
// left for the field extractors.
func (s *scanner) scanTypeWord() bool {
	word := s.normalized(s.pos)
	if word != "call" && word != "calls" && word != "put" && word != "puts" {
		return false
	}
	prev := s.tokenLower(s.pos - 1)
	if prev == "to" || prev == "like" {
		return false
	}
	if s.tokenLower(s.pos+1) == "over" {
		return false
	}
	if strings.HasPrefix(word, "call") {
		s.defaultType = models.Call
	} else {
		s.defaultType = models.Put
	}
	s.pos++
	return true
}

// scanStrikeWithTypeWord handles a bare number immediately followed by
// "call(s)"/"put(s)" ("300 calls"): one leg at the current expiry with
// that type, which also becomes the default type.
func (s *scanner) scanStrikeWithTypeWord() bool {
	m := bareNumberPattern.FindStringSubmatch(s.token(s.pos))
	if m == nil {
		return false
	}
	next := s.tokenLower(s.pos + 1)
	if next != "call" && next != "calls" && next != "put" && next != "puts" {
		return false
	}
	if s.tokenLower(s.pos+2) == "over" {
		return false
	}
	strike, _ := strconv.ParseFloat(m[1], 64)
	optType := models.Put
	if strings.HasPrefix(next, "call") {
		optType = models.Call
	}
	s.defaultType = optType
	s.specs = append(s.specs, legSpec{
		expiry: s.contextExpiry(),
		strike: strike,
		typ:    optType,
	})
	s.pos += 2
	return true
}

func optionTypeFromChar(c string) models.OptionType {
	switch strings.ToUpper(c) {
	case "C":
		return models.Call
	case "P":
		return models.Put
	default:
		return ""
	}
}
