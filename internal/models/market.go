package models

// LegMarketData is the screen quote for a single option leg.
type LegMarketData struct {
	Bid       float64
	BidSize   int
	Offer     float64
	OfferSize int
}

// Mid returns the average of bid and offer when both are positive,
// otherwise whichever side is quoted, otherwise 0.
func (m LegMarketData) Mid() float64 {
	if m.Bid > 0 && m.Offer > 0 {
		return (m.Bid + m.Offer) / 2.0
	}
	if m.Bid != 0 {
		return m.Bid
	}
	return m.Offer
}

// LegQuote pairs a leg with its screen market data.
type LegQuote struct {
	Leg    OptionLeg
	Market LegMarketData
}

// StructureMarketData is the full market pricing for a structure.
// Created fresh on every pricing call and never mutated afterwards.
type StructureMarketData struct {
	LegData            []LegQuote
	StockPrice         float64
	StockRef           float64
	Delta              float64
	StructureBid       float64
	StructureOffer     float64
	StructureBidSize   int
	StructureOfferSize int
}

// Mid returns the structure mid price.
func (s StructureMarketData) Mid() float64 {
	return (s.StructureBid + s.StructureOffer) / 2.0
}
