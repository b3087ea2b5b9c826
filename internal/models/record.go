package models

import "time"

// OrderRecord is a persisted blotter row for a parsed order.
type OrderRecord struct {
	ID            string    `csv:"id"`
	RawText       string    `csv:"raw_text"`
	Underlying    string    `csv:"underlying"`
	StructureName string    `csv:"structure"`
	StockRef      float64   `csv:"stock_ref"`
	Delta         float64   `csv:"delta"`
	Price         float64   `csv:"price"`
	QuoteSide     QuoteSide `csv:"quote_side"`
	Quantity      int       `csv:"quantity"`
	CreatedAt     time.Time `csv:"created_at"`
	UpdatedAt     time.Time `csv:"updated_at"`
}
