package models

import "github.com/shopspring/decimal"

// CatalogEntry is one row of the static reference data.
type CatalogEntry struct {
	Symbol string
	Name   string
}

// Instrument is an active, tradable catalog entry. ID carries the catalog
// symbol and is used as the feed's isin.
type Instrument struct {
	ID          string
	Description string
}

// InstrumentFrom builds the instrument for a reserved catalog entry.
func InstrumentFrom(e CatalogEntry) Instrument {
	return Instrument{ID: e.Symbol, Description: e.Name}
}

// Entry returns the catalog entry the instrument was reserved from.
func (i Instrument) Entry() CatalogEntry {
	return CatalogEntry{Symbol: i.ID, Name: i.Description}
}

// Quote is a single price observation. Price always has scale 4.
type Quote struct {
	InstrumentID string
	Price        decimal.Decimal
}
