package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/shubham-shewale/stock-market-feed/cmd/internal/randomwalk"
	"github.com/shubham-shewale/stock-market-feed/pkg/models"
)

type MessageType string

const (
	TypeAdd    MessageType = "ADD"
	TypeDelete MessageType = "DELETE"
	TypeQuote  MessageType = "QUOTE"
)

// Envelope is the text frame sent to subscribers.
type Envelope struct {
	Type MessageType `json:"type"`
	Data interface{} `json:"data"`
}

type InstrumentData struct {
	ISIN        string `json:"isin"`
	Description string `json:"description"`
}

type QuoteData struct {
	ISIN  string      `json:"isin"`
	Price json.Number `json:"price"` // fixed 4 decimals, written as a JSON number
}

// Message is the decoding side of Envelope.
type Message struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Event is what the generator announces: a lifecycle change or a quote.
type Event struct {
	Type       MessageType
	Instrument models.Instrument
	Quote      models.Quote
}

func AddEvent(i models.Instrument) Event    { return Event{Type: TypeAdd, Instrument: i} }
func DeleteEvent(i models.Instrument) Event { return Event{Type: TypeDelete, Instrument: i} }
func QuoteEvent(q models.Quote) Event       { return Event{Type: TypeQuote, Quote: q} }

// ISIN is the instrument the event is about.
func (e Event) ISIN() string {
	if e.Type == TypeQuote {
		return e.Quote.InstrumentID
	}
	return e.Instrument.ID
}

func (e Event) Envelope() Envelope {
	if e.Type == TypeQuote {
		return Envelope{Type: e.Type, Data: QuoteData{
			ISIN:  e.Quote.InstrumentID,
			Price: json.Number(e.Quote.Price.StringFixed(randomwalk.PriceScale)),
		}}
	}
	return Envelope{Type: e.Type, Data: InstrumentData{
		ISIN:        e.Instrument.ID,
		Description: e.Instrument.Description,
	}}
}

// Encode renders the event as a wire frame.
func (e Event) Encode() ([]byte, error) {
	b, err := json.Marshal(e.Envelope())
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", e.Type, err)
	}
	return b, nil
}

// Decode parses a wire frame back into its envelope and typed payload.
func Decode(frame []byte) (Message, interface{}, error) {
	var msg Message
	if err := json.Unmarshal(frame, &msg); err != nil {
		return Message{}, nil, fmt.Errorf("decode envelope: %w", err)
	}

	switch msg.Type {
	case TypeAdd, TypeDelete:
		var d InstrumentData
		if err := json.Unmarshal(msg.Data, &d); err != nil {
			return msg, nil, fmt.Errorf("decode %s data: %w", msg.Type, err)
		}
		return msg, d, nil
	case TypeQuote:
		var d QuoteData
		if err := json.Unmarshal(msg.Data, &d); err != nil {
			return msg, nil, fmt.Errorf("decode %s data: %w", msg.Type, err)
		}
		return msg, d, nil
	default:
		return msg, nil, fmt.Errorf("unknown message type %q", msg.Type)
	}
}
