package protocol_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shubham-shewale/stock-market-feed/cmd/internal/protocol"
	"github.com/shubham-shewale/stock-market-feed/pkg/models"
)

func TestEncode_Instrument(t *testing.T) {
	inst := models.Instrument{ID: "NVDA", Description: "NVIDIA Corporation"}

	add, err := protocol.AddEvent(inst).Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := `{"type":"ADD","data":{"isin":"NVDA","description":"NVIDIA Corporation"}}`
	if string(add) != want {
		t.Errorf("Unexpected ADD frame.\nGot:  %s\nWant: %s", add, want)
	}

	del, _ := protocol.DeleteEvent(inst).Encode()
	want = `{"type":"DELETE","data":{"isin":"NVDA","description":"NVIDIA Corporation"}}`
	if string(del) != want {
		t.Errorf("Unexpected DELETE frame.\nGot:  %s\nWant: %s", del, want)
	}
}

func TestEncode_QuoteKeepsFourDecimals(t *testing.T) {
	cases := map[string]string{
		"150.1234": `{"type":"QUOTE","data":{"isin":"AAPL","price":150.1234}}`,
		"1":        `{"type":"QUOTE","data":{"isin":"AAPL","price":1.0000}}`,
		"99.5":     `{"type":"QUOTE","data":{"isin":"AAPL","price":99.5000}}`,
	}

	for in, want := range cases {
		q := models.Quote{InstrumentID: "AAPL", Price: decimal.RequireFromString(in)}
		got, err := protocol.QuoteEvent(q).Encode()
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if string(got) != want {
			t.Errorf("price %s: got %s, want %s", in, got, want)
		}
	}
}

func TestDecode(t *testing.T) {
	msg, data, err := protocol.Decode([]byte(`{"type":"QUOTE","data":{"isin":"AAPL","price":150.1234}}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if msg.Type != protocol.TypeQuote {
		t.Errorf("Expected QUOTE, got %s", msg.Type)
	}
	q, ok := data.(protocol.QuoteData)
	if !ok {
		t.Fatalf("Expected QuoteData, got %T", data)
	}
	if q.ISIN != "AAPL" || q.Price.String() != "150.1234" {
		t.Errorf("Unexpected quote payload %+v", q)
	}

	if _, _, err := protocol.Decode([]byte(`{"type":"NOPE","data":{}}`)); err == nil {
		t.Error("Expected error for unknown type")
	}
	if _, _, err := protocol.Decode([]byte(`{broken`)); err == nil {
		t.Error("Expected error for broken JSON")
	}
}

func TestEvent_ISIN(t *testing.T) {
	if got := protocol.QuoteEvent(models.Quote{InstrumentID: "TSLA"}).ISIN(); got != "TSLA" {
		t.Errorf("Expected TSLA, got %s", got)
	}
	if got := protocol.AddEvent(models.Instrument{ID: "MSFT"}).ISIN(); got != "MSFT" {
		t.Errorf("Expected MSFT, got %s", got)
	}
}
