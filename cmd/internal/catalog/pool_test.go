package catalog_test

import (
	"math/rand"
	"testing"

	"github.com/shubham-shewale/stock-market-feed/cmd/internal/catalog"
	"github.com/shubham-shewale/stock-market-feed/cmd/internal/testutils"
	"github.com/shubham-shewale/stock-market-feed/pkg/models"
)

var twoStocks = []models.CatalogEntry{
	{Symbol: "NVDA", Name: "NVIDIA"},
	{Symbol: "AAPL", Name: "Apple"},
}

func assertPartition(t *testing.T, p *catalog.Pool, all []models.CatalogEntry) {
	t.Helper()

	seen := make(map[string]int)
	for _, e := range p.Available() {
		seen[e.Symbol]++
	}
	for _, e := range p.Active() {
		seen[e.Symbol]++
	}
	if len(seen) != len(all) {
		t.Fatalf("Expected %d distinct entries, got %d", len(all), len(seen))
	}
	for _, e := range all {
		if seen[e.Symbol] != 1 {
			t.Errorf("Entry %s appears %d times across available/active", e.Symbol, seen[e.Symbol])
		}
	}
}

func TestPool_ReserveUntilEmpty(t *testing.T) {
	p := catalog.NewPool(twoStocks, &testutils.MockRand{ValInt: 0})

	for i := 0; i < 2; i++ {
		if _, ok := p.Reserve(); !ok {
			t.Fatalf("Reserve %d should succeed", i)
		}
	}

	if _, ok := p.Reserve(); ok {
		t.Error("Reserve on an empty pool must report no entry")
	}
	if p.AvailableCount() != 0 || p.ActiveCount() != 2 {
		t.Errorf("Expected 0 available / 2 active, got %d / %d", p.AvailableCount(), p.ActiveCount())
	}
	assertPartition(t, p, twoStocks)
}

func TestPool_ReservePicksIndex(t *testing.T) {
	p := catalog.NewPool(twoStocks, &testutils.MockRand{ValInt: 1})

	e, ok := p.Reserve()
	if !ok {
		t.Fatal("Reserve should succeed")
	}
	if e.Symbol != "AAPL" {
		t.Errorf("Expected AAPL at index 1, got %s", e.Symbol)
	}
}

func TestPool_ReleaseReturnsEntry(t *testing.T) {
	p := catalog.NewPool(twoStocks, &testutils.MockRand{ValInt: 0})

	e, _ := p.Reserve()
	p.Release(e)

	if p.AvailableCount() != 2 || p.ActiveCount() != 0 {
		t.Errorf("Expected everything available after release, got %d / %d", p.AvailableCount(), p.ActiveCount())
	}

	// releasing twice must not duplicate the entry
	p.Release(e)
	if p.AvailableCount() != 2 {
		t.Errorf("Double release duplicated an entry: %d available", p.AvailableCount())
	}
	assertPartition(t, p, twoStocks)
}

func TestPool_DuplicateSymbolsCollapsed(t *testing.T) {
	entries := append([]models.CatalogEntry{}, twoStocks...)
	entries = append(entries, models.CatalogEntry{Symbol: "NVDA", Name: "dup"})

	p := catalog.NewPool(entries, &testutils.MockRand{})
	if p.AvailableCount() != 2 {
		t.Errorf("Expected duplicates collapsed to 2 entries, got %d", p.AvailableCount())
	}
}

func TestPool_PartitionHoldsUnderRandomChurn(t *testing.T) {
	all := catalog.Stocks()
	rnd := rand.New(rand.NewSource(42))
	p := catalog.NewPool(all, rnd)

	var held []models.CatalogEntry
	for i := 0; i < 2000; i++ {
		if rnd.Intn(2) == 0 {
			if e, ok := p.Reserve(); ok {
				held = append(held, e)
			}
		} else if len(held) > 0 {
			j := rnd.Intn(len(held))
			p.Release(held[j])
			held = append(held[:j], held[j+1:]...)
		}
		if p.ActiveCount() != len(held) {
			t.Fatalf("step %d: active=%d, held=%d", i, p.ActiveCount(), len(held))
		}
	}
	assertPartition(t, p, all)
}

func TestStocks_UniqueSymbols(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range catalog.Stocks() {
		if seen[e.Symbol] {
			t.Errorf("Duplicate symbol %s in catalog", e.Symbol)
		}
		seen[e.Symbol] = true
	}
	if len(seen) != 50 {
		t.Errorf("Expected 50 catalog entries, got %d", len(seen))
	}
}
