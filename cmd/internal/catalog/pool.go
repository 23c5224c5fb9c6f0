package catalog

import "github.com/shubham-shewale/stock-market-feed/pkg/models"

// Rand is the subset of math/rand the pool draws from.
type Rand interface {
	Intn(n int) int
}

// Pool partitions a catalog into available and active entries. It is owned
// by the generator goroutine and is not safe for concurrent use.
type Pool struct {
	rand      Rand
	available []models.CatalogEntry
	active    map[string]models.CatalogEntry
}

func NewPool(entries []models.CatalogEntry, rnd Rand) *Pool {
	p := &Pool{
		rand:      rnd,
		available: make([]models.CatalogEntry, 0, len(entries)),
		active:    make(map[string]models.CatalogEntry, len(entries)),
	}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.Symbol] {
			continue
		}
		seen[e.Symbol] = true
		p.available = append(p.available, e)
	}
	return p
}

// Reserve moves a uniformly random available entry into the active set.
// ok is false when nothing is available.
func (p *Pool) Reserve() (entry models.CatalogEntry, ok bool) {
	n := len(p.available)
	if n == 0 {
		return models.CatalogEntry{}, false
	}
	i := p.rand.Intn(n)
	entry = p.available[i]

	// swap-remove; order of the available set carries no meaning
	p.available[i] = p.available[n-1]
	p.available = p.available[:n-1]

	p.active[entry.Symbol] = entry
	return entry, true
}

// Release returns an active entry to the available set. Releasing an entry
// that is not active is a no-op.
func (p *Pool) Release(entry models.CatalogEntry) {
	e, ok := p.active[entry.Symbol]
	if !ok {
		return
	}
	delete(p.active, entry.Symbol)
	p.available = append(p.available, e)
}

func (p *Pool) AvailableCount() int { return len(p.available) }
func (p *Pool) ActiveCount() int    { return len(p.active) }

// Available returns a snapshot of the available entries.
func (p *Pool) Available() []models.CatalogEntry {
	out := make([]models.CatalogEntry, len(p.available))
	copy(out, p.available)
	return out
}

// Active returns a snapshot of the active entries in no particular order.
func (p *Pool) Active() []models.CatalogEntry {
	out := make([]models.CatalogEntry, 0, len(p.active))
	for _, e := range p.active {
		out = append(out, e)
	}
	return out
}
