package heap

import (
	"sync"

	"github.com/lattice-lang/lattice/value"
)

// Region is a bump allocator grouping one generation of crystal
// allocations; it is collected as a whole (spec §3.3, Glossary).
type Region struct {
	ID         value.RegionID
	Epoch      int64
	TotalBytes int64
	allocs     []*value.Alloc
}

// bump records a new allocation inside the region.
func (r *Region) bump(size int) *value.Alloc {
	a := &value.Alloc{Size: size}
	r.allocs = append(r.allocs, a)
	r.TotalBytes += int64(size)
	return a
}

// RegionStore is the indexed collection of live regions (spec §3.3).
type RegionStore struct {
	mu      sync.Mutex
	epoch   int64
	nextID  value.RegionID
	regions map[value.RegionID]*Region
}

func NewRegionStore() *RegionStore {
	return &RegionStore{nextID: 1, regions: make(map[value.RegionID]*Region)}
}

// AdvanceEpoch groups newly-frozen values by generation (spec §4.2 step 1).
func (s *RegionStore) AdvanceEpoch() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	return s.epoch
}

// NewRegion creates a fresh region at the current epoch.
func (s *RegionStore) NewRegion() *Region {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &Region{ID: s.nextID, Epoch: s.epoch}
	s.regions[r.ID] = r
	s.nextID++
	return r
}

// Get looks up a region by id.
func (s *RegionStore) Get(id value.RegionID) (*Region, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.regions[id]
	return r, ok
}

// SweepExcept releases every region whose id is not in reachable (spec
// §4.2 step 5).
func (s *RegionStore) SweepExcept(reachable map[value.RegionID]bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	freed := 0
	for id := range s.regions {
		if !reachable[id] {
			delete(s.regions, id)
			freed++
		}
	}
	return freed
}

// Count returns the number of live regions.
func (s *RegionStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.regions)
}
