package carousel

import (
	"sort"

	"github.com/agausmann/river-layouts/internal/config"
)

// State is one output's carousel parameters plus the last demand seen
// for it. Commands mutate it; demands re-clamp it.
type State struct {
	MainCount    int
	MainRatio    float64
	ScrollOffset float64
	ColumnWidth  config.ColumnWidth
	Gap          int
	MainLocation config.MainLocation

	LastViewCount    int
	LastUsableWidth  int
	LastUsableHeight int
	LastTags         uint32
}

// NewState returns a State seeded from the configured defaults.
func NewState(defaults config.Carousel) *State {
	return &State{
		MainCount:    defaults.MainCount,
		MainRatio:    defaults.MainRatio,
		ColumnWidth:  defaults.ColumnWidth,
		Gap:          defaults.Gap,
		MainLocation: defaults.MainLocation,
	}
}

// Params returns the layout parameters for this state.
func (s *State) Params() Params {
	return Params{
		MainCount:    s.MainCount,
		MainRatio:    s.MainRatio,
		ScrollOffset: s.ScrollOffset,
		ColumnWidth:  s.ColumnWidth,
		Gap:          s.Gap,
		MainLocation: s.MainLocation,
	}
}

// Metrics derives the measurements for the last observed demand.
func (s *State) Metrics() Metrics {
	return ComputeMetrics(s.LastUsableWidth, s.LastUsableHeight, s.LastViewCount, s.Params())
}

// Observe records a layout demand and re-clamps the state against it:
// MainCount stays within [1, max(1, viewCount)] and ScrollOffset within
// [0, maxOffset] for the current content, so a shrinking view set can
// never strand either value.
func (s *State) Observe(viewCount, usableWidth, usableHeight int, tags uint32) {
	s.LastViewCount = viewCount
	s.LastUsableWidth = usableWidth
	s.LastUsableHeight = usableHeight
	s.LastTags = tags

	upper := viewCount
	if upper < 1 {
		upper = 1
	}
	if s.MainCount > upper {
		s.MainCount = upper
	}
	if s.MainCount < 1 {
		s.MainCount = 1
	}

	s.ScrollOffset = ClampOffset(s.ScrollOffset, s.Metrics().MaxOffset)
}

// Store owns all per-output carousel state. Entries are created lazily
// on first use and dropped when the compositor removes the output.
// Access is strictly sequential; there is no locking.
type Store struct {
	defaults config.Carousel
	outputs  map[string]*State
}

func NewStore(defaults config.Carousel) *Store {
	return &Store{
		defaults: defaults,
		outputs:  make(map[string]*State),
	}
}

// GetOrCreate returns the state for output, seeding it from the
// configured defaults on first use.
func (s *Store) GetOrCreate(output string) *State {
	if st, ok := s.outputs[output]; ok {
		return st
	}
	st := NewState(s.defaults)
	s.outputs[output] = st
	return st
}

// Get returns the state for output if it exists.
func (s *Store) Get(output string) (*State, bool) {
	st, ok := s.outputs[output]
	return st, ok
}

// Remove discards the state for output.
func (s *Store) Remove(output string) {
	delete(s.outputs, output)
}

// Outputs returns the tracked output names, sorted.
func (s *Store) Outputs() []string {
	names := make([]string, 0, len(s.outputs))
	for name := range s.outputs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
