package carousel

import (
	"github.com/charmbracelet/log"

	"github.com/agausmann/river-layouts/internal/config"
	"github.com/agausmann/river-layouts/internal/generator"
)

// Namespace identifies the carousel generator to the compositor.
const Namespace = "carousel"

// Carousel is the carousel layout generator.
type Carousel struct {
	store  *Store
	logger *log.Logger
}

func New(defaults config.Carousel, logger *log.Logger) *Carousel {
	return &Carousel{
		store:  NewStore(defaults),
		logger: logger,
	}
}

func (c *Carousel) Namespace() string {
	return Namespace
}

// UserCommand parses and applies one command to the named output's
// state. The next layout demand picks up the change; no geometry is
// produced here.
func (c *Carousel) UserCommand(cmd string, tags uint32, output string) error {
	op, err := ParseCommand(cmd)
	if err != nil {
		return err
	}

	st := c.store.GetOrCreate(output)
	st.Apply(op)
	c.logger.Debug("applied command",
		"output", output,
		"cmd", cmd,
		"main_count", st.MainCount,
		"main_ratio", st.MainRatio,
		"scroll_offset", st.ScrollOffset)
	return nil
}

// GenerateLayout computes geometry for one layout demand.
func (c *Carousel) GenerateLayout(viewCount, usableWidth, usableHeight, tags uint32, output string) (generator.GeneratedLayout, error) {
	st := c.store.GetOrCreate(output)
	st.Observe(int(viewCount), int(usableWidth), int(usableHeight), tags)

	return generator.GeneratedLayout{
		Name:  Namespace,
		Views: Compute(int(usableWidth), int(usableHeight), int(viewCount), st.Params()),
	}, nil
}

func (c *Carousel) OutputRemoved(output string) {
	c.store.Remove(output)
}

// OutputState is a point-in-time copy of one output's state for the
// status surface.
type OutputState struct {
	Output               string
	State                State
	MaxOffset            float64
	EffectiveColumnWidth int
}

// Snapshot returns a copy of every tracked output's state, sorted by
// output name.
func (c *Carousel) Snapshot() []OutputState {
	names := c.store.Outputs()
	out := make([]OutputState, 0, len(names))
	for _, name := range names {
		st, ok := c.store.Get(name)
		if !ok {
			continue
		}
		m := st.Metrics()
		out = append(out, OutputState{
			Output:               name,
			State:                *st,
			MaxOffset:            m.MaxOffset,
			EffectiveColumnWidth: m.ColumnWidth,
		})
	}
	return out
}
