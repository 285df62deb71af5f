package carousel

import (
	"testing"

	"github.com/agausmann/river-layouts/internal/config"
)

func TestObserveClampsMainCountToViewCount(t *testing.T) {
	store := NewStore(config.DefaultConfig().Carousel)
	st := store.GetOrCreate("DP-1")
	st.MainCount = 5

	st.Observe(2, 1920, 1080, 1)
	if st.MainCount != 2 {
		t.Fatalf("expected main count clamped to 2, got %d", st.MainCount)
	}

	// Zero views: the floor is still 1.
	st.Observe(0, 1920, 1080, 1)
	if st.MainCount != 1 {
		t.Fatalf("expected main count 1 for empty output, got %d", st.MainCount)
	}
}

func TestObserveReclampsScrollOffsetWhenContentShrinks(t *testing.T) {
	store := NewStore(config.DefaultConfig().Carousel)
	st := store.GetOrCreate("DP-1")
	st.Gap = 0

	// 3 views: max offset 960; scroll to the end.
	st.Observe(3, 1920, 1080, 1)
	st.Apply(Op{Kind: OpScrollNext})
	if st.ScrollOffset != 960 {
		t.Fatalf("expected offset 960, got %v", st.ScrollOffset)
	}

	// Down to 2 views: one secondary fills the viewport, max offset 0.
	st.Observe(2, 1920, 1080, 1)
	if st.ScrollOffset != 0 {
		t.Fatalf("expected offset re-clamped to 0, got %v", st.ScrollOffset)
	}
}

func TestStoreLifecycle(t *testing.T) {
	store := NewStore(config.DefaultConfig().Carousel)

	st := store.GetOrCreate("DP-1")
	if st.MainRatio != 0.5 || st.MainCount != 1 {
		t.Fatalf("expected defaults seeded, got %+v", st)
	}
	if again := store.GetOrCreate("DP-1"); again != st {
		t.Fatalf("expected the same state for repeated lookups")
	}

	store.GetOrCreate("HDMI-A-1")
	if got := store.Outputs(); len(got) != 2 || got[0] != "DP-1" || got[1] != "HDMI-A-1" {
		t.Fatalf("expected sorted outputs [DP-1 HDMI-A-1], got %v", got)
	}

	store.Remove("DP-1")
	if _, ok := store.Get("DP-1"); ok {
		t.Fatalf("expected DP-1 to be removed")
	}
	if st := store.GetOrCreate("DP-1"); st.ScrollOffset != 0 {
		t.Fatalf("expected a fresh state after removal, got %+v", st)
	}
}

func TestSnapshotReportsDerivedMetrics(t *testing.T) {
	cfg := config.DefaultConfig().Carousel
	cfg.Gap = 0
	store := NewStore(cfg)

	st := store.GetOrCreate("DP-1")
	st.Observe(3, 1920, 1080, 5)

	c := &Carousel{store: store}
	snaps := c.Snapshot()
	if len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snaps))
	}
	snap := snaps[0]
	if snap.Output != "DP-1" {
		t.Fatalf("expected output DP-1, got %q", snap.Output)
	}
	if snap.State.LastViewCount != 3 || snap.State.LastTags != 5 {
		t.Fatalf("expected recorded demand, got %+v", snap.State)
	}
	if snap.MaxOffset != 960 {
		t.Fatalf("expected max offset 960, got %v", snap.MaxOffset)
	}
	if snap.EffectiveColumnWidth != 960 {
		t.Fatalf("expected effective column width 960, got %d", snap.EffectiveColumnWidth)
	}
}
