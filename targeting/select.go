package targeting

import (
	"fmt"
	"sort"

	"github.com/brensch/wombats/arena"
	"github.com/brensch/wombats/spatial"
)

// Target is a scorable tile and its estimated distance in commands.
type Target struct {
	Tile     arena.Tile
	Distance int
}

// Rank returns every scorable point in a ordered by Distance from origin
// facing dir. Ties keep row-major order.
func Rank(dir arena.Orientation, a arena.Arena, size arena.Size, origin arena.Position, includeBarriers bool) []Target {
	points := ScorablePoints(a, origin, includeBarriers)
	out := make([]Target, len(points))
	for i, t := range points {
		out[i] = Target{Tile: t, Distance: spatial.Distance(dir, t.Pos(), size, origin)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}

// SelectTarget returns the closest scorable point in a local view, using the
// facing read off the view's centre. ok is false when nothing in view scores.
func SelectTarget(a arena.Arena, size arena.Size, origin arena.Position, includeBarriers bool) (Target, bool, error) {
	dir, err := spatial.Direction(a)
	if err != nil {
		return Target{}, false, fmt.Errorf("select target: %w", err)
	}
	t, ok := SelectTargetFacing(dir, a, size, origin, includeBarriers)
	return t, ok, nil
}

// SelectTargetFacing is SelectTarget with an explicit facing, for arenas whose
// centre is not the agent, such as global memory.
func SelectTargetFacing(dir arena.Orientation, a arena.Arena, size arena.Size, origin arena.Position, includeBarriers bool) (Target, bool) {
	ranked := Rank(dir, a, size, origin, includeBarriers)
	if len(ranked) == 0 {
		return Target{}, false
	}
	return ranked[0], true
}
