// Package memory fuses the agent's local observations into a persistent
// global arena and carries that arena between turns as an opaque blob.
//
// The global arena is the agent's only long-term memory. It starts as fog and
// is replaced, never mutated, every turn.
package memory

import (
	"fmt"

	"github.com/brensch/wombats/arena"
)

// MergeGlobal writes the persistent tiles of the turn's local view into a copy
// of global and returns it.
//
// The local view's centre is obs.GlobalCoords, so each local tile is rebased
// by (GlobalCoords - centre) per axis with wraparound. Fog and enemies are
// dropped. Later tiles overwrite earlier ones, and the agent's own cell is
// written last as open, so an agent standing on food records that cell as
// open this turn.
func MergeGlobal(global arena.Arena, obs arena.TurnState, size arena.Size) (arena.Arena, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("merge: size %+v: %w", size, arena.ErrInvalidState)
	}
	if err := arena.ValidateShape(global, size); err != nil {
		return nil, fmt.Errorf("merge: global arena: %w", err)
	}
	if err := arena.ValidateShape(obs.Arena, arena.LocalSize); err != nil {
		return nil, fmt.Errorf("merge: local view: %w", err)
	}
	origin := obs.Position()
	if !size.Contains(origin) {
		return nil, fmt.Errorf("merge: global coords %s outside %dx%d: %w", origin, size.Width, size.Height, arena.ErrInvalidState)
	}

	offset := arena.Position{
		X: arena.Mod(origin.X-arena.LocalCenter.X, size.Width),
		Y: arena.Mod(origin.Y-arena.LocalCenter.Y, size.Height),
	}

	out := global.Clone()
	for _, tile := range arena.Flatten(arena.Annotate(obs.Arena), arena.Persistent...) {
		p := arena.Position{X: tile.X + offset.X, Y: tile.Y + offset.Y}.Wrap(size)
		tile.X, tile.Y = p.X, p.Y
		tile.Contents.Orientation = ""
		out[p.Y][p.X] = tile
	}

	out[origin.Y][origin.X] = arena.Tile{
		Contents: arena.Contents{Type: arena.Open},
		X:        origin.X,
		Y:        origin.Y,
	}
	return out, nil
}
