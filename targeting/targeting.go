// Package targeting decides what the agent can shoot and which point source
// it should head for.
package targeting

import "github.com/brensch/wombats/arena"

// ShotRange is the default shot distance in tiles.
const ShotRange = 5

// Shootable reports whether a shot fired from origin facing dir would reach
// tile: it must lie on dir's line (same column for n/s, same row for e/w)
// within rng tiles ahead, wrapping around the arena. A tile is never
// shootable from itself.
func Shootable(dir arena.Orientation, origin, tile arena.Position, size arena.Size, rng int) bool {
	if origin.Equal(tile) {
		return false
	}
	switch dir {
	case arena.North:
		return origin.X == tile.X && arena.Mod(origin.Y-tile.Y, size.Height) <= rng
	case arena.East:
		return origin.Y == tile.Y && arena.Mod(tile.X-origin.X, size.Width) <= rng
	case arena.South:
		return origin.X == tile.X && arena.Mod(tile.Y-origin.Y, size.Height) <= rng
	case arena.West:
		return origin.Y == tile.Y && arena.Mod(origin.X-tile.X, size.Width) <= rng
	default:
		return false
	}
}

func candidates(includeBarriers bool) []arena.ContentType {
	if includeBarriers {
		return arena.Targets
	}
	return arena.Enemies
}

// CanShoot reports whether any enemy, or barrier when includeBarriers is set,
// in a is shootable from origin facing dir. Tiles are addressed by their index
// in a.
func CanShoot(dir arena.Orientation, a arena.Arena, size arena.Size, origin arena.Position, includeBarriers bool, rng int) bool {
	_, ok := FirstShootable(dir, a, size, origin, includeBarriers, rng)
	return ok
}

// FirstShootable returns the first tile, in row-major order, that CanShoot
// would fire at.
func FirstShootable(dir arena.Orientation, a arena.Arena, size arena.Size, origin arena.Position, includeBarriers bool, rng int) (arena.Tile, bool) {
	for _, t := range arena.Flatten(arena.Annotate(a), candidates(includeBarriers)...) {
		if Shootable(dir, origin, t.Pos(), size, rng) {
			return t, true
		}
	}
	return arena.Tile{}, false
}

// ScorablePoints lists every tile in a worth points (enemies, food and, when
// includeBarriers is set, barriers) other than origin's own.
func ScorablePoints(a arena.Arena, origin arena.Position, includeBarriers bool) []arena.Tile {
	filters := arena.PointsNoWall
	if includeBarriers {
		filters = arena.PointSources
	}
	tiles := arena.Flatten(arena.Annotate(a), filters...)
	out := tiles[:0]
	for _, t := range tiles {
		if !t.Pos().Equal(origin) {
			out = append(out, t)
		}
	}
	return out
}
