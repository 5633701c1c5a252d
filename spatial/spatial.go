// Package spatial answers geometric questions on the toroidal arena: which
// way the agent faces, whether a step brings it closer to a target, how many
// turns a target is away and which way to turn.
//
// Everything here ignores obstacles except IsClear and PlanMove, which look
// only at the tile directly ahead.
package spatial

import (
	"fmt"

	"github.com/brensch/wombats/arena"
)

// Direction reads the agent's facing off the centre of its local view.
func Direction(local arena.Arena) (arena.Orientation, error) {
	t, err := local.At(arena.LocalCenter)
	if err != nil {
		return "", fmt.Errorf("direction: %w", err)
	}
	o := t.Contents.Orientation
	if !o.Valid() {
		return "", fmt.Errorf("direction: centre tile has orientation %q: %w", o, arena.ErrInvalidState)
	}
	return o, nil
}

// IsFacing reports whether one step along dir from origin strictly shortens
// the wrapped distance to target on the axis dir moves along. It is false when
// origin and target already share that coordinate.
func IsFacing(dir arena.Orientation, target arena.Position, size arena.Size, origin arena.Position) bool {
	switch dir {
	case arena.North:
		return target.Y != origin.Y && 2*arena.Mod(origin.Y-target.Y, size.Height) <= size.Height
	case arena.East:
		return target.X != origin.X && 2*arena.Mod(target.X-origin.X, size.Width) <= size.Width
	case arena.South:
		return target.Y != origin.Y && 2*arena.Mod(target.Y-origin.Y, size.Height) <= size.Height
	case arena.West:
		return target.X != origin.X && 2*arena.Mod(origin.X-target.X, size.Width) <= size.Width
	default:
		return false
	}
}

// axisDistance is the shorter way round between a and b on an axis of length m.
func axisDistance(a, b, m int) int {
	d := arena.Mod(a-b, m)
	return min(d, m-d)
}

// Manhattan is the wrapped Manhattan distance between a and b.
func Manhattan(a, b arena.Position, size arena.Size) int {
	return axisDistance(a.X, b.X, size.Width) + axisDistance(a.Y, b.Y, size.Height)
}

// Adjacent reports whether a and b are orthogonal neighbours on the torus.
func Adjacent(a, b arena.Position, size arena.Size) bool {
	return Manhattan(a, b, size) == 1
}

// Distance estimates the number of commands needed to reach node: one per
// step, one more if the agent must turn before its first step, and one more
// if a second turn is needed because both axes still differ. Obstacles are
// ignored.
func Distance(dir arena.Orientation, node arena.Position, size arena.Size, origin arena.Position) int {
	dx := axisDistance(node.X, origin.X, size.Width)
	dy := axisDistance(node.Y, origin.Y, size.Height)
	if dx == 0 && dy == 0 {
		return 0
	}

	d := dx + dy
	if !IsFacing(dir, node, size, origin) {
		d++
	}
	if min(dx, dy) != 0 {
		d++
	}
	return d
}

// TurnTo returns the rotation from current to desired. Orientations are
// ordered clockwise n, e, s, w.
func TurnTo(current, desired arena.Orientation) (arena.Turn, error) {
	ci, di := current.Index(), desired.Index()
	if ci < 0 || di < 0 {
		return arena.TurnNone, fmt.Errorf("turn from %q to %q: %w", current, desired, arena.ErrInvalidState)
	}
	switch arena.Mod(ci-di, 4) {
	case 1:
		return arena.TurnLeft, nil
	case 2:
		return arena.TurnAboutFace, nil
	case 3:
		return arena.TurnRight, nil
	default:
		return arena.TurnNone, nil
	}
}

// FrontTile is the position one step ahead of origin along dir.
func FrontTile(dir arena.Orientation, size arena.Size, origin arena.Position) (arena.Position, error) {
	p := origin
	switch dir {
	case arena.North:
		p.Y = arena.Mod(p.Y-1, size.Height)
	case arena.East:
		p.X = arena.Mod(p.X+1, size.Width)
	case arena.South:
		p.Y = arena.Mod(p.Y+1, size.Height)
	case arena.West:
		p.X = arena.Mod(p.X-1, size.Width)
	default:
		return origin, fmt.Errorf("front tile: orientation %q: %w", dir, arena.ErrInvalidState)
	}
	return p, nil
}
