package spatial

import (
	"fmt"

	"github.com/brensch/wombats/arena"
)

// IsClear reports whether the agent could step onto the tile at p. Enemies,
// barriers and poison block.
func IsClear(a arena.Arena, p arena.Position) (bool, error) {
	t, err := a.At(p)
	if err != nil {
		return false, fmt.Errorf("is clear: %w", err)
	}
	return !t.Is(arena.Blockers...), nil
}

// NewDirection finds the turn toward the first other direction, scanning
// n, e, s, w, that faces loc. ok is false when no other direction does.
func NewDirection(dir arena.Orientation, loc, origin arena.Position, size arena.Size) (turn arena.Turn, ok bool) {
	for _, d := range arena.Orientations {
		if d == dir || !IsFacing(d, loc, size, origin) {
			continue
		}
		t, err := TurnTo(dir, d)
		if err != nil {
			return arena.TurnNone, false
		}
		return t, true
	}
	return arena.TurnNone, false
}

// PlanMove returns the next command toward loc: move if the agent faces loc
// and the tile ahead is clear, otherwise turn toward a direction that faces
// loc.
//
// When no direction other than the current one faces loc (loc is the origin,
// or the only useful direction is straight ahead and blocked) PlanMove returns
// a noop command. Callers that never want to idle must handle that themselves.
func PlanMove(dir arena.Orientation, loc, origin arena.Position, a arena.Arena, size arena.Size) (arena.Command, error) {
	if !dir.Valid() {
		return arena.NoopCommand(), fmt.Errorf("plan move: orientation %q: %w", dir, arena.ErrInvalidState)
	}

	if IsFacing(dir, loc, size, origin) {
		front, err := FrontTile(dir, size, origin)
		if err != nil {
			return arena.NoopCommand(), err
		}
		free, err := IsClear(a, front)
		if err != nil {
			return arena.NoopCommand(), fmt.Errorf("plan move: %w", err)
		}
		if free {
			return arena.MoveCommand(), nil
		}
	}

	turn, ok := NewDirection(dir, loc, origin, size)
	if !ok {
		return arena.NoopCommand(), nil
	}
	return arena.TurnCommand(turn), nil
}
