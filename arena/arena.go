// Package arena defines the value types for the wombats arena.
//
// An Arena is a row-major grid of tiles (a[y][x]). The world is a torus: every
// coordinate is taken modulo the relevant axis size, so there is no "out of
// bounds" once a position has been wrapped. The agent sees a 7x7 local view
// each turn with itself at the centre, and builds a global arena of the whole
// map out of those views over time.
package arena

import (
	"encoding/json"
	"fmt"
)

// ContentType is the kind of thing occupying a tile.
type ContentType string

const (
	Fog          ContentType = "fog"
	Open         ContentType = "open"
	Food         ContentType = "food"
	Poison       ContentType = "poison"
	WoodBarrier  ContentType = "wood-barrier"
	SteelBarrier ContentType = "steel-barrier"
	Wombat       ContentType = "wombat"
	Zakano       ContentType = "zakano"
)

// contentCodes orders the vocabulary for compact encodings. Append only.
var contentCodes = []ContentType{Fog, Open, Food, Poison, WoodBarrier, SteelBarrier, Wombat, Zakano}

// Valid reports whether t is part of the tile vocabulary.
func (t ContentType) Valid() bool {
	_, ok := t.Code()
	return ok
}

// Code returns the compact numeric code for t.
func (t ContentType) Code() (byte, bool) {
	for i, c := range contentCodes {
		if c == t {
			return byte(i), true
		}
	}
	return 0, false
}

// ContentFromCode is the inverse of ContentType.Code.
func ContentFromCode(code byte) (ContentType, error) {
	if int(code) >= len(contentCodes) {
		return "", fmt.Errorf("content code %d: %w", code, ErrInvalidState)
	}
	return contentCodes[code], nil
}

func (t *ContentType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("content type: %w", err)
	}
	ct := ContentType(s)
	if !ct.Valid() {
		return fmt.Errorf("unknown content type %q: %w", s, ErrInvalidState)
	}
	*t = ct
	return nil
}

// Orientation is a cardinal facing. North decreases y, east increases x.
type Orientation string

const (
	North Orientation = "n"
	East  Orientation = "e"
	South Orientation = "s"
	West  Orientation = "w"
)

// Orientations is the fixed circular scan order used for turning.
var Orientations = []Orientation{North, East, South, West}

// Index returns the position of o in Orientations, or -1.
func (o Orientation) Index() int {
	for i, d := range Orientations {
		if d == o {
			return i
		}
	}
	return -1
}

func (o Orientation) Valid() bool { return o.Index() >= 0 }

func (o *Orientation) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("orientation: %w", err)
	}
	d := Orientation(s)
	if !d.Valid() {
		return fmt.Errorf("unknown orientation %q: %w", s, ErrInvalidState)
	}
	*o = d
	return nil
}

// Contents describes what is on a tile. Orientation is only set on the
// agent's own tile.
type Contents struct {
	Type        ContentType `json:"type"`
	Orientation Orientation `json:"orientation,omitempty"`
}

// Tile is a single grid cell. X and Y are only meaningful after Annotate
// or when the tile has been rebased into global coordinates.
type Tile struct {
	Contents Contents `json:"contents"`
	X        int      `json:"x"`
	Y        int      `json:"y"`
}

// Pos returns the tile's coordinates.
func (t Tile) Pos() Position { return Position{X: t.X, Y: t.Y} }

// Is reports whether the tile's content type is one of types.
func (t Tile) Is(types ...ContentType) bool {
	for _, ct := range types {
		if t.Contents.Type == ct {
			return true
		}
	}
	return false
}

// Position is a grid coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) Equal(o Position) bool { return p.X == o.X && p.Y == o.Y }

// Wrap folds p onto a torus of the given size.
func (p Position) Wrap(size Size) Position {
	return Position{X: Mod(p.X, size.Width), Y: Mod(p.Y, size.Height)}
}

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Size is the width and height of an arena. It is fixed for a match.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s Size) Valid() bool { return s.Width > 0 && s.Height > 0 }

// Contains reports whether p lies inside the unwrapped grid.
func (s Size) Contains(p Position) bool {
	return p.X >= 0 && p.X < s.Width && p.Y >= 0 && p.Y < s.Height
}

// Arena is a row-major grid of tiles: a[y][x].
type Arena [][]Tile

// LocalDim is the side length of the local view.
const LocalDim = 7

var (
	// LocalSize is the shape of every local view.
	LocalSize = Size{Width: LocalDim, Height: LocalDim}
	// LocalCenter is where the agent sits in its local view.
	LocalCenter = Position{X: 3, Y: 3}
)

// Size returns the arena's dimensions, taking the width from the first row.
func (a Arena) Size() Size {
	if len(a) == 0 {
		return Size{}
	}
	return Size{Width: len(a[0]), Height: len(a)}
}

// At returns the tile at p. p must already be in range.
func (a Arena) At(p Position) (Tile, error) {
	if p.Y < 0 || p.Y >= len(a) || p.X < 0 || p.X >= len(a[p.Y]) {
		return Tile{}, fmt.Errorf("position %s outside %dx%d arena: %w", p, a.Size().Width, a.Size().Height, ErrInvalidState)
	}
	return a[p.Y][p.X], nil
}

// Clone performs a deep copy of the arena.
func (a Arena) Clone() Arena {
	if a == nil {
		return nil
	}
	out := make(Arena, len(a))
	for y := range a {
		out[y] = make([]Tile, len(a[y]))
		copy(out[y], a[y])
	}
	return out
}

// TurnState is the per-turn observation handed over by the harness.
type TurnState struct {
	Arena            Arena          `json:"arena"`
	GlobalCoords     [2]int         `json:"global-coords"`
	GlobalDimensions [2]int         `json:"global-dimensions"`
	SavedState       map[string]any `json:"saved-state,omitempty"`
}

// Position returns the agent's absolute position.
func (s TurnState) Position() Position {
	return Position{X: s.GlobalCoords[0], Y: s.GlobalCoords[1]}
}
