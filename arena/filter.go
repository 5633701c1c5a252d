package arena

import "fmt"

// Filter sets over content types.
var (
	PointSources = []ContentType{Zakano, Wombat, SteelBarrier, WoodBarrier, Food}
	PointsNoWall = []ContentType{Zakano, Wombat, Food}
	Enemies      = []ContentType{Wombat, Zakano}
	Blockers     = []ContentType{Zakano, Wombat, WoodBarrier, SteelBarrier, Poison}
	Targets      = []ContentType{Zakano, Wombat, SteelBarrier, WoodBarrier}
	// Persistent types are kept in global memory once seen. Fog and enemies
	// are transient and never stored.
	Persistent = []ContentType{Food, Poison, Open, WoodBarrier, SteelBarrier}
)

// Annotate returns a copy of a where every tile carries its own grid index.
// The input is not modified and no tile is shared with it.
func Annotate(a Arena) Arena {
	out := a.Clone()
	for y := range out {
		for x := range out[y] {
			out[y][x].X = x
			out[y][x].Y = y
		}
	}
	return out
}

// Flatten returns the tiles of a in row-major order. With filters, only tiles
// whose content type is one of them are returned.
func Flatten(a Arena, filters ...ContentType) []Tile {
	var n int
	for _, row := range a {
		n += len(row)
	}
	out := make([]Tile, 0, n)
	for _, row := range a {
		for _, t := range row {
			if len(filters) > 0 && !t.Is(filters...) {
				continue
			}
			out = append(out, t)
		}
	}
	return out
}

// InitGlobal allocates a size-shaped arena of fog. Every cell is its own value.
func InitGlobal(size Size) Arena {
	out := make(Arena, size.Height)
	for y := range out {
		out[y] = make([]Tile, size.Width)
		for x := range out[y] {
			out[y][x] = Tile{Contents: Contents{Type: Fog}, X: x, Y: y}
		}
	}
	return out
}

// ValidateShape checks that a is a rectangular grid of the given size with
// only known content types.
func ValidateShape(a Arena, size Size) error {
	if len(a) != size.Height {
		return fmt.Errorf("arena has %d rows, want %d: %w", len(a), size.Height, ErrInvalidState)
	}
	for y, row := range a {
		if len(row) != size.Width {
			return fmt.Errorf("arena row %d has %d tiles, want %d: %w", y, len(row), size.Width, ErrInvalidState)
		}
		for x, t := range row {
			if !t.Contents.Type.Valid() {
				return fmt.Errorf("tile (%d,%d) has content type %q: %w", x, y, t.Contents.Type, ErrInvalidState)
			}
		}
	}
	return nil
}

// ValidateLocal checks a local view: 7x7, known types, and an oriented agent
// at the centre.
func ValidateLocal(a Arena) error {
	if err := ValidateShape(a, LocalSize); err != nil {
		return fmt.Errorf("local view: %w", err)
	}
	o := a[LocalCenter.Y][LocalCenter.X].Contents.Orientation
	if !o.Valid() {
		return fmt.Errorf("local view centre has orientation %q: %w", o, ErrInvalidState)
	}
	return nil
}
