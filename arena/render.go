package arena

import (
	"fmt"
	"strings"
)

var glyphs = map[ContentType]byte{
	Fog:          '~',
	Open:         '.',
	Food:         'F',
	Poison:       'P',
	WoodBarrier:  '#',
	SteelBarrier: '@',
	Wombat:       'W',
	Zakano:       'Z',
}

var arrows = map[Orientation]byte{North: '^', East: '>', South: 'v', West: '<'}

// Glyph returns the single-character rendering of a tile.
func Glyph(t Tile) byte {
	if a, ok := arrows[t.Contents.Orientation]; ok {
		return a
	}
	if g, ok := glyphs[t.Contents.Type]; ok {
		return g
	}
	return '?'
}

// Render draws a top-to-bottom, one character per tile. If agent is non-nil
// that cell is drawn as 'A' unless the tile already carries an orientation.
func Render(a Arena, agent *Position) string {
	var b strings.Builder
	for y, row := range a {
		for x, t := range row {
			c := Glyph(t)
			if agent != nil && agent.X == x && agent.Y == y && t.Contents.Orientation == "" {
				c = 'A'
			}
			b.WriteByte(c)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Parse is the inverse of Render for hand-written boards. Arrows become an
// oriented wombat, which is how the agent appears in its own view.
func Parse(rows ...string) (Arena, error) {
	types := make(map[byte]ContentType, len(glyphs))
	for ct, g := range glyphs {
		types[g] = ct
	}
	dirs := make(map[byte]Orientation, len(arrows))
	for o, g := range arrows {
		dirs[g] = o
	}

	out := make(Arena, len(rows))
	for y, row := range rows {
		out[y] = make([]Tile, len(row))
		for x := 0; x < len(row); x++ {
			c := row[x]
			if o, ok := dirs[c]; ok {
				out[y][x] = Tile{Contents: Contents{Type: Wombat, Orientation: o}}
				continue
			}
			ct, ok := types[c]
			if !ok {
				return nil, fmt.Errorf("row %d col %d: glyph %q: %w", y, x, c, ErrInvalidState)
			}
			out[y][x] = Tile{Contents: Contents{Type: ct}}
		}
	}
	return out, nil
}
