package arena

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMod(t *testing.T) {
	if got := Mod(-1, 5); got != 4 {
		t.Fatalf("Mod(-1, 5) = %d, want 4", got)
	}
	for m := 1; m <= 9; m++ {
		for n := -30; n <= 30; n++ {
			got := Mod(n, m)
			if got < 0 || got >= m {
				t.Fatalf("Mod(%d, %d) = %d, outside [0, %d)", n, m, got, m)
			}
			if (got-n)%m != 0 {
				t.Fatalf("Mod(%d, %d) = %d, not congruent", n, m, got)
			}
		}
	}
}

func TestSizeOf(t *testing.T) {
	size, err := SizeOf(TurnState{GlobalDimensions: [2]int{12, 9}})
	if err != nil {
		t.Fatalf("SizeOf: %v", err)
	}
	if size != (Size{Width: 12, Height: 9}) {
		t.Fatalf("SizeOf = %+v", size)
	}

	if _, err := SizeOf(TurnState{}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("SizeOf(zero) err = %v, want ErrInvalidState", err)
	}
}

func TestAnnotate_CopiesAndIndexes(t *testing.T) {
	in, err := Parse(
		"~.F",
		"P^#",
	)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out := Annotate(in)

	for y := range out {
		for x := range out[y] {
			if out[y][x].X != x || out[y][x].Y != y {
				t.Fatalf("tile at (%d,%d) annotated as (%d,%d)", x, y, out[y][x].X, out[y][x].Y)
			}
		}
	}

	out[0][2].X = 40
	out[0][2].Contents.Type = Open
	if in[0][2].X != 0 || in[0][2].Contents.Type != Food {
		t.Fatalf("Annotate aliased its input: %+v", in[0][2])
	}
	if in[1][1].Contents.Orientation != North {
		t.Fatalf("input orientation changed: %+v", in[1][1])
	}
}

func TestFlatten(t *testing.T) {
	a := Annotate(mustParse(t,
		"F~W",
		".Z#",
	))

	all := Flatten(a)
	if len(all) != 6 {
		t.Fatalf("Flatten() len = %d, want 6", len(all))
	}
	for i, tile := range all {
		if tile.Y*3+tile.X != i {
			t.Fatalf("tile %d out of row-major order: %+v", i, tile)
		}
	}

	enemies := Flatten(a, Enemies...)
	if len(enemies) != 2 {
		t.Fatalf("Flatten(enemies) = %+v", enemies)
	}
	if enemies[0].Contents.Type != Wombat || enemies[1].Contents.Type != Zakano {
		t.Fatalf("Flatten(enemies) order = %+v", enemies)
	}

	if got := Flatten(a, Poison); len(got) != 0 {
		t.Fatalf("Flatten(poison) = %+v, want none", got)
	}
}

func TestInitGlobal_IndependentFog(t *testing.T) {
	g := InitGlobal(Size{Width: 4, Height: 3})
	if g.Size() != (Size{Width: 4, Height: 3}) {
		t.Fatalf("size = %+v", g.Size())
	}
	for _, tile := range Flatten(g) {
		if tile.Contents.Type != Fog {
			t.Fatalf("tile %+v is not fog", tile)
		}
	}
	g[0][0].Contents.Type = Food
	if g[0][1].Contents.Type != Fog || g[1][0].Contents.Type != Fog {
		t.Fatalf("cells share state:\n%s", Render(g, nil))
	}
}

func TestValidateLocal(t *testing.T) {
	good := mustParse(t,
		"~~~~~~~",
		"~~~~~~~",
		"~~~~~~~",
		"~~~>~~~",
		"~~~~~~~",
		"~~~~~~~",
		"~~~~~~~",
	)
	if err := ValidateLocal(good); err != nil {
		t.Fatalf("ValidateLocal(good): %v", err)
	}

	noFacing := good.Clone()
	noFacing[3][3].Contents.Orientation = ""
	short := good[:6]
	unknown := good.Clone()
	unknown[0][0].Contents.Type = "lava"

	for name, a := range map[string]Arena{"no facing": noFacing, "short": short, "unknown type": unknown} {
		if err := ValidateLocal(a); !errors.Is(err, ErrInvalidState) {
			t.Errorf("%s: err = %v, want ErrInvalidState", name, err)
		}
	}
}

func TestTurnState_DecodeRejectsUnknownContent(t *testing.T) {
	var ok TurnState
	raw := `{"arena":[[{"contents":{"type":"food"}},{"contents":{"type":"wombat","orientation":"e"}}]],"global-coords":[1,2],"global-dimensions":[10,10]}`
	if err := json.Unmarshal([]byte(raw), &ok); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ok.Arena[0][1].Contents.Orientation != East || ok.Position() != (Position{X: 1, Y: 2}) {
		t.Fatalf("decoded %+v", ok)
	}

	var bad TurnState
	err := json.Unmarshal([]byte(`{"arena":[[{"contents":{"type":"lava"}}]]}`), &bad)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
	err = json.Unmarshal([]byte(`{"arena":[[{"contents":{"type":"wombat","orientation":"up"}}]]}`), &bad)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("orientation err = %v, want ErrInvalidState", err)
	}
}

func TestContentCodesRoundTrip(t *testing.T) {
	for _, ct := range contentCodes {
		code, ok := ct.Code()
		if !ok {
			t.Fatalf("%s has no code", ct)
		}
		back, err := ContentFromCode(code)
		if err != nil || back != ct {
			t.Fatalf("ContentFromCode(%d) = %q, %v", code, back, err)
		}
	}
	if _, err := ContentFromCode(200); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("ContentFromCode(200) err = %v", err)
	}
}

func TestRenderParse(t *testing.T) {
	rows := []string{"~.FP", "#@WZ", "^>v<"}
	a := mustParse(t, rows...)
	want := "~.FP\n#@WZ\n^>v<\n"
	if got := Render(a, nil); got != want {
		t.Fatalf("Render =\n%s\nwant\n%s", got, want)
	}
	if got := Render(a, &Position{X: 1, Y: 0}); got[1] != 'A' {
		t.Fatalf("agent marker missing:\n%s", got)
	}
	if _, err := Parse("x"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("Parse(x) err = %v", err)
	}
}

func TestLoadParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	if err := os.WriteFile(path, []byte("shot-distance: 3\nfood-score-bonus: 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadParams(path)
	if err != nil {
		t.Fatalf("LoadParams: %v", err)
	}
	if p.ShotDistance != 3 || p.FoodScoreBonus != 12 {
		t.Fatalf("overrides not applied: %+v", p)
	}
	if p.WombatDestroyedBonus != 25 {
		t.Fatalf("defaults lost: %+v", p)
	}

	if err := os.WriteFile(path, []byte("shot-distance: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadParams(path); err == nil {
		t.Fatal("expected error for zero shot distance")
	}
}

func TestCommandJSON(t *testing.T) {
	b, err := json.Marshal(TurnCommand(TurnAboutFace))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"action":"turn","metadata":{"direction":"about-face"}}` {
		t.Fatalf("turn = %s", b)
	}
	b, _ = json.Marshal(MoveCommand())
	if string(b) != `{"action":"move","metadata":{}}` {
		t.Fatalf("move = %s", b)
	}
}

func mustParse(t *testing.T, rows ...string) Arena {
	t.Helper()
	a, err := Parse(rows...)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return a
}
