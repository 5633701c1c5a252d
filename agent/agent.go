// Package agent is the default per-turn decision policy.
//
// Each turn it validates the local view, folds it into global memory, and
// picks a command in priority order: shoot anything in the line of fire, turn
// to face an adjacent enemy, head for the closest point source in view, head
// for remembered food, and otherwise explore.
package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brensch/wombats/arena"
	"github.com/brensch/wombats/memory"
	"github.com/brensch/wombats/spatial"
	"github.com/brensch/wombats/targeting"
)

// Reason tags why a command was chosen.
type Reason string

const (
	ReasonShoot        Reason = "shoot"
	ReasonFaceThreat   Reason = "face-threat"
	ReasonLocalTarget  Reason = "local-target"
	ReasonMemoryTarget Reason = "memory-target"
	ReasonBlocked      Reason = "blocked"
	ReasonExplore      Reason = "explore"
)

// Config controls the engine.
type Config struct {
	// MemoryPath locates the global arena inside saved-state.
	MemoryPath []string
	// IncludeBarriers makes barriers count as targets and point sources.
	IncludeBarriers bool
	Params          arena.Params
	Logger          *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		MemoryPath:      memory.DefaultPath,
		IncludeBarriers: true,
		Params:          arena.DefaultParams(),
	}
}

// Engine decides one turn at a time. It keeps no state between calls; all
// memory travels in the turn's saved-state.
type Engine struct {
	cfg Config
	log *slog.Logger
}

func New(cfg Config) *Engine {
	if len(cfg.MemoryPath) == 0 {
		cfg.MemoryPath = memory.DefaultPath
	}
	if cfg.Params.ShotDistance <= 0 {
		cfg.Params = arena.DefaultParams()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{cfg: cfg, log: logger}
}

// Decision is the outcome of one turn.
type Decision struct {
	Command arena.Command
	Reason  Reason
	// Target is the position the agent is heading for or shooting at, in the
	// frame named by Reason: local for shoot/face-threat/local-target, global
	// for memory-target.
	Target *arena.Position
	// Global is the merged memory after this turn.
	Global arena.Arena
	// SavedState is the turn's saved-state with the updated memory stored.
	SavedState map[string]any
}

// Decide runs the policy for one turn.
func (e *Engine) Decide(ctx context.Context, state arena.TurnState) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}
	if err := arena.ValidateLocal(state.Arena); err != nil {
		return Decision{}, err
	}
	size, err := arena.SizeOf(state)
	if err != nil {
		return Decision{}, err
	}

	global, err := memory.GetGlobalState(state, e.cfg.MemoryPath)
	if err != nil {
		return Decision{}, fmt.Errorf("load memory: %w", err)
	}
	merged, err := memory.MergeGlobal(global, state, size)
	if err != nil {
		return Decision{}, err
	}
	saved, err := memory.PutGlobalState(state.SavedState, e.cfg.MemoryPath, merged)
	if err != nil {
		return Decision{}, fmt.Errorf("store memory: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}

	d, err := e.choose(state, merged, size)
	if err != nil {
		return Decision{}, err
	}
	d.Global = merged
	d.SavedState = saved

	e.log.Debug("decided",
		slog.String("command", d.Command.String()),
		slog.String("reason", string(d.Reason)),
		slog.Any("global_coords", state.GlobalCoords),
	)
	return d, nil
}

func (e *Engine) choose(state arena.TurnState, global arena.Arena, size arena.Size) (Decision, error) {
	local := state.Arena
	origin := arena.LocalCenter
	walls := e.cfg.IncludeBarriers

	dir, err := spatial.Direction(local)
	if err != nil {
		return Decision{}, err
	}

	if t, ok := targeting.FirstShootable(dir, local, size, origin, walls, e.cfg.Params.ShotDistance); ok {
		return decided(arena.ShootCommand(dir), ReasonShoot, t.Pos()), nil
	}

	for _, t := range arena.Flatten(arena.Annotate(local), arena.Enemies...) {
		if t.Pos().Equal(origin) || !spatial.Adjacent(t.Pos(), origin, arena.LocalSize) {
			continue
		}
		if turn, ok := spatial.NewDirection(dir, t.Pos(), origin, size); ok {
			return decided(arena.TurnCommand(turn), ReasonFaceThreat, t.Pos()), nil
		}
	}

	if target, ok := targeting.SelectTargetFacing(dir, local, size, origin, walls); ok {
		cmd, err := spatial.PlanMove(dir, target.Tile.Pos(), origin, local, size)
		if err != nil {
			return Decision{}, err
		}
		if cmd.Action == arena.ActionNoop {
			return decided(arena.TurnCommand(arena.TurnLeft), ReasonBlocked, target.Tile.Pos()), nil
		}
		return decided(cmd, ReasonLocalTarget, target.Tile.Pos()), nil
	}

	if d, ok, err := e.fromMemory(dir, state, global, size); err != nil || ok {
		return d, err
	}

	return explore(dir, local)
}

// fromMemory heads for remembered food outside the current view. Enemies are
// not in memory, so a planned move is checked against the local view.
func (e *Engine) fromMemory(dir arena.Orientation, state arena.TurnState, global arena.Arena, size arena.Size) (Decision, bool, error) {
	pos := state.Position()
	target, ok := targeting.SelectTargetFacing(dir, global, size, pos, false)
	if !ok {
		return Decision{}, false, nil
	}
	cmd, err := spatial.PlanMove(dir, target.Tile.Pos(), pos, global, size)
	if err != nil {
		return Decision{}, false, err
	}
	switch cmd.Action {
	case arena.ActionNoop:
		return decided(arena.TurnCommand(arena.TurnLeft), ReasonBlocked, target.Tile.Pos()), true, nil
	case arena.ActionMove:
		front, err := spatial.FrontTile(dir, arena.LocalSize, arena.LocalCenter)
		if err != nil {
			return Decision{}, false, err
		}
		free, err := spatial.IsClear(state.Arena, front)
		if err != nil {
			return Decision{}, false, err
		}
		if !free {
			return decided(arena.TurnCommand(arena.TurnLeft), ReasonBlocked, target.Tile.Pos()), true, nil
		}
	}
	return decided(cmd, ReasonMemoryTarget, target.Tile.Pos()), true, nil
}

func explore(dir arena.Orientation, local arena.Arena) (Decision, error) {
	front, err := spatial.FrontTile(dir, arena.LocalSize, arena.LocalCenter)
	if err != nil {
		return Decision{}, err
	}
	free, err := spatial.IsClear(local, front)
	if err != nil {
		return Decision{}, err
	}
	if free {
		return Decision{Command: arena.MoveCommand(), Reason: ReasonExplore}, nil
	}
	return Decision{Command: arena.TurnCommand(arena.TurnRight), Reason: ReasonExplore}, nil
}

func decided(cmd arena.Command, reason Reason, target arena.Position) Decision {
	return Decision{Command: cmd, Reason: reason, Target: &target}
}
