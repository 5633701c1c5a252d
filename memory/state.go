package memory

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brensch/wombats/arena"
)

// DefaultPath is where the agent keeps its global arena inside saved-state.
var DefaultPath = []string{"global-arena"}

// GetGlobalState walks path through the turn's saved-state to find a stored
// global arena. A missing or null key anywhere on the path means there is no
// memory yet, and a fresh fog arena of the match size is returned.
//
// The stored value may be a blob produced by Encode or a plain JSON tile grid.
// Anything else, or a grid of the wrong size, is ErrInvalidState.
func GetGlobalState(state arena.TurnState, path []string) (arena.Arena, error) {
	size, err := arena.SizeOf(state)
	if err != nil {
		return nil, err
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("memory path is empty: %w", arena.ErrInvalidState)
	}

	var cur any = state.SavedState
	for i, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			if cur == nil {
				return arena.InitGlobal(size), nil
			}
			return nil, fmt.Errorf("memory path %v: element %d is %T, not an object: %w", path, i, cur, arena.ErrInvalidState)
		}
		cur, ok = obj[key]
		if !ok || cur == nil {
			return arena.InitGlobal(size), nil
		}
	}

	global, err := decodeLeaf(cur)
	if err != nil {
		return nil, fmt.Errorf("memory path %v: %w", path, err)
	}
	if err := arena.ValidateShape(global, size); err != nil {
		return nil, fmt.Errorf("memory path %v: %w", path, err)
	}
	return global, nil
}

func decodeLeaf(v any) (arena.Arena, error) {
	switch leaf := v.(type) {
	case string:
		return Decode(leaf)
	case arena.Arena:
		return leaf.Clone(), nil
	case []any:
		raw, err := json.Marshal(leaf)
		if err != nil {
			return nil, fmt.Errorf("re-encode tile grid: %w", err)
		}
		var a arena.Arena
		if err := json.Unmarshal(raw, &a); err != nil {
			if errors.Is(err, arena.ErrInvalidState) {
				return nil, err
			}
			return nil, fmt.Errorf("tile grid: %v: %w", err, arena.ErrInvalidState)
		}
		return a, nil
	default:
		return nil, fmt.Errorf("stored arena is %T: %w", v, arena.ErrInvalidState)
	}
}

// PutGlobalState returns a copy of saved with the encoded global arena stored
// at path. Objects along the path are copied, not modified, and created when
// missing or nil. A non-object in the middle of the path is ErrInvalidState,
// the same shape GetGlobalState rejects.
func PutGlobalState(saved map[string]any, path []string, global arena.Arena) (map[string]any, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("memory path is empty: %w", arena.ErrInvalidState)
	}
	blob, err := Encode(global)
	if err != nil {
		return nil, err
	}
	return putPath(saved, path, 0, blob)
}

func putPath(obj map[string]any, path []string, depth int, v any) (map[string]any, error) {
	out := make(map[string]any, len(obj)+1)
	for k, val := range obj {
		out[k] = val
	}
	key := path[depth]
	if depth == len(path)-1 {
		out[key] = v
		return out, nil
	}
	var child map[string]any
	switch cur := out[key].(type) {
	case nil:
	case map[string]any:
		child = cur
	default:
		return nil, fmt.Errorf("memory path %v: element %d is %T, not an object: %w", path, depth, cur, arena.ErrInvalidState)
	}
	next, err := putPath(child, path, depth+1, v)
	if err != nil {
		return nil, err
	}
	out[key] = next
	return out, nil
}
