package arena

import "fmt"

// Mod is the mathematical modulo: the result is in [0, m) for m > 0,
// including for negative n.
func Mod(n, m int) int {
	return ((n % m) + m) % m
}

// SizeOf extracts the global arena size from the turn's dimensions.
func SizeOf(state TurnState) (Size, error) {
	size := Size{Width: state.GlobalDimensions[0], Height: state.GlobalDimensions[1]}
	if !size.Valid() {
		return Size{}, fmt.Errorf("global dimensions %v: %w", state.GlobalDimensions, ErrInvalidState)
	}
	return size, nil
}
