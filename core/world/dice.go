package world

import (
	"errors"
	"math/rand/v2"
)

var ErrInvalidSides = errors.New("a die needs at least two sides")

// Dice draws a number in [0, n).
type Dice func(n int) int

// DefaultDice draws from the global random source.
var DefaultDice Dice = rand.IntN

// SeededDice is a reproducible Dice. It must not be shared between
// goroutines.
func SeededDice(seed1, seed2 uint64) Dice {
	return rand.New(rand.NewPCG(seed1, seed2)).IntN
}

// Roll returns a uniform result in [1, sides].
func (d Dice) Roll(sides int) (int, error) {
	if sides < 2 {
		return 0, ErrInvalidSides
	}
	if d == nil {
		d = DefaultDice
	}
	return d(sides) + 1, nil
}
