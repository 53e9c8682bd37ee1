package model

import (
	"fmt"
	"math"
)

// Resources :
// Regroups the three resources that can be loaded in
// the cargo bay of a fleet. Amounts are kept as floats
// as production and debris accumulate at sub-unit
// granularity, and rounded only when they have to be
// compared against integral capacities.
type Resources struct {
	Metal     float64 `json:"metal"`
	Crystal   float64 `json:"crystal"`
	Deuterium float64 `json:"deuterium"`
}

// ErrNegativeResources : Indicates that an amount of
// resources is negative.
var ErrNegativeResources = fmt.Errorf("invalid negative amount of resources")

// String :
// Implementation of the stringer interface to help
// visualizing amounts in the logs.
//
// Returns the string representing the resources.
func (r Resources) String() string {
	return fmt.Sprintf("[m: %.0f, c: %.0f, d: %.0f]", r.Metal, r.Crystal, r.Deuterium)
}

// Total :
// Computes the accumulated amount across the three
// resources. This is the value compared against the
// cargo capacity of a fleet.
//
// Returns the total amount.
func (r Resources) Total() float64 {
	return r.Metal + r.Crystal + r.Deuterium
}

// Empty :
// Returns `true` if no resource carries any amount.
func (r Resources) Empty() bool {
	return r.Metal == 0 && r.Crystal == 0 && r.Deuterium == 0
}

// Valid :
// Returns `true` if no amount is negative.
func (r Resources) Valid() bool {
	return r.Metal >= 0 && r.Crystal >= 0 && r.Deuterium >= 0
}

// Add :
// Accumulates the input amounts into this object.
//
// The `other` defines the amounts to add.
//
// Returns the accumulated resources.
func (r Resources) Add(other Resources) Resources {
	return Resources{
		Metal:     r.Metal + other.Metal,
		Crystal:   r.Crystal + other.Crystal,
		Deuterium: r.Deuterium + other.Deuterium,
	}
}

// Sub :
// Removes the input amounts from this object. Values
// are clamped so that no resource becomes negative.
//
// The `other` defines the amounts to remove.
//
// Returns the remaining resources.
func (r Resources) Sub(other Resources) Resources {
	return Resources{
		Metal:     math.Max(0, r.Metal-other.Metal),
		Crystal:   math.Max(0, r.Crystal-other.Crystal),
		Deuterium: math.Max(0, r.Deuterium-other.Deuterium),
	}
}

// Fits :
// Determines whether the input amounts can be taken
// from this object without making any resource run
// negative.
//
// The `other` defines the amounts to check.
//
// Returns `true` if the amounts are available.
func (r Resources) Fits(other Resources) bool {
	return other.Metal <= r.Metal && other.Crystal <= r.Crystal && other.Deuterium <= r.Deuterium
}
