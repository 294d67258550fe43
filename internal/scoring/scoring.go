// Package scoring simulates the execution of a skating program: per element
// success draw, grade of execution and clamped element score.
package scoring

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"skatebook/internal/constants"
)

// Source yields uniform values in [0, 1).
type Source interface {
	Float64() float64
}

// LockedSource is a Source safe for concurrent use.
type LockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource returns a PCG-backed source. A zero seed is replaced by the clock.
func NewSource(seed uint64) *LockedSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &LockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *LockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// ElementInput is one program slot as the simulator sees it.
type ElementInput struct {
	ElementID   string
	Position    int
	BaseValue   float64
	SuccessRate float64
}

type ElementOutcome struct {
	ElementID string
	Position  int
	Success   bool
	GOE       float64
	Score     float64
}

type Outcome struct {
	Elements []ElementOutcome
	Total    float64
}

// Round2 rounds half away from zero to two decimals.
func Round2(x float64) float64 {
	r := math.Round(x*100) / 100
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

// ElementScore is base + goe*0.1*base, never below zero.
func ElementScore(base, goe float64) float64 {
	return math.Max(0, base+goe*constants.GOEFactor*base)
}

func uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// DrawGOE decides success against successRate and then draws the grade of
// execution from the matching range. The ranges overlap below zero: a
// successful element can still be graded negatively.
func DrawGOE(src Source, successRate float64) (bool, float64) {
	success := src.Float64() < successRate
	var goe float64
	if success {
		goe = uniform(src, constants.SuccessGOEMin, constants.SuccessGOEMax)
	} else {
		goe = uniform(src, constants.FailureGOEMin, constants.FailureGOEMax)
	}
	return success, Round2(goe)
}

// Execute runs every element in the given order. Element scores are rounded
// to two decimals before they are summed so the stored total can be recomputed
// from the stored element scores.
func Execute(src Source, elements []ElementInput) Outcome {
	out := Outcome{Elements: make([]ElementOutcome, 0, len(elements))}
	var total float64
	for _, e := range elements {
		success, goe := DrawGOE(src, e.SuccessRate)
		score := Round2(ElementScore(e.BaseValue, goe))
		total += score
		out.Elements = append(out.Elements, ElementOutcome{
			ElementID: e.ElementID,
			Position:  e.Position,
			Success:   success,
			GOE:       goe,
			Score:     score,
		})
	}
	out.Total = Round2(total)
	return out
}

// Total recomputes a program total from already rounded element scores.
func Total(scores []float64) float64 {
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return Round2(sum)
}
