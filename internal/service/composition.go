package service

import (
	"fmt"

	"skatebook/internal/constants"
	"skatebook/internal/domain"
)

var requiredElements = []struct {
	Type  domain.ElementType
	Count int
}{
	{domain.ElementJump, constants.ProgramJumps},
	{domain.ElementSpin, constants.ProgramSpins},
	{domain.ElementStep, constants.ProgramSteps},
	{domain.ElementChoreo, constants.ProgramChoreos},
}

// ValidateComposition checks that elementIDs name exactly twelve distinct
// known elements: 7 jumps, 3 spins, 1 step sequence and 1 choreographic
// sequence. known holds the catalogue entries of the requested ids.
func ValidateComposition(elementIDs []string, known map[string]domain.Element) error {
	problems := domain.NewValidationError()

	if len(elementIDs) != constants.ProgramElementCount {
		problems.Add(fmt.Sprintf("program must have exactly %d elements, got %d", constants.ProgramElementCount, len(elementIDs)))
	}

	seen := make(map[string]bool, len(elementIDs))
	counts := make(map[domain.ElementType]int)
	for _, id := range elementIDs {
		if seen[id] {
			problems.Add(fmt.Sprintf("element %s is repeated", id))
			continue
		}
		seen[id] = true

		element, ok := known[id]
		if !ok {
			problems.Add(fmt.Sprintf("unknown element %s", id))
			continue
		}
		counts[element.Type]++
	}

	for _, req := range requiredElements {
		if counts[req.Type] != req.Count {
			problems.Add(fmt.Sprintf("program must have %d %s elements, got %d", req.Count, req.Type, counts[req.Type]))
		}
	}

	return problems.OrNil()
}
