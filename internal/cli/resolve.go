package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/domain"
)

// resolveInitiative finds an initiative by exact ID, case-insensitive name
// or ID prefix, in that order.
func resolveInitiative(app *App, input string) (*domain.Initiative, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: initiative is required", domain.ErrValidation)
	}
	initiatives := app.Board.Initiatives

	// 1. Exact ID
	for _, i := range initiatives {
		if i.ID == input {
			return i, nil
		}
	}

	// 2. Name
	var byName []*domain.Initiative
	for _, i := range initiatives {
		if strings.EqualFold(i.Name, input) {
			byName = append(byName, i)
		}
	}
	switch len(byName) {
	case 1:
		return byName[0], nil
	case 0:
	default:
		return nil, fmt.Errorf("%w: %d initiatives are named %q, use the ID", domain.ErrValidation, len(byName), input)
	}

	// 3. ID prefix
	var matches []*domain.Initiative
	for _, i := range initiatives {
		if strings.HasPrefix(i.ID, input) {
			matches = append(matches, i)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: initiative %q", domain.ErrNotFound, input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: initiative ID prefix %q is ambiguous (%d matches)", domain.ErrValidation, input, len(matches))
	}
}

// resolveBlock finds a block by exact ID or ID prefix.
func resolveBlock(app *App, input string) (*domain.ScheduledBlock, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: block ID is required", domain.ErrValidation)
	}
	if blk, ok := app.Board.Block(input); ok {
		return blk, nil
	}

	var matches []*domain.ScheduledBlock
	for _, blk := range app.Board.Blocks {
		if strings.HasPrefix(blk.ID, input) {
			matches = append(matches, blk)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: block %q", domain.ErrNotFound, input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: block ID prefix %q is ambiguous (%d matches)", domain.ErrValidation, input, len(matches))
	}
}
