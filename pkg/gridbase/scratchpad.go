package gridbase

import (
	"context"
	"fmt"
)

const (
	scratchpadBookedValue = "BOOKED"
	scratchSheetSuffix    = "_scratch"
)

// Scratchpad owns a single booked cell used to evaluate ad-hoc formulas by
// writing them and reading back the evaluated result. Each instance owns
// exactly one cell; callers needing concurrent evaluation book independent
// scratchpads.
type Scratchpad struct {
	client SheetsClient
	cell   A1Range
	closed bool
}

// newScratchpad books the next free cell in the given sheet by appending a
// sentinel value and recording the range the service placed it in.
func newScratchpad(ctx context.Context, client SheetsClient, sheet string) (*Scratchpad, error) {
	result, err := client.OverwriteRows(ctx, A1Range{Sheet: sheet}, [][]interface{}{{scratchpadBookedValue}})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}
	return &Scratchpad{client: client, cell: result.UpdatedRange}, nil
}

// Cell returns the booked range.
func (s *Scratchpad) Cell() A1Range {
	return s.cell
}

// Execute writes the formula into the booked cell and returns the single
// evaluated value as rendered by the service.
func (s *Scratchpad) Execute(ctx context.Context, formula string) (interface{}, error) {
	if s.closed {
		return nil, fmt.Errorf("scratchpad: %w", ErrClosed)
	}

	result, err := s.client.UpdateRows(ctx, s.cell, [][]interface{}{{formula}})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate formula: %w", err)
	}
	if len(result.UpdatedValues) == 0 || len(result.UpdatedValues[0]) == 0 {
		return nil, nil
	}
	return result.UpdatedValues[0][0], nil
}

// Close clears the booked cell and releases the scratchpad. Closing twice
// is a no-op; Execute after Close fails with ErrClosed.
func (s *Scratchpad) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	if err := s.client.Clear(ctx, []A1Range{s.cell}); err != nil {
		return fmt.Errorf("failed to release scratchpad cell: %w", err)
	}
	s.closed = true
	return nil
}
