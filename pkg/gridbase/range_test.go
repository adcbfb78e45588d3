package gridbase

import (
	"errors"
	"testing"
)

func TestParseA1Range(t *testing.T) {
	tests := []struct {
		name     string
		notation string
		expected A1Range
		wantErr  bool
	}{
		{
			name:     "sheet only",
			notation: "Sheet1",
			expected: A1Range{Sheet: "Sheet1"},
		},
		{
			name:     "single cell",
			notation: "Sheet1!A1",
			expected: A1Range{Sheet: "Sheet1", StartCol: "A", StartRow: 1},
		},
		{
			name:     "rectangle",
			notation: "Sheet1!A1:B10",
			expected: A1Range{Sheet: "Sheet1", StartCol: "A", StartRow: 1, EndCol: "B", EndRow: 10},
		},
		{
			name:     "open ended columns",
			notation: "Sheet1!A2:C",
			expected: A1Range{Sheet: "Sheet1", StartCol: "A", StartRow: 2, EndCol: "C"},
		},
		{
			name:     "quoted sheet name",
			notation: "'My Sheet'!A1:B2",
			expected: A1Range{Sheet: "My Sheet", StartCol: "A", StartRow: 1, EndCol: "B", EndRow: 2},
		},
		{
			name:     "multi letter columns",
			notation: "data!AA10:AB20",
			expected: A1Range{Sheet: "data", StartCol: "AA", StartRow: 10, EndCol: "AB", EndRow: 20},
		},
		{
			name:     "lowercase columns normalized",
			notation: "Sheet1!a1:b2",
			expected: A1Range{Sheet: "Sheet1", StartCol: "A", StartRow: 1, EndCol: "B", EndRow: 2},
		},
		{
			name:     "empty start",
			notation: "Sheet1!",
			wantErr:  true,
		},
		{
			name:     "empty end",
			notation: "Sheet1!A1:",
			wantErr:  true,
		},
		{
			name:     "garbage",
			notation: "Sheet1!A1:B2:C3",
			wantErr:  true,
		},
		{
			name:     "empty string",
			notation: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseA1Range(tt.notation)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseA1Range(%q) expected error but got %+v", tt.notation, got)
				}
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Errorf("ParseA1Range(%q) error = %v, want *ParseError", tt.notation, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseA1Range(%q) unexpected error = %v", tt.notation, err)
			}
			if got != tt.expected {
				t.Errorf("ParseA1Range(%q) = %+v, want %+v", tt.notation, got, tt.expected)
			}
		})
	}
}

func TestA1Range_RoundTrip(t *testing.T) {
	ranges := []A1Range{
		{Sheet: "Sheet1"},
		{Sheet: "Sheet1", StartCol: "A", StartRow: 1},
		{Sheet: "Sheet1", StartCol: "A", StartRow: 1, EndCol: "C", EndRow: 1},
		{Sheet: "people", StartCol: "A", StartRow: 2, EndCol: "D"},
		{Sheet: "people", StartCol: "B", StartRow: 7},
		{Sheet: "My Sheet", StartCol: "A", StartRow: 1, EndCol: "B", EndRow: 2},
		{Sheet: "kv_scratch", StartCol: "A", StartRow: 1, EndCol: "A", EndRow: 1},
	}

	for _, r := range ranges {
		t.Run(r.String(), func(t *testing.T) {
			parsed, err := ParseA1Range(r.String())
			if err != nil {
				t.Fatalf("ParseA1Range(%q) unexpected error = %v", r.String(), err)
			}
			if parsed != r {
				t.Errorf("round trip of %+v through %q = %+v", r, r.String(), parsed)
			}
		})
	}
}

func TestColLetter(t *testing.T) {
	tests := []struct {
		index    int
		expected string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{-1, "A"},
	}

	for _, tt := range tests {
		if got := colLetter(tt.index); got != tt.expected {
			t.Errorf("colLetter(%d) = %q, want %q", tt.index, got, tt.expected)
		}
	}
}
