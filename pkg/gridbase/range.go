package gridbase

import (
	"regexp"
	"strconv"
	"strings"
)

// A1Range references a rectangular region of a sheet in A1 notation.
// A range with neither bound refers to the whole sheet; a range with only
// a start bound is a single cell; an end bound without a row ("Sheet!A2:C")
// extends to the sheet's last row. The zero value of a column is "" and of
// a row is 0, both meaning "unset". A1Range is a comparable value type.
type A1Range struct {
	Sheet    string
	StartCol string
	StartRow int
	EndCol   string
	EndRow   int
}

var a1Pattern = regexp.MustCompile(`^(?:'([^!]+)'|([^!':]+))(?:!([A-Za-z]*)([0-9]*)(?::([A-Za-z]*)([0-9]*))?)?$`)

// ParseA1Range parses A1 notation such as "Sheet1", "Sheet1!A1" or
// "'My Sheet'!A2:C10". It returns a *ParseError when the text does not
// match the notation.
func ParseA1Range(notation string) (A1Range, error) {
	m := a1Pattern.FindStringSubmatch(notation)
	if m == nil {
		return A1Range{}, &ParseError{Notation: notation}
	}

	r := A1Range{Sheet: m[1]}
	if r.Sheet == "" {
		r.Sheet = m[2]
	}
	r.StartCol = strings.ToUpper(m[3])
	r.EndCol = strings.ToUpper(m[5])

	var err error
	if r.StartRow, err = parseRow(m[4]); err != nil {
		return A1Range{}, &ParseError{Notation: notation}
	}
	if r.EndRow, err = parseRow(m[6]); err != nil {
		return A1Range{}, &ParseError{Notation: notation}
	}

	if strings.Contains(notation, "!") && r.StartCol == "" && r.StartRow == 0 {
		return A1Range{}, &ParseError{Notation: notation}
	}
	if strings.Contains(notation, ":") && r.EndCol == "" && r.EndRow == 0 {
		return A1Range{}, &ParseError{Notation: notation}
	}

	return r, nil
}

func parseRow(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// String formats the range back to A1 notation. Parsing the result yields
// an equal range.
func (r A1Range) String() string {
	sheet := r.Sheet
	if strings.ContainsAny(sheet, " !:") {
		sheet = "'" + sheet + "'"
	}

	if r.StartCol == "" && r.StartRow == 0 {
		return sheet
	}

	var b strings.Builder
	b.WriteString(sheet)
	b.WriteString("!")
	b.WriteString(r.StartCol)
	if r.StartRow > 0 {
		b.WriteString(strconv.Itoa(r.StartRow))
	}
	if r.EndCol != "" || r.EndRow > 0 {
		b.WriteString(":")
		b.WriteString(r.EndCol)
		if r.EndRow > 0 {
			b.WriteString(strconv.Itoa(r.EndRow))
		}
	}
	return b.String()
}

// colLetter converts a zero-based column index to its letter form (0 -> A,
// 25 -> Z, 26 -> AA).
func colLetter(index int) string {
	if index < 0 {
		return "A"
	}
	result := ""
	for index >= 0 {
		result = string(rune('A'+index%26)) + result
		index = index/26 - 1
	}
	return result
}
