package gridbase

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Ordering is the sort direction for one order-by column.
type Ordering string

const (
	OrderingAsc  Ordering = "ASC"
	OrderingDesc Ordering = "DESC"
)

// ColumnOrder pairs a column with its sort direction.
type ColumnOrder struct {
	Column string
	Order  Ordering
}

// Identifiers that may appear in a filter expression besides column names.
var filterKeywords = map[string]struct{}{
	"and":   {},
	"or":    {},
	"not":   {},
	"is":    {},
	"null":  {},
	"true":  {},
	"false": {},
}

// compileFilter rewrites a restricted filter expression into the sheet
// query language: column names become sheet letters and each ? placeholder
// is replaced by the corresponding argument rendered as a literal. Quoted
// string literals pass through untouched. Unknown identifiers fail with a
// *SchemaError.
func compileFilter(expr string, args []interface{}, letters map[string]string) (string, error) {
	var b strings.Builder
	argIdx := 0
	runes := []rune(expr)

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case r == '\'' || r == '"':
			quote := r
			b.WriteRune(r)
			i++
			for i < len(runes) {
				b.WriteRune(runes[i])
				if runes[i] == quote {
					i++
					break
				}
				i++
			}
		case r == '?':
			if argIdx >= len(args) {
				return "", fmt.Errorf("filter %q has more placeholders than arguments", expr)
			}
			literal, err := renderArgument(args[argIdx])
			if err != nil {
				return "", err
			}
			b.WriteString(literal)
			argIdx++
			i++
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
				j++
			}
			word := string(runes[i:j])
			if _, ok := filterKeywords[strings.ToLower(word)]; ok {
				b.WriteString(word)
			} else if letter, ok := letters[word]; ok {
				b.WriteString(letter)
			} else {
				return "", &SchemaError{Column: word, Reason: "unknown column in filter"}
			}
			i = j
		default:
			b.WriteRune(r)
			i++
		}
	}

	if argIdx != len(args) {
		return "", fmt.Errorf("filter %q has %d placeholders but %d arguments", expr, argIdx, len(args))
	}
	return b.String(), nil
}

// renderArgument renders a bound argument as a query-language literal.
// Strings are single-quoted so the result stays valid both in a query URL
// and inside a double-quoted QUERY formula.
func renderArgument(v interface{}) (string, error) {
	switch t := v.(type) {
	case nil:
		return "null", nil
	case string:
		return "'" + t + "'", nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int32:
		return strconv.FormatInt(int64(t), 10), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("unsupported filter argument type %T", v)
}
