package gridbase

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// The gviz endpoint wraps its JSON payload in a response handler call,
// e.g. gridbase({...});. Only the JSON between the outermost braces matters.
type gvizResponse struct {
	Table gvizTable `json:"table"`
}

type gvizTable struct {
	Cols []gvizColumn `json:"cols"`
	Rows []gvizRow    `json:"rows"`
}

type gvizColumn struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type gvizRow struct {
	Cells []*gvizCell `json:"c"`
}

type gvizCell struct {
	Value     interface{} `json:"v"`
	Formatted string      `json:"f"`
}

func decodeQueryResponse(body string) ([]map[string]interface{}, error) {
	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("malformed query response: %q", body)
	}

	var resp gvizResponse
	if err := json.Unmarshal([]byte(body[start:end+1]), &resp); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}

	rows := make([]map[string]interface{}, 0, len(resp.Table.Rows))
	for _, row := range resp.Table.Rows {
		decoded := make(map[string]interface{}, len(row.Cells))
		for i, cell := range row.Cells {
			if i >= len(resp.Table.Cols) {
				break
			}
			col := resp.Table.Cols[i]
			value, err := decodeCell(cell, col)
			if err != nil {
				return nil, err
			}
			decoded[col.ID] = value
		}
		rows = append(rows, decoded)
	}
	return rows, nil
}

// decodeCell converts one typed cell into a native scalar. Numbers are
// parsed from the formatted display string rather than the raw value, so
// precision follows the sheet's display formatting. Date-like cells come
// back as their formatted strings; callers parse those themselves.
func decodeCell(cell *gvizCell, col gvizColumn) (interface{}, error) {
	if cell == nil || cell.Value == nil {
		return nil, nil
	}

	switch col.Type {
	case "boolean":
		return cell.Value, nil
	case "number":
		if strings.Contains(cell.Formatted, ".") {
			f, err := strconv.ParseFloat(cell.Formatted, 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse number %q: %w", cell.Formatted, err)
			}
			return f, nil
		}
		n, err := strconv.ParseInt(cell.Formatted, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse number %q: %w", cell.Formatted, err)
		}
		return n, nil
	case "string":
		return cell.Value, nil
	case "date", "datetime", "timeofday":
		return cell.Formatted, nil
	}

	return nil, &UnsupportedTypeError{Type: col.Type}
}
