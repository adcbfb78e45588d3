package gridbase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	// Column A of every backing sheet holds the row index, written as a
	// ROW() formula on insert. Compiled queries filter on it being present,
	// which both anchors the query to real data rows and keeps cleared
	// (deleted) rows out of every result.
	ridColumn  = "_rid"
	ridLetter  = "A"
	ridFormula = "=ROW()"

	headerRow    = 1
	firstDataRow = 2
)

// RowStore is a table bound to one sheet with a fixed, ordered column
// schema. It hands out select/insert/update/delete builders that only
// touch the spreadsheet when executed.
type RowStore struct {
	client  SheetsClient
	sheet   string
	columns []string
	letters map[string]string
	scratch *Scratchpad
}

// RowStore binds a table to the named sheet with the given ordered columns.
// The sheet and its scratch sheet are created if absent, the header row is
// written if missing, and an existing header that does not match the
// declared columns fails with a *SchemaError.
func (db *DB) RowStore(ctx context.Context, sheet string, columns ...string) (*RowStore, error) {
	if sheet == "" {
		return nil, fmt.Errorf("sheet name is required")
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("at least one column is required")
	}

	seen := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		if col == ridColumn {
			return nil, &SchemaError{Column: col, Reason: "column name is reserved"}
		}
		if _, ok := seen[col]; ok {
			return nil, &SchemaError{Column: col, Reason: "duplicate column"}
		}
		seen[col] = struct{}{}
	}

	s := &RowStore{
		client:  db.client,
		sheet:   sheet,
		columns: columns,
		letters: columnLetters(columns),
	}

	// Creation is best-effort: an existing sheet fails the request and the
	// header check below decides whether the sheet is usable.
	_, _ = db.client.CreateSheet(ctx, sheet)
	_, _ = db.client.CreateSheet(ctx, sheet+scratchSheetSuffix)

	if err := s.ensureHeader(ctx); err != nil {
		return nil, err
	}

	scratch, err := newScratchpad(ctx, db.client, sheet+scratchSheetSuffix)
	if err != nil {
		return nil, err
	}
	s.scratch = scratch
	return s, nil
}

// columnLetters maps declared column names to their sheet letters. User
// columns start at B; A is the row-index column.
func columnLetters(columns []string) map[string]string {
	letters := make(map[string]string, len(columns))
	for i, col := range columns {
		letters[col] = colLetter(i + 1)
	}
	return letters
}

func (s *RowStore) headerRange() A1Range {
	return A1Range{
		Sheet:    s.sheet,
		StartCol: ridLetter,
		StartRow: headerRow,
		EndCol:   colLetter(len(s.columns)),
		EndRow:   headerRow,
	}
}

func (s *RowStore) dataRange() A1Range {
	return A1Range{
		Sheet:    s.sheet,
		StartCol: ridLetter,
		StartRow: firstDataRow,
		EndCol:   colLetter(len(s.columns)),
	}
}

func (s *RowStore) ensureHeader(ctx context.Context) error {
	expected := make([]interface{}, 0, len(s.columns)+1)
	expected = append(expected, ridColumn)
	for _, col := range s.columns {
		expected = append(expected, col)
	}

	rows, err := s.client.GetRows(ctx, s.headerRange())
	if err != nil {
		return fmt.Errorf("failed to read header of sheet %q: %w", s.sheet, err)
	}

	if len(rows) == 0 {
		if _, err := s.client.UpdateRows(ctx, s.headerRange(), [][]interface{}{expected}); err != nil {
			return fmt.Errorf("failed to write header of sheet %q: %w", s.sheet, err)
		}
		return nil
	}

	header := rows[0]
	if len(header) != len(expected) {
		return &SchemaError{Reason: fmt.Sprintf("sheet %q header has %d columns, schema declares %d", s.sheet, len(header), len(expected))}
	}
	for i, want := range expected {
		if fmt.Sprintf("%v", header[i]) != want.(string) {
			return &SchemaError{Column: want.(string), Reason: fmt.Sprintf("sheet %q header has %q at position %d", s.sheet, header[i], i)}
		}
	}
	return nil
}

// Close releases the scratchpad booked for this store.
func (s *RowStore) Close(ctx context.Context) error {
	return s.scratch.Close(ctx)
}

// compileWhere builds the full where clause for this store: the row-index
// guard, plus the caller's filter when one is set.
func (s *RowStore) compileWhere(expr string, args []interface{}) (string, error) {
	guard := ridLetter + " is not null"
	if expr == "" {
		if len(args) > 0 {
			return "", fmt.Errorf("filter arguments given without a filter expression")
		}
		return guard, nil
	}

	cond, err := compileFilter(expr, args, s.letters)
	if err != nil {
		return "", err
	}
	return guard + " AND (" + cond + ")", nil
}

// Matching data rows are resolved through the scratchpad: a QUERY formula
// over the data range selects the row-index column, and the joined result
// is read back from the booked cell. IFERROR maps "no matches" (a QUERY
// error) to an empty string.
const rowIndicesFormula = `=IFERROR(JOIN(",", ARRAYFORMULA(QUERY(%s, "%s", 0))), "")`

func (s *RowStore) matchingRows(ctx context.Context, expr string, args []interface{}) ([]int, error) {
	where, err := s.compileWhere(expr, args)
	if err != nil {
		return nil, err
	}

	formula := fmt.Sprintf(rowIndicesFormula, s.dataRange(), "select "+ridLetter+" where "+where)
	result, err := s.scratch.Execute(ctx, formula)
	if err != nil {
		return nil, err
	}

	joined, _ := result.(string)
	if joined == "" {
		return nil, nil
	}

	parts := strings.Split(joined, ",")
	indices := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("unexpected row index %q in query result", part)
		}
		indices = append(indices, n)
	}
	return indices, nil
}

// SelectStmt is an unexecuted select. It is built by chained configuration
// and performs I/O only in Exec; re-executing reflects the sheet's state at
// that time.
type SelectStmt struct {
	store   *RowStore
	columns []string
	where   string
	args    []interface{}
	orders  []ColumnOrder
}

// Select builds a select over the given columns; with no columns it selects
// every declared column.
func (s *RowStore) Select(columns ...string) *SelectStmt {
	return &SelectStmt{store: s, columns: columns}
}

// Where sets the filter expression. The expression supports comparisons
// (=, !=, <, <=, >, >=), AND/OR, and ? placeholders bound to args in order.
func (q *SelectStmt) Where(expr string, args ...interface{}) *SelectStmt {
	q.where = expr
	q.args = args
	return q
}

// OrderBy sets the result ordering; ties on earlier columns are broken by
// later ones, each with its own direction.
func (q *SelectStmt) OrderBy(orders ...ColumnOrder) *SelectStmt {
	q.orders = orders
	return q
}

// Exec runs the select and returns one name→value map per row, in the
// order the query evaluation yields them. Null cells map to nil values.
func (q *SelectStmt) Exec(ctx context.Context) ([]map[string]interface{}, error) {
	columns := q.columns
	if len(columns) == 0 {
		columns = q.store.columns
	}

	letters := make([]string, len(columns))
	for i, col := range columns {
		letter, ok := q.store.letters[col]
		if !ok {
			return nil, &SchemaError{Column: col, Reason: "unknown column in select"}
		}
		letters[i] = letter
	}

	where, err := q.store.compileWhere(q.where, q.args)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("select ")
	b.WriteString(strings.Join(letters, ", "))
	b.WriteString(" where ")
	b.WriteString(where)

	if len(q.orders) > 0 {
		parts := make([]string, 0, len(q.orders))
		for _, o := range q.orders {
			letter, ok := q.store.letters[o.Column]
			if !ok {
				return nil, &SchemaError{Column: o.Column, Reason: "unknown column in order by"}
			}
			dir := o.Order
			if dir == "" {
				dir = OrderingAsc
			}
			if dir != OrderingAsc && dir != OrderingDesc {
				return nil, fmt.Errorf("invalid ordering %q for column %q", dir, o.Column)
			}
			parts = append(parts, letter+" "+strings.ToLower(string(dir)))
		}
		b.WriteString(" order by ")
		b.WriteString(strings.Join(parts, ", "))
	}

	raw, err := q.store.client.QueryRows(ctx, q.store.sheet, b.String(), true)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]interface{}, 0, len(raw))
	for _, r := range raw {
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = r[letters[i]]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// InsertStmt is an unexecuted insert of one or more rows.
type InsertStmt struct {
	store *RowStore
	rows  []map[string]interface{}
}

// Insert builds an insert for the given rows. Each row maps column names to
// values; every key must be a declared column.
func (s *RowStore) Insert(rows ...map[string]interface{}) *InsertStmt {
	return &InsertStmt{store: s, rows: rows}
}

// Exec appends the rows after the existing data; existing rows are never
// disturbed.
func (q *InsertStmt) Exec(ctx context.Context) error {
	if len(q.rows) == 0 {
		return nil
	}

	values := make([][]interface{}, 0, len(q.rows))
	for _, row := range q.rows {
		for col := range row {
			if _, ok := q.store.letters[col]; !ok {
				return &SchemaError{Column: col, Reason: "unknown column in row"}
			}
		}

		record := make([]interface{}, 0, len(q.store.columns)+1)
		record = append(record, ridFormula)
		for _, col := range q.store.columns {
			v, ok := row[col]
			if !ok || v == nil {
				v = ""
			}
			record = append(record, v)
		}
		values = append(values, record)
	}

	if _, err := q.store.client.InsertRows(ctx, A1Range{Sheet: q.store.sheet}, values); err != nil {
		return fmt.Errorf("failed to insert rows: %w", err)
	}
	return nil
}

// UpdateStmt is an unexecuted partial update of matching rows.
type UpdateStmt struct {
	store  *RowStore
	values map[string]interface{}
	where  string
	args   []interface{}
}

// Update builds an update applying the given column→value assignments to
// every matching row. Columns not present in values are left untouched.
func (s *RowStore) Update(values map[string]interface{}) *UpdateStmt {
	return &UpdateStmt{store: s, values: values}
}

// Where restricts the update to rows matching the filter expression.
func (q *UpdateStmt) Where(expr string, args ...interface{}) *UpdateStmt {
	q.where = expr
	q.args = args
	return q
}

// Exec resolves the matching rows, writes every assignment as one batched
// service call, and returns the number of rows changed. Resolution and
// write are separate remote steps with no isolation between them.
func (q *UpdateStmt) Exec(ctx context.Context) (int, error) {
	if len(q.values) == 0 {
		return 0, fmt.Errorf("no values to update")
	}

	columns := make([]string, 0, len(q.values))
	for col := range q.values {
		if _, ok := q.store.letters[col]; !ok {
			return 0, &SchemaError{Column: col, Reason: "unknown column in update"}
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)

	indices, err := q.store.matchingRows(ctx, q.where, q.args)
	if err != nil {
		return 0, err
	}
	if len(indices) == 0 {
		return 0, nil
	}

	requests := make([]BatchUpdateRowsRequest, 0, len(indices)*len(columns))
	for _, idx := range indices {
		for _, col := range columns {
			requests = append(requests, BatchUpdateRowsRequest{
				Range:  A1Range{Sheet: q.store.sheet, StartCol: q.store.letters[col], StartRow: idx},
				Values: [][]interface{}{{q.values[col]}},
			})
		}
	}

	if _, err := q.store.client.BatchUpdateRows(ctx, requests); err != nil {
		return 0, fmt.Errorf("failed to update rows: %w", err)
	}
	return len(indices), nil
}

// DeleteStmt is an unexecuted delete of matching rows.
type DeleteStmt struct {
	store *RowStore
	where string
	args  []interface{}
}

// Delete builds a delete; without a filter it removes every row.
func (s *RowStore) Delete() *DeleteStmt {
	return &DeleteStmt{store: s}
}

// Where restricts the delete to rows matching the filter expression.
func (q *DeleteStmt) Where(expr string, args ...interface{}) *DeleteStmt {
	q.where = expr
	q.args = args
	return q
}

// Exec clears every matching row and returns the count removed. Clearing
// blanks the row-index cell, so removed rows drop out of all later queries.
func (q *DeleteStmt) Exec(ctx context.Context) (int, error) {
	indices, err := q.store.matchingRows(ctx, q.where, q.args)
	if err != nil {
		return 0, err
	}
	if len(indices) == 0 {
		return 0, nil
	}

	ranges := make([]A1Range, 0, len(indices))
	for _, idx := range indices {
		ranges = append(ranges, A1Range{
			Sheet:    q.store.sheet,
			StartCol: ridLetter,
			StartRow: idx,
			EndCol:   colLetter(len(q.store.columns)),
			EndRow:   idx,
		})
	}

	if err := q.store.client.Clear(ctx, ranges); err != nil {
		return 0, fmt.Errorf("failed to delete rows: %w", err)
	}
	return len(indices), nil
}
