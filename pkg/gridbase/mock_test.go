package gridbase

import (
	"context"
	"fmt"
)

type ValuesCall struct {
	Range  A1Range
	Values [][]interface{}
}

type QueryCall struct {
	Sheet     string
	Query     string
	HasHeader bool
}

type MockSheetsClient struct {
	CreateSpreadsheetFunc func(ctx context.Context, title string) (string, error)
	CreateSheetFunc       func(ctx context.Context, name string) (int64, error)
	DeleteSheetFunc       func(ctx context.Context, sheetID int64) error
	GetRowsFunc           func(ctx context.Context, rng A1Range) ([][]interface{}, error)
	InsertRowsFunc        func(ctx context.Context, rng A1Range, values [][]interface{}) (InsertRowsResult, error)
	OverwriteRowsFunc     func(ctx context.Context, rng A1Range, values [][]interface{}) (InsertRowsResult, error)
	UpdateRowsFunc        func(ctx context.Context, rng A1Range, values [][]interface{}) (UpdateRowsResult, error)
	BatchUpdateRowsFunc   func(ctx context.Context, requests []BatchUpdateRowsRequest) ([]UpdateRowsResult, error)
	ClearFunc             func(ctx context.Context, ranges []A1Range) error
	QueryRowsFunc         func(ctx context.Context, sheetName, query string, hasHeader bool) ([]map[string]interface{}, error)

	CreateSpreadsheetCalls []string
	CreateSheetCalls       []string
	DeleteSheetCalls       []int64
	GetRowsCalls           []A1Range
	InsertRowsCalls        []ValuesCall
	OverwriteRowsCalls     []ValuesCall
	UpdateRowsCalls        []ValuesCall
	BatchUpdateRowsCalls   [][]BatchUpdateRowsRequest
	ClearCalls             [][]A1Range
	QueryRowsCalls         []QueryCall
}

func (m *MockSheetsClient) CreateSpreadsheet(ctx context.Context, title string) (string, error) {
	m.CreateSpreadsheetCalls = append(m.CreateSpreadsheetCalls, title)
	if m.CreateSpreadsheetFunc != nil {
		return m.CreateSpreadsheetFunc(ctx, title)
	}
	return "", fmt.Errorf("CreateSpreadsheet not implemented")
}

func (m *MockSheetsClient) CreateSheet(ctx context.Context, name string) (int64, error) {
	m.CreateSheetCalls = append(m.CreateSheetCalls, name)
	if m.CreateSheetFunc != nil {
		return m.CreateSheetFunc(ctx, name)
	}
	return 0, nil
}

func (m *MockSheetsClient) DeleteSheet(ctx context.Context, sheetID int64) error {
	m.DeleteSheetCalls = append(m.DeleteSheetCalls, sheetID)
	if m.DeleteSheetFunc != nil {
		return m.DeleteSheetFunc(ctx, sheetID)
	}
	return nil
}

func (m *MockSheetsClient) GetRows(ctx context.Context, rng A1Range) ([][]interface{}, error) {
	m.GetRowsCalls = append(m.GetRowsCalls, rng)
	if m.GetRowsFunc != nil {
		return m.GetRowsFunc(ctx, rng)
	}
	return nil, fmt.Errorf("GetRows not implemented")
}

func (m *MockSheetsClient) InsertRows(ctx context.Context, rng A1Range, values [][]interface{}) (InsertRowsResult, error) {
	m.InsertRowsCalls = append(m.InsertRowsCalls, ValuesCall{Range: rng, Values: values})
	if m.InsertRowsFunc != nil {
		return m.InsertRowsFunc(ctx, rng, values)
	}
	return InsertRowsResult{}, fmt.Errorf("InsertRows not implemented")
}

func (m *MockSheetsClient) OverwriteRows(ctx context.Context, rng A1Range, values [][]interface{}) (InsertRowsResult, error) {
	m.OverwriteRowsCalls = append(m.OverwriteRowsCalls, ValuesCall{Range: rng, Values: values})
	if m.OverwriteRowsFunc != nil {
		return m.OverwriteRowsFunc(ctx, rng, values)
	}
	return InsertRowsResult{}, fmt.Errorf("OverwriteRows not implemented")
}

func (m *MockSheetsClient) UpdateRows(ctx context.Context, rng A1Range, values [][]interface{}) (UpdateRowsResult, error) {
	m.UpdateRowsCalls = append(m.UpdateRowsCalls, ValuesCall{Range: rng, Values: values})
	if m.UpdateRowsFunc != nil {
		return m.UpdateRowsFunc(ctx, rng, values)
	}
	return UpdateRowsResult{}, fmt.Errorf("UpdateRows not implemented")
}

func (m *MockSheetsClient) BatchUpdateRows(ctx context.Context, requests []BatchUpdateRowsRequest) ([]UpdateRowsResult, error) {
	m.BatchUpdateRowsCalls = append(m.BatchUpdateRowsCalls, requests)
	if m.BatchUpdateRowsFunc != nil {
		return m.BatchUpdateRowsFunc(ctx, requests)
	}
	return nil, fmt.Errorf("BatchUpdateRows not implemented")
}

func (m *MockSheetsClient) Clear(ctx context.Context, ranges []A1Range) error {
	m.ClearCalls = append(m.ClearCalls, ranges)
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx, ranges)
	}
	return nil
}

func (m *MockSheetsClient) QueryRows(ctx context.Context, sheetName, query string, hasHeader bool) ([]map[string]interface{}, error) {
	m.QueryRowsCalls = append(m.QueryRowsCalls, QueryCall{Sheet: sheetName, Query: query, HasHeader: hasHeader})
	if m.QueryRowsFunc != nil {
		return m.QueryRowsFunc(ctx, sheetName, query, hasHeader)
	}
	return nil, fmt.Errorf("QueryRows not implemented")
}

// newTestStore builds a RowStore over the mock without running the sheet
// and header bootstrap, with columns name, age, dob.
func newTestStore(client SheetsClient) *RowStore {
	columns := []string{"name", "age", "dob"}
	return &RowStore{
		client:  client,
		sheet:   "people",
		columns: columns,
		letters: columnLetters(columns),
		scratch: &Scratchpad{
			client: client,
			cell:   A1Range{Sheet: "people_scratch", StartCol: "A", StartRow: 1},
		},
	}
}
