package gridbase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	appendModeInsert    = "INSERT_ROWS"
	appendModeOverwrite = "OVERWRITE"
	majorDimensionRows  = "ROWS"
	valueInputOption    = "USER_ENTERED"
	valueRenderOption   = "FORMATTED_VALUE"

	queryURLFormat       = "https://docs.google.com/spreadsheets/d/%s/gviz/tq"
	queryResponseHandler = "responseHandler:gridbase"
)

// InsertRowsResult describes the outcome of an append, including the exact
// range the service placed the rows in and the post-write values as the
// service rendered them.
type InsertRowsResult struct {
	UpdatedRange   A1Range
	UpdatedRows    int64
	UpdatedColumns int64
	UpdatedCells   int64
	InsertedValues [][]interface{}
}

// UpdateRowsResult describes the outcome of an in-place update. The
// UpdatedValues are the server-rendered contents of the written range, so
// formulas come back evaluated.
type UpdateRowsResult struct {
	UpdatedRange   A1Range
	UpdatedRows    int64
	UpdatedColumns int64
	UpdatedCells   int64
	UpdatedValues  [][]interface{}
}

// BatchUpdateRowsRequest is one range write within a batch update.
type BatchUpdateRowsRequest struct {
	Range  A1Range
	Values [][]interface{}
}

// SheetsClient is the contract this package expects from the spreadsheet
// service. All operations address one spreadsheet fixed at construction
// time. Transport failures surface as errors; nothing is retried here.
type SheetsClient interface {
	CreateSpreadsheet(ctx context.Context, title string) (string, error)
	CreateSheet(ctx context.Context, name string) (int64, error)
	DeleteSheet(ctx context.Context, sheetID int64) error
	GetRows(ctx context.Context, rng A1Range) ([][]interface{}, error)
	InsertRows(ctx context.Context, rng A1Range, values [][]interface{}) (InsertRowsResult, error)
	OverwriteRows(ctx context.Context, rng A1Range, values [][]interface{}) (InsertRowsResult, error)
	UpdateRows(ctx context.Context, rng A1Range, values [][]interface{}) (UpdateRowsResult, error)
	BatchUpdateRows(ctx context.Context, requests []BatchUpdateRowsRequest) ([]UpdateRowsResult, error)
	Clear(ctx context.Context, ranges []A1Range) error
	QueryRows(ctx context.Context, sheetName, query string, hasHeader bool) ([]map[string]interface{}, error)
}

type sheetsClient struct {
	srv           *sheets.Service
	httpClient    *http.Client
	spreadsheetID string
	queryURL      string
}

func newSheetsClient(ctx context.Context, credentials []byte, spreadsheetID string) (*sheetsClient, error) {
	srv, err := sheets.NewService(ctx, option.WithCredentialsJSON(credentials))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	// The gviz query endpoint is not part of the sheets API surface, so it
	// needs its own authorized HTTP client.
	creds, err := google.CredentialsFromJSON(ctx, credentials, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	return &sheetsClient{
		srv:           srv,
		httpClient:    oauth2.NewClient(ctx, creds.TokenSource),
		spreadsheetID: spreadsheetID,
		queryURL:      fmt.Sprintf(queryURLFormat, spreadsheetID),
	}, nil
}

func (c *sheetsClient) CreateSpreadsheet(ctx context.Context, title string) (string, error) {
	resp, err := c.srv.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create spreadsheet %q: %w", title, err)
	}
	return resp.SpreadsheetId, nil
}

func (c *sheetsClient) CreateSheet(ctx context.Context, name string) (int64, error) {
	resp, err := c.srv.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: name},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to create sheet %q: %w", name, err)
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil {
		return 0, fmt.Errorf("unexpected response creating sheet %q", name)
	}
	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

func (c *sheetsClient) DeleteSheet(ctx context.Context, sheetID int64) error {
	_, err := c.srv.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteSheet: &sheets.DeleteSheetRequest{SheetId: sheetID},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to delete sheet %d: %w", sheetID, err)
	}
	return nil
}

func (c *sheetsClient) GetRows(ctx context.Context, rng A1Range) ([][]interface{}, error) {
	resp, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, rng.String()).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", rng, err)
	}
	return resp.Values, nil
}

func (c *sheetsClient) InsertRows(ctx context.Context, rng A1Range, values [][]interface{}) (InsertRowsResult, error) {
	return c.appendRows(ctx, rng, values, appendModeInsert)
}

func (c *sheetsClient) OverwriteRows(ctx context.Context, rng A1Range, values [][]interface{}) (InsertRowsResult, error) {
	return c.appendRows(ctx, rng, values, appendModeOverwrite)
}

func (c *sheetsClient) appendRows(ctx context.Context, rng A1Range, values [][]interface{}, mode string) (InsertRowsResult, error) {
	resp, err := c.srv.Spreadsheets.Values.Append(c.spreadsheetID, rng.String(), &sheets.ValueRange{Values: values}).
		InsertDataOption(mode).
		IncludeValuesInResponse(true).
		ResponseValueRenderOption(valueRenderOption).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return InsertRowsResult{}, fmt.Errorf("failed to append to range %s: %w", rng, err)
	}
	if resp.Updates == nil || resp.Updates.UpdatedData == nil {
		return InsertRowsResult{}, fmt.Errorf("unexpected append response for range %s", rng)
	}

	updatedRange, err := ParseA1Range(resp.Updates.UpdatedData.Range)
	if err != nil {
		return InsertRowsResult{}, err
	}
	return InsertRowsResult{
		UpdatedRange:   updatedRange,
		UpdatedRows:    resp.Updates.UpdatedRows,
		UpdatedColumns: resp.Updates.UpdatedColumns,
		UpdatedCells:   resp.Updates.UpdatedCells,
		InsertedValues: resp.Updates.UpdatedData.Values,
	}, nil
}

func (c *sheetsClient) UpdateRows(ctx context.Context, rng A1Range, values [][]interface{}) (UpdateRowsResult, error) {
	resp, err := c.srv.Spreadsheets.Values.Update(c.spreadsheetID, rng.String(), &sheets.ValueRange{
		MajorDimension: majorDimensionRows,
		Range:          rng.String(),
		Values:         values,
	}).
		IncludeValuesInResponse(true).
		ResponseValueRenderOption(valueRenderOption).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	if err != nil {
		return UpdateRowsResult{}, fmt.Errorf("failed to update range %s: %w", rng, err)
	}
	return convertUpdateResponse(resp)
}

func (c *sheetsClient) BatchUpdateRows(ctx context.Context, requests []BatchUpdateRowsRequest) ([]UpdateRowsResult, error) {
	data := make([]*sheets.ValueRange, 0, len(requests))
	for _, req := range requests {
		data = append(data, &sheets.ValueRange{
			MajorDimension: majorDimensionRows,
			Range:          req.Range.String(),
			Values:         req.Values,
		})
	}

	resp, err := c.srv.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateValuesRequest{
		IncludeValuesInResponse:   true,
		ResponseValueRenderOption: valueRenderOption,
		ValueInputOption:          valueInputOption,
		Data:                      data,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to batch update %d ranges: %w", len(requests), err)
	}

	results := make([]UpdateRowsResult, 0, len(resp.Responses))
	for _, r := range resp.Responses {
		result, err := convertUpdateResponse(r)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func convertUpdateResponse(resp *sheets.UpdateValuesResponse) (UpdateRowsResult, error) {
	updatedRange, err := ParseA1Range(resp.UpdatedRange)
	if err != nil {
		return UpdateRowsResult{}, err
	}

	var values [][]interface{}
	if resp.UpdatedData != nil {
		values = resp.UpdatedData.Values
	}
	return UpdateRowsResult{
		UpdatedRange:   updatedRange,
		UpdatedRows:    resp.UpdatedRows,
		UpdatedColumns: resp.UpdatedColumns,
		UpdatedCells:   resp.UpdatedCells,
		UpdatedValues:  values,
	}, nil
}

func (c *sheetsClient) Clear(ctx context.Context, ranges []A1Range) error {
	notations := make([]string, 0, len(ranges))
	for _, r := range ranges {
		notations = append(notations, r.String())
	}

	_, err := c.srv.Spreadsheets.Values.BatchClear(c.spreadsheetID, &sheets.BatchClearValuesRequest{
		Ranges: notations,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear ranges %v: %w", notations, err)
	}
	return nil
}

// QueryRows runs a query-language string against the sheet through the gviz
// endpoint and decodes the typed-cell response. Each returned row maps the
// response column IDs (sheet letters) to decoded scalar values.
func (c *sheetsClient) QueryRows(ctx context.Context, sheetName, query string, hasHeader bool) ([]map[string]interface{}, error) {
	params := url.Values{}
	params.Set("sheet", sheetName)
	params.Set("tqx", queryResponseHandler)
	params.Set("tq", query)
	if hasHeader {
		params.Set("headers", "1")
	} else {
		params.Set("headers", "0")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.queryURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build query request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query sheet %q: %w", sheetName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read query response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query against sheet %q failed with status %d", sheetName, resp.StatusCode)
	}

	return decodeQueryResponse(string(body))
}
