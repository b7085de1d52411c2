package sheetssync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"google.golang.org/api/sheets/v4"

	"orianna-agent/internal/common/auth"
	apperrors "orianna-agent/internal/common/errors"
	"orianna-agent/internal/tools/toolkit"
)

type TestLogger struct {
	t *testing.T
}

func (l *TestLogger) Info(msg string, fields map[string]interface{}) {
	l.t.Logf("INFO: %s %v", msg, fields)
}

func (l *TestLogger) Warn(msg string, fields map[string]interface{}) {
	l.t.Logf("WARN: %s %v", msg, fields)
}

func (l *TestLogger) Error(msg string, fields map[string]interface{}) {
	l.t.Logf("ERROR: %s %v", msg, fields)
}

func (l *TestLogger) With(fields map[string]interface{}) toolkit.Logger {
	return l
}

type mockValuesAPI struct {
	mock.Mock
}

func (m *mockValuesAPI) Get(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error) {
	args := m.Called(ctx, spreadsheetID, rng)
	v, _ := args.Get(0).([][]interface{})
	return v, args.Error(1)
}

func (m *mockValuesAPI) Append(ctx context.Context, spreadsheetID, rng string, rows [][]interface{}) (*sheets.AppendValuesResponse, error) {
	args := m.Called(ctx, spreadsheetID, rng, rows)
	r, _ := args.Get(0).(*sheets.AppendValuesResponse)
	return r, args.Error(1)
}

func newTestHandler(t *testing.T, api ValuesAPI) *Handler {
	return NewHandler(&Config{SpreadsheetID: "sheet-1"}, func(context.Context) (ValuesAPI, error) {
		return api, nil
	}, &TestLogger{t})
}

func writeCSV(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

var onlineRows = [][]interface{}{
	{"Task", "Completed Date"},
	{"Old A", "2025-03-01 10:00:00"},
	{"Old B", "2025-03-05 09:30:00"},
	{"Broken", "n/a"},
}

func TestSync_AppendsOnlyNewerRows(t *testing.T) {
	path := writeCSV(t, "Task,Completed Date\n"+
		"Old B,2025-03-05 09:30:00\n"+
		"New C,2025-03-06 08:00:00\n"+
		"New D,2025-03-07\n"+
		"Undated,\n")

	api := &mockValuesAPI{}
	api.On("Get", mock.Anything, "sheet-1", "Sheet1!A:Z").Return(onlineRows, nil).Once()
	api.On("Append", mock.Anything, "sheet-1", "Sheet1!A1", [][]interface{}{
		{"New C", "2025-03-06 08:00:00"},
		{"New D", "2025-03-07 00:00:00"},
	}).Return(&sheets.AppendValuesResponse{SpreadsheetId: "sheet-1"}, nil).Once()

	d := newTestHandler(t, api).Sync(context.Background(), path)

	assert.Equal(t, ToolName, d.Tool)
	assert.Equal(t, ActionUpdateSpreadsheet, d.Action)
	assert.Equal(t, "Appended 2 new rows.", d.Message)
	api.AssertExpectations(t)
}

func TestSync_NothingNew(t *testing.T) {
	path := writeCSV(t, "Task,Completed Date\nOld A,2025-03-01 10:00:00\n")

	api := &mockValuesAPI{}
	api.On("Get", mock.Anything, "sheet-1", "Sheet1!A:Z").Return(onlineRows, nil)

	d := newTestHandler(t, api).Sync(context.Background(), path)
	assert.Equal(t, "No new rows to update.", d.Message)
	api.AssertNumberOfCalls(t, "Append", 0)
}

func TestSync_EmptySheetAppendsEverything(t *testing.T) {
	path := writeCSV(t, "Task,Completed Date\nFirst,2020-01-01\n")

	api := &mockValuesAPI{}
	api.On("Get", mock.Anything, "sheet-1", "Sheet1!A:Z").Return([][]interface{}{}, nil)
	api.On("Append", mock.Anything, "sheet-1", "Sheet1!A1", mock.Anything).Return(&sheets.AppendValuesResponse{}, nil).Once()

	d := newTestHandler(t, api).Sync(context.Background(), path)
	assert.Equal(t, "Appended 1 new rows.", d.Message)
}

func TestSync_MissingFile(t *testing.T) {
	api := &mockValuesAPI{}
	missing := filepath.Join(t.TempDir(), "nope.xlsx")

	d := newTestHandler(t, api).Sync(context.Background(), missing)
	assert.Equal(t, "Local file '"+missing+"' not found.", d.Message)
	api.AssertNumberOfCalls(t, "Get", 0)
}

func TestSync_MissingDateColumn(t *testing.T) {
	path := writeCSV(t, "Task,Done\nA,2025-01-01\n")
	d := newTestHandler(t, &mockValuesAPI{}).Sync(context.Background(), path)
	assert.Equal(t, "Column 'Completed Date' not found in '"+path+"'.", d.Message)
}

func TestSync_APIError(t *testing.T) {
	path := writeCSV(t, "Task,Completed Date\nA,2025-01-01\n")
	api := &mockValuesAPI{}
	api.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("permission denied"))

	d := newTestHandler(t, api).Sync(context.Background(), path)
	assert.Equal(t, "Sheets API error: permission denied", d.Message)
}

func TestRun_ErrorCodes(t *testing.T) {
	path := writeCSV(t, "Task,Completed Date\nA,2025-01-01\n")

	tests := []struct {
		name     string
		path     string
		connect  Connector
		wantCode apperrors.ErrorCode
	}{
		{
			name:     "missing file",
			path:     filepath.Join(t.TempDir(), "gone.csv"),
			wantCode: apperrors.ErrCodeSheetSyncFailed,
		},
		{
			name: "no token",
			path: path,
			connect: func(context.Context) (ValuesAPI, error) {
				return nil, fmt.Errorf("%w: run 'orianna authorize sheets'", auth.ErrAuthorizationRequired)
			},
			wantCode: apperrors.ErrCodeOAuthTokenInvalid,
		},
		{
			name: "api failure",
			path: path,
			connect: func(context.Context) (ValuesAPI, error) {
				api := &mockValuesAPI{}
				api.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("quota exceeded"))
				return api, nil
			},
			wantCode: apperrors.ErrCodeSheetSyncFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&Config{SpreadsheetID: "sheet-1"}, tt.connect, &TestLogger{t})

			out, err := h.Run(context.Background(), tt.path)

			stdErr, ok := apperrors.AsStandardError(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, tt.wantCode, stdErr.Code)
			assert.NotEmpty(t, out.Message)
			assert.Zero(t, out.Rows)
		})
	}
}

func TestRun_NothingNewIsNotAnError(t *testing.T) {
	path := writeCSV(t, "Task,Completed Date\nOld A,2025-03-01 10:00:00\n")
	api := &mockValuesAPI{}
	api.On("Get", mock.Anything, "sheet-1", "Sheet1!A:Z").Return(onlineRows, nil)

	out, err := newTestHandler(t, api).Run(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Message: "No new rows to update."}, out)
}

func TestSync_ReadsWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Task", "Completed Date"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Spreadsheet row", time.Date(2025, 3, 9, 14, 0, 0, 0, time.UTC)}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	api := &mockValuesAPI{}
	api.On("Get", mock.Anything, "sheet-1", "Sheet1!A:Z").Return(onlineRows, nil)
	api.On("Append", mock.Anything, "sheet-1", "Sheet1!A1", [][]interface{}{
		{"Spreadsheet row", "2025-03-09 14:00:00"},
	}).Return(&sheets.AppendValuesResponse{}, nil).Once()

	d := newTestHandler(t, api).Sync(context.Background(), path)
	assert.Equal(t, "Appended 1 new rows.", d.Message)
	api.AssertExpectations(t)
}

func TestExecute_UsesConfiguredFile(t *testing.T) {
	path := writeCSV(t, "Task,Completed Date\n")
	h := NewHandler(&Config{SpreadsheetID: "sheet-1", LocalFile: path}, nil, &TestLogger{t})

	assert.False(t, h.CanHandle("update spreadsheet"))
	d := h.Execute(context.Background(), "", "")
	assert.Equal(t, "No new rows to update.", d.Message)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2025-03-05T09:30:00Z", time.Date(2025, 3, 5, 9, 30, 0, 0, time.UTC), true},
		{"2025-03-05", time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{"3/5/2025 9:30", time.Date(2025, 3, 5, 9, 30, 0, 0, time.UTC), true},
		{"45725", time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.True(t, tt.want.Equal(got), "%s: got %s", tt.in, got)
		}
	}
}
