package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/plata/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

func newTestAppender(t *testing.T, handler http.HandlerFunc) *Appender {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	srv, err := sheets.NewService(context.Background(),
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)

	return newAppender(srv, Config{
		DefaultSpreadsheetID: "default-sheet",
		RetryAttempts:        3,
		RetryDelay:           time.Millisecond,
	}, nil)
}

func TestAppendRow(t *testing.T) {
	var gotPath, gotQuery string
	var gotBody sheets.ValueRange

	a := newTestAppender(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1","updates":{"updatedRows":1}}`))
	})

	row := []any{"09/05/2024 00:00:00", "expense", 500.5, "ARS", "comida", "Almuerzo"}
	require.NoError(t, a.AppendRow(context.Background(), "sheet-1", "Transacciones", row))

	assert.Equal(t, "/v4/spreadsheets/sheet-1/values/'Transacciones'!A1:append", gotPath)
	assert.Contains(t, gotQuery, "valueInputOption=USER_ENTERED")
	assert.Contains(t, gotQuery, "insertDataOption=INSERT_ROWS")
	require.Len(t, gotBody.Values, 1)
	assert.Equal(t, []any{"09/05/2024 00:00:00", "expense", 500.5, "ARS", "comida", "Almuerzo"}, gotBody.Values[0])
}

func TestAppendRowDefaultSpreadsheet(t *testing.T) {
	var gotPath string
	a := newTestAppender(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{}`))
	})

	require.NoError(t, a.AppendRow(context.Background(), "", "Cambios", []any{"x"}))
	assert.True(t, strings.HasPrefix(gotPath, "/v4/spreadsheets/default-sheet/"), gotPath)
}

func TestAppendRowNoSpreadsheet(t *testing.T) {
	a := newTestAppender(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected")
	})
	a.config.DefaultSpreadsheetID = ""

	err := a.AppendRow(context.Background(), "", "Cambios", []any{"x"})
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestAppendRowRetries(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCalls int32
		wantErr   bool
	}{
		{name: "server errors are retried", status: http.StatusServiceUnavailable, wantCalls: 3, wantErr: true},
		{name: "permission errors are final", status: http.StatusForbidden, wantCalls: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			a := newTestAppender(t, func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = fmt.Fprintf(w, `{"error":{"code":%d,"message":"nope"}}`, tt.status)
			})

			err := a.AppendRow(context.Background(), "sheet-1", "Transacciones", []any{"x"})
			assert.Equal(t, tt.wantCalls, calls.Load())
			if tt.wantErr {
				assert.Error(t, err)
			}
		})
	}
}

func TestAppendRowRecoversAfterTransientError(t *testing.T) {
	var calls atomic.Int32
	a := newTestAppender(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})

	require.NoError(t, a.AppendRow(context.Background(), "sheet-1", "Transferencias", []any{"x"}))
	assert.Equal(t, int32(2), calls.Load())
}

func TestWorksheetRange(t *testing.T) {
	assert.Equal(t, "'Transacciones'!A1", worksheetRange("Transacciones"))
	assert.Equal(t, "'Gastos de Juan''s'!A1", worksheetRange("Gastos de Juan's"))
}

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}

	require.NoError(t, SaveToken(path, token))

	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "refresh", loaded.RefreshToken)
	assert.Equal(t, "access", loaded.AccessToken)
}

func TestNewAppenderRejectsInvalidConfig(t *testing.T) {
	_, err := NewAppender(context.Background(), Config{}, nil)
	assert.ErrorContains(t, err, "invalid config")
}
