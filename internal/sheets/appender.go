package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/plata/internal/common"
	"github.com/Veraticus/plata/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Appender appends rows to worksheets with the Sheets v4 API.
type Appender struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewAppender authenticates and creates an appender.
func NewAppender(ctx context.Context, config Config, logger *slog.Logger) (*Appender, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return newAppender(srv, config, logger), nil
}

func newAppender(srv *sheets.Service, config Config, logger *slog.Logger) *Appender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Appender{service: srv, config: config, logger: logger}
}

// createSheetsService creates a Google Sheets API service from either a
// service account key or an OAuth2 refresh token.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := oauthConfig(config.ClientID, config.ClientSecret, "")
		tokenSource = client.TokenSource(ctx, &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		})
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// AppendRow appends row after the last row of worksheet. An empty
// spreadsheetID uses the configured default spreadsheet.
func (a *Appender) AppendRow(ctx context.Context, spreadsheetID, worksheet string, row []any) error {
	if spreadsheetID == "" {
		spreadsheetID = a.config.DefaultSpreadsheetID
	}
	if spreadsheetID == "" {
		return fmt.Errorf("%w: no spreadsheet linked", common.ErrMissingConfig)
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  a.config.RetryAttempts,
		InitialDelay: a.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	valueRange := &sheets.ValueRange{Values: [][]any{row}}
	rangeRef := worksheetRange(worksheet)

	err := common.WithRetry(ctx, func() error {
		_, err := a.service.Spreadsheets.Values.Append(spreadsheetID, rangeRef, valueRange).
			ValueInputOption("USER_ENTERED").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).
			Do()
		return classifyError(err)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to append row to %s: %w", worksheet, err)
	}

	a.logger.Debug("Row appended",
		"spreadsheet_id", spreadsheetID,
		"worksheet", worksheet,
		"columns", len(row))
	return nil
}

// worksheetRange anchors an append at the first cell of a worksheet. Names
// are quoted since they may contain spaces.
func worksheetRange(worksheet string) string {
	return "'" + strings.ReplaceAll(worksheet, "'", "''") + "'!A1"
}

func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return common.Transient(fmt.Errorf("%w: %w", common.ErrRateLimit, err))
		case apiErr.Code >= http.StatusInternalServerError:
			return common.Transient(err)
		default:
			return common.Permanent(err)
		}
	}
	return common.Transient(err)
}
