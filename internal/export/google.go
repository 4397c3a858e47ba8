package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"caixa/internal/core"
)

// GoogleConfig locates the target spreadsheet and the OAuth material. Client
// and token can come inline (JSON) or from files; inline wins when both are
// set.
type GoogleConfig struct {
	SpreadsheetID   string
	SheetName       string
	OAuthClientFile string
	OAuthTokenFile  string
	OAuthClientJSON string
	OAuthTokenJSON  string
}

// GoogleClient appends month snapshots to a Google spreadsheet.
type GoogleClient struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ MonthExporter = (*GoogleClient)(nil)

// NewGoogleClient builds the sheets service from OAuth client credentials
// and a previously stored user token (see cmd/oauth-init).
func NewGoogleClient(ctx context.Context, cfg GoogleConfig) (*GoogleClient, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheetName := strings.TrimSpace(cfg.SheetName)
	if sheetName == "" {
		sheetName = "Meses"
	}

	clientJSON, err := readMaterial(cfg.OAuthClientJSON, cfg.OAuthClientFile)
	if err != nil {
		return nil, fmt.Errorf("oauth client credentials: %w", err)
	}
	tokenJSON, err := readMaterial(cfg.OAuthTokenJSON, cfg.OAuthTokenFile)
	if err != nil {
		return nil, fmt.Errorf("oauth token: %w", err)
	}

	oauthCfg, err := google.ConfigFromJSON(clientJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse oauth client: %w", err)
	}

	token, err := parseToken(tokenJSON)
	if err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}

	svc, err := gsheet.NewService(ctx, goption.WithHTTPClient(oauthCfg.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &GoogleClient{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func readMaterial(inline, file string) ([]byte, error) {
	switch {
	case strings.TrimSpace(inline) != "":
		return []byte(inline), nil
	case strings.TrimSpace(file) != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		return b, nil
	default:
		return nil, errors.New("neither inline JSON nor file configured")
	}
}

func parseToken(data []byte) (*oauth2.Token, error) {
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, err
	}
	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, errors.New("token has neither access nor refresh token")
	}
	return &token, nil
}

// ExportMonth appends one snapshot row. The header row is written lazily the
// first time the sheet is found empty.
func (c *GoogleClient) ExportMonth(ctx context.Context, view core.ResolvedMonthView, totals core.Totals) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get sheet dimensions for %s: %w", c.sheetName, err)
	}

	rows := [][]any{}
	nextRow := len(resp.Values) + 1
	if nextRow == 1 {
		rows = append(rows, MonthRowHeader)
	}
	rows = append(rows, BuildMonthRow(view, totals))

	dataRange := fmt.Sprintf("%s!A%d", c.sheetName, nextRow)
	vr := &gsheet.ValueRange{Values: rows}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("update sheet %s: %w", c.sheetName, err)
	}

	ref := fmt.Sprintf("%s!A%d", c.sheetName, nextRow+len(rows)-1)
	return ref, nil
}
