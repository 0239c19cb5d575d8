package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"healthmon-backend/config"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

var ErrNotConfigured = errors.New("google sheets is not configured")

// Client reads whole tabs of one spreadsheet as header-keyed rows.
type Client struct {
	service       *gsheets.Service
	spreadsheetID string
}

func NewClient(ctx context.Context, cfg config.SheetsConfig) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, ErrNotConfigured
	}

	opt, err := credentialsOption(cfg)
	if err != nil {
		return nil, err
	}

	service, err := gsheets.NewService(ctx, opt, option.WithScopes(gsheets.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	logrus.Infof("Google Sheets client ready for spreadsheet %s", cfg.SpreadsheetID)

	return &Client{service: service, spreadsheetID: cfg.SpreadsheetID}, nil
}

// credentialsOption prefers a service-account file and falls back to the
// individual service-account fields.
func credentialsOption(cfg config.SheetsConfig) (option.ClientOption, error) {
	if cfg.CredentialsFile != "" {
		return option.WithCredentialsFile(cfg.CredentialsFile), nil
	}
	if cfg.PrivateKey == "" || cfg.ServiceAccountEmail == "" {
		return nil, ErrNotConfigured
	}

	creds, err := json.Marshal(map[string]string{
		"type":           "service_account",
		"project_id":     cfg.ProjectID,
		"private_key_id": cfg.PrivateKeyID,
		"private_key":    strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n"),
		"client_email":   cfg.ServiceAccountEmail,
		"client_id":      cfg.ClientID,
		"token_uri":      "https://oauth2.googleapis.com/token",
	})
	if err != nil {
		return nil, err
	}
	return option.WithCredentialsJSON(creds), nil
}

// ReadTab returns every data row of the tab, keyed by normalized header.
func (c *Client) ReadTab(ctx context.Context, tab string) ([]map[string]string, error) {
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, tab+"!A:Z").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read tab %s: %w", tab, err)
	}
	return RowsToRecords(resp.Values), nil
}

// RowsToRecords maps rows onto the first row's headers. Headers are
// lower-cased with whitespace runs replaced by "_"; missing cells become "".
func RowsToRecords(rows [][]interface{}) []map[string]string {
	if len(rows) == 0 {
		return nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = NormalizeHeader(fmt.Sprint(h))
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(row) && row[i] != nil {
				record[header] = strings.TrimSpace(fmt.Sprint(row[i]))
			} else {
				record[header] = ""
			}
		}
		records = append(records, record)
	}
	return records
}

func NormalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), "_")
}
