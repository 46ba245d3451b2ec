package fieldlog

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client wraps the Sheets API for one spreadsheet. Writes are rate-limited;
// the merged worksheet is overwritten whole (last writer wins -- the store
// is eventually consistent and unlocked).
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	observations  string
	merged        string
	limiter       *rate.Limiter
}

// NewClient builds a Sheets client from a service-account credentials file.
func NewClient(ctx context.Context, credentialsFile, spreadsheetID, observations, merged string) (*Client, error) {
	if spreadsheetID == "" {
		return nil, eris.New("fieldlog: spreadsheet id is required")
	}
	svc, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, eris.Wrap(err, "fieldlog: create sheets service")
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		observations:  observations,
		merged:        merged,
		limiter:       rate.NewLimiter(rate.Limit(1), 5),
	}, nil
}

// Append validates the entry, stamps Submitted At and appends it to the
// Observations worksheet, creating the worksheet with its header row on
// first use.
func (c *Client) Append(ctx context.Context, e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := c.ensureObservations(ctx); err != nil {
		return err
	}
	e.SubmittedAt = time.Now().Format("2006-01-02 15:04:05")

	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "fieldlog: rate limit")
	}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, c.observations+"!A1",
		&sheets.ValueRange{Values: [][]interface{}{e.row()}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return eris.Wrap(err, "fieldlog: append entry")
	}

	zap.L().Info("fieldlog: entry submitted",
		zap.String("entry_type", e.EntryType),
		zap.String("site", e.Site),
	)
	return nil
}

// List reads all observation entries.
func (c *Client) List(ctx context.Context) ([]Entry, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "fieldlog: rate limit")
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.observations).Context(ctx).Do()
	if err != nil {
		return nil, eris.Wrap(err, "fieldlog: read observations")
	}

	var entries []Entry
	for i, row := range resp.Values {
		if i == 0 {
			continue // header
		}
		entries = append(entries, entryFromRow(row))
	}
	return entries, nil
}

// MergeAndSave joins START/STOP pairs and overwrites the merged worksheet.
// Returns the number of merged rows; zero means no matching pairs were
// found and the worksheet is left untouched.
func (c *Client) MergeAndSave(ctx context.Context) (int, error) {
	entries, err := c.List(ctx)
	if err != nil {
		return 0, err
	}

	rows := Merge(entries)
	if len(rows) == 0 {
		return 0, nil
	}

	if err := c.recreateWorksheet(ctx, c.merged); err != nil {
		return 0, err
	}

	columns := MergedColumns()
	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	values := append([][]interface{}{header}, rows...)

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, eris.Wrap(err, "fieldlog: rate limit")
	}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, c.merged+"!A1",
		&sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return 0, eris.Wrap(err, "fieldlog: write merged records")
	}

	zap.L().Info("fieldlog: merged records saved", zap.Int("rows", len(rows)))
	return len(rows), nil
}

// ensureObservations creates the observations worksheet with its header row
// when it does not exist yet.
func (c *Client) ensureObservations(ctx context.Context) error {
	exists, _, err := c.worksheet(ctx, c.observations)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := c.addWorksheet(ctx, c.observations); err != nil {
		return err
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "fieldlog: rate limit")
	}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, c.observations+"!A1",
		&sheets.ValueRange{Values: [][]interface{}{header}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return eris.Wrap(err, "fieldlog: write header")
	}
	return nil
}

// recreateWorksheet drops and re-adds a worksheet so stale merged rows
// never survive an overwrite.
func (c *Client) recreateWorksheet(ctx context.Context, title string) error {
	exists, sheetID, err := c.worksheet(ctx, title)
	if err != nil {
		return err
	}
	if exists {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "fieldlog: rate limit")
		}
		_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				DeleteSheet: &sheets.DeleteSheetRequest{SheetId: sheetID},
			}},
		}).Context(ctx).Do()
		if err != nil {
			return eris.Wrapf(err, "fieldlog: delete worksheet %s", title)
		}
	}
	return c.addWorksheet(ctx, title)
}

func (c *Client) addWorksheet(ctx context.Context, title string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "fieldlog: rate limit")
	}
	_, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return eris.Wrapf(err, "fieldlog: add worksheet %s", title)
	}
	return nil
}

// worksheet reports whether a worksheet exists and its sheet ID.
func (c *Client) worksheet(ctx context.Context, title string) (bool, int64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, 0, eris.Wrap(err, "fieldlog: rate limit")
	}
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return false, 0, eris.Wrap(err, "fieldlog: get spreadsheet")
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return true, sh.Properties.SheetId, nil
		}
	}
	return false, 0, nil
}
