// Copyright 2025 Reelscope, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package quota implements the user credential and usage store backed by a
// Google Sheets worksheet. The worksheet is the single source of truth: the
// first row carries column headers (username, password, usage, limit) and
// each subsequent row is one user account.
package quota

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"google.golang.org/api/sheets/v4"

	"github.com/reelscope/shortform-analyzer/internal/cloud"
	"github.com/reelscope/shortform-analyzer/internal/core/model"
)

const (
	columnUsername = "username"
	columnPassword = "password"
	columnLimit    = "limit"

	// headerRowOffset converts a zero-based data-row position into the
	// 1-based spreadsheet row number, skipping the header row.
	headerRowOffset = 2
)

var (
	// ErrStoreUnavailable indicates the worksheet could not be read. Login
	// fails closed on this error: no reachable store, no authentication.
	ErrStoreUnavailable = errors.New("quota: user store unavailable")

	// ErrInvalidCredentials indicates no row matched the supplied
	// username/password pair exactly.
	ErrInvalidCredentials = errors.New("quota: invalid credentials")

	// ErrUsageColumnNotFound indicates the configured usage column header
	// is missing from the worksheet, so usage cannot be recorded.
	ErrUsageColumnNotFound = errors.New("quota: usage column not found")
)

// Store reads and updates user accounts in the backing worksheet.
type Store struct {
	service     *sheets.Service
	spreadsheet string
	worksheet   string
	usageColumn string

	// writeMu serializes usage increments. Two runs finishing at the same
	// time must produce two increments, not one overwriting the other.
	writeMu sync.Mutex
}

// NewStore creates a Store and validates the worksheet layout up front: a
// missing usage column is a deployment mistake better caught at startup
// than at the end of a user's first analysis run.
func NewStore(ctx context.Context, service *sheets.Service, config *cloud.QuotaStore) (*Store, error) {
	s := &Store{
		service:     service,
		spreadsheet: config.SpreadsheetID,
		worksheet:   config.Worksheet,
		usageColumn: config.UsageColumn,
	}

	headers, _, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := findColumn(headers, s.usageColumn); !ok {
		return nil, fmt.Errorf("%w: %q not in worksheet %q", ErrUsageColumnNotFound, s.usageColumn, s.worksheet)
	}
	return s, nil
}

// Authenticate looks up a user by exact username/password match.
//
// Outputs:
//   - *model.User: The matched account with its current usage and limit.
//   - error: ErrInvalidCredentials on no match, ErrStoreUnavailable when
//     the worksheet cannot be read.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	headers, rows, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}

	userCol, ok := findColumn(headers, columnUsername)
	if !ok {
		return nil, fmt.Errorf("%w: %q not in worksheet %q", ErrStoreUnavailable, columnUsername, s.worksheet)
	}
	passCol, ok := findColumn(headers, columnPassword)
	if !ok {
		return nil, fmt.Errorf("%w: %q not in worksheet %q", ErrStoreUnavailable, columnPassword, s.worksheet)
	}

	pos, ok := findUserRow(rows, userCol, passCol, username, password)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	user := &model.User{
		Username: username,
		Password: password,
		RowIndex: pos + headerRowOffset,
	}
	if col, ok := findColumn(headers, s.usageColumn); ok {
		user.Usage = cellInt(rows[pos], col)
	}
	if col, ok := findColumn(headers, columnLimit); ok {
		user.Limit = cellInt(rows[pos], col)
	}
	return user, nil
}

// IncrementUsage bumps the user's usage cell by one. The write targets the
// single cell addressed by the stored row index and the usage column, so a
// concurrent edit of other rows is never clobbered.
func (s *Store) IncrementUsage(ctx context.Context, user *model.User) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	headers, _, err := s.readAll(ctx)
	if err != nil {
		return err
	}
	col, ok := findColumn(headers, s.usageColumn)
	if !ok {
		return fmt.Errorf("%w: %q not in worksheet %q", ErrUsageColumnNotFound, s.usageColumn, s.worksheet)
	}

	usage, limit := user.QuotaState()
	next := usage + 1
	cell := fmt.Sprintf("%s!%s%d", s.worksheet, columnLetter(col), user.RowIndex)
	values := &sheets.ValueRange{Values: [][]interface{}{{next}}}

	_, err = s.service.Spreadsheets.Values.
		Update(s.spreadsheet, cell, values).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: updating %s: %v", ErrStoreUnavailable, cell, err)
	}

	user.SetUsage(next)
	slog.Info("recorded usage",
		slog.String("username", user.Username),
		slog.Int("usage", next),
		slog.Int("limit", limit))
	return nil
}

// readAll fetches the whole worksheet and splits it into the header row
// and the data rows.
func (s *Store) readAll(ctx context.Context) (headers []string, rows [][]interface{}, err error) {
	resp, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheet, s.worksheet).
		Context(ctx).
		Do()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading worksheet %q: %v", ErrStoreUnavailable, s.worksheet, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil, fmt.Errorf("%w: worksheet %q is empty", ErrStoreUnavailable, s.worksheet)
	}

	headers = make([]string, 0, len(resp.Values[0]))
	for _, h := range resp.Values[0] {
		headers = append(headers, cellString(h))
	}
	return headers, resp.Values[1:], nil
}

// findColumn locates a header by case-insensitive name.
func findColumn(headers []string, name string) (int, bool) {
	for i, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i, true
		}
	}
	return 0, false
}

// findUserRow returns the zero-based position of the first data row whose
// username and password cells both match exactly.
func findUserRow(rows [][]interface{}, userCol, passCol int, username, password string) (int, bool) {
	for i, row := range rows {
		if cellAt(row, userCol) == username && cellAt(row, passCol) == password {
			return i, true
		}
	}
	return 0, false
}

// cellAt reads a cell as a string, tolerating short rows.
func cellAt(row []interface{}, col int) string {
	if col >= len(row) {
		return ""
	}
	return cellString(row[col])
}

// cellString normalizes the interface{} cell values the Sheets API returns.
func cellString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// cellInt reads a cell as an integer, treating blanks and junk as zero.
func cellInt(row []interface{}, col int) int {
	n, err := strconv.Atoi(strings.TrimSpace(cellAt(row, col)))
	if err != nil {
		return 0
	}
	return n
}

// columnLetter converts a zero-based column index into A1 notation.
func columnLetter(col int) string {
	letters := ""
	for col >= 0 {
		letters = string(rune('A'+col%26)) + letters
		col = col/26 - 1
	}
	return letters
}
