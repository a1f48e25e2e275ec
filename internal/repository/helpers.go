package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/sprintwise/internal/domain"
)

// timeLayout is the storage format of every timestamp column.
const timeLayout = time.RFC3339

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(column, s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", column, err)
	}
	return t, nil
}

// encodeKeywords stores keywords as a JSON array so a keyword may contain
// commas.
func encodeKeywords(keywords []string) (string, error) {
	if len(keywords) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(keywords)
	if err != nil {
		return "", fmt.Errorf("encoding keywords: %w", err)
	}
	return string(data), nil
}

// decodeKeywords reads the keywords column. Rows written before the JSON
// encoding hold a comma separated list.
func decodeKeywords(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") {
		return domain.SplitKeywords(s), nil
	}
	var keywords []string
	if err := json.Unmarshal([]byte(s), &keywords); err != nil {
		return nil, fmt.Errorf("parsing keywords: %w", err)
	}
	return domain.CleanKeywords(keywords), nil
}

// nullableString maps "" to SQL NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// prefixPattern escapes LIKE wildcards in an ID prefix.
func prefixPattern(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(strings.ToLower(prefix)) + "%"
}

// notFound turns sql.ErrNoRows into ErrNotFound for the named entity.
func notFound(entity string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return fmt.Errorf("scanning %s: %w", entity, err)
}

// collect scans every row with scan and closes rows.
func collect[T any](rows *sql.Rows, scan func(rowScanner) (*T, error)) ([]*T, error) {
	defer rows.Close()

	var out []*T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}

func requireOneRow(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return nil
}
