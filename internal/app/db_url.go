package app

import (
	"net/url"
	"strings"

	"github.com/lib/pq"
)

const preparedBinaryParam = "disable_prepared_binary_result"

// NormalizeDBURL sets disable_prepared_binary_result=yes on a URL or
// key=value DSN unless the caller already chose a value.
func NormalizeDBURL(raw string, disablePreparedBinary bool) string {
	if !disablePreparedBinary || strings.Contains(raw, preparedBinaryParam+"=") {
		return raw
	}
	if !isPostgresURL(raw) {
		return strings.TrimSpace(raw) + " " + preparedBinaryParam + "=yes"
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	query := parsed.Query()
	query.Set(preparedBinaryParam, "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// dbNameFromURL returns the dbname of a URL or DSN, or "" when absent.
func dbNameFromURL(raw string) string {
	dsn := strings.TrimSpace(raw)
	if isPostgresURL(dsn) {
		converted, err := pq.ParseURL(dsn)
		if err != nil {
			return ""
		}
		dsn = converted
	}

	for _, token := range strings.Fields(dsn) {
		if name, ok := strings.CutPrefix(token, "dbname="); ok {
			return strings.Trim(name, `"'`)
		}
	}
	return ""
}

func isPostgresURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	return strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://")
}
