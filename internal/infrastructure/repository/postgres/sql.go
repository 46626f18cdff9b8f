package postgres

import (
	"database/sql"
	"strings"
)

func nullInt64ToInt64(v sql.NullInt64) int64 {
	if !v.Valid {
		return 0
	}
	return v.Int64
}

func nullInt64ToIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}

func intPtrToNullInt64(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// isRetryableStatementError matches errors raised when a pooler such as
// pgbouncer in transaction mode swaps the backend under an unnamed
// prepared statement. The same query usually succeeds on retry.
func isRetryableStatementError(err error) bool {
	if err == nil {
		return false
	}
	text := strings.ToLower(err.Error())
	if strings.Contains(text, "unnamed prepared statement does not exist") || strings.Contains(text, "(26000)") {
		return true
	}
	if strings.Contains(text, "bind message supplies") && strings.Contains(text, "prepared statement") {
		return true
	}
	return strings.Contains(text, "bind message has") &&
		strings.Contains(text, "result formats") &&
		strings.Contains(text, "query has")
}
