package postgres

import "github.com/google/uuid"

// scannable is satisfied by pgx.Row and pgx.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// isUUID guards UUID columns so a malformed id reads as "not found" instead
// of a cast error from the server.
func isUUID(s string) bool {
	return uuid.Validate(s) == nil
}
