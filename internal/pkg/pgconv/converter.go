package pgconv

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// TimeFromPgtype returns the zero time for NULL and normalises to UTC so
// values compare equal regardless of the session time zone.
func TimeFromPgtype(pt pgtype.Timestamptz) time.Time {
	if !pt.Valid {
		return time.Time{}
	}
	return pt.Time.UTC()
}

// StringToPgtype maps the empty string to NULL.
func StringToPgtype(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
