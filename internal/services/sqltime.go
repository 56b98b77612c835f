package services

import "time"

// sqliteTimeLayout is fixed-width so stored timestamps compare correctly as
// text in ORDER BY and range predicates.
const sqliteTimeLayout = "2006-01-02 15:04:05.000000000-07:00"

// sqlTime formats a timestamp for storage.
func sqlTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}
