// Package repository implements the reservation engine's persistence
// contract on MySQL.  All methods use parameterized queries; identifier
// lists are expanded into `?` placeholders, never interpolated into SQL.
// Failures that callers branch on are reported with the booking package's
// sentinel errors wrapped in context.
package repository

import "strings"

// isDuplicateKey reports whether err is a MySQL duplicate-entry violation
// (error 1062).  Racing inserts on the customers.email unique constraint
// land here and are handled as a normal control-flow branch.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
