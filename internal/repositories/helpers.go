package repositories

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// isDuplicateKey detects MySQL error 1062 so unique-key violations map to
// conflict instead of a 500.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// NullIfEmpty helps store optional strings without wiping existing data.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
