package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

// Unavailable reports whether err means the store could not be reached or
// did not answer within the deadline, as opposed to a failed statement.
func Unavailable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr)
}
