package attendance

import (
	"errors"
	"strings"

	attendanceerrors "go-workforce/internal/attendance/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// mapWriteError translates constraint violations from the database into
// domain errors. The unique employee+date index is the backstop behind
// the pre-insert lookup; a violation means a concurrent writer won.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" &&
		pgErr.ConstraintName == "idx_attendance_employee_date" {
		return attendanceerrors.ErrDateAlreadyRecorded
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "idx_attendance_employee_date") {
		return attendanceerrors.ErrDateAlreadyRecorded
	}

	return err
}
