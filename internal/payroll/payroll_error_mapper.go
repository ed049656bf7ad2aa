package payroll

import (
	"errors"
	"strings"

	payrollerrors "go-workforce/internal/payroll/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// mapWriteError translates constraint violations from the database into
// domain errors. The unique indexes are the backstop behind the counter
// and the overlap check; a violation means a concurrent writer won.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "idx_payroll_run_number":
			return payrollerrors.ErrDuplicateRunNumber
		case "idx_payroll_record_run":
			return payrollerrors.ErrRunCalculating
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "idx_payroll_run_number") {
		return payrollerrors.ErrDuplicateRunNumber
	}

	return err
}
