package payrollerrors

import (
	"net/http"

	"go-workforce/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"period_start must be before or equal period_end",
		http.StatusBadRequest,
	)
	ErrRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll run not found",
		http.StatusNotFound,
	)
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll record not found",
		http.StatusNotFound,
	)
	ErrOverlappingRun = apperror.New(
		apperror.CodeConflict,
		"a payroll run already covers an overlapping period",
		http.StatusConflict,
	)
	ErrRunCalculating = apperror.New(
		apperror.CodeConflict,
		"payroll run is already being calculated",
		http.StatusConflict,
	)
	ErrInvalidStateTransition = apperror.New(
		apperror.CodeInvalidState,
		"payroll run does not permit this transition",
		http.StatusBadRequest,
	)
	ErrNoTimesheets = apperror.New(
		apperror.CodeInvalidState,
		"no approved timesheets found in this period",
		http.StatusConflict,
	)
	ErrPayProfileMissing = apperror.New(
		apperror.CodeInvalidState,
		"employee pay reference data is missing or incomplete",
		http.StatusConflict,
	)
	ErrPayslipNotReady = apperror.New(
		apperror.CodeInvalidState,
		"payslips are only available for approved or processed runs",
		http.StatusConflict,
	)
	ErrDuplicateRunNumber = apperror.New(
		apperror.CodeConflict,
		"a payroll run with this run number already exists",
		http.StatusConflict,
	)
)
