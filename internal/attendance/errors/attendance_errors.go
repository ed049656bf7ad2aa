package attendanceerrors

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
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
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
	ErrAlreadyClockedIn = apperror.New(
		apperror.CodeConflict,
		"an open attendance record already exists for today",
		http.StatusConflict,
	)
	ErrDateAlreadyRecorded = apperror.New(
		apperror.CodeConflict,
		"an attendance record already exists for this employee and date",
		http.StatusConflict,
	)
	ErrNoOpenRecord = apperror.New(
		apperror.CodeConflict,
		"no open attendance record found for today",
		http.StatusConflict,
	)
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance record not found",
		http.StatusNotFound,
	)
	ErrRuleNotFound = apperror.New(
		apperror.CodeInvalidState,
		"no attendance rule resolved for employee",
		http.StatusConflict,
	)
	ErrInvalidStateTransition = apperror.New(
		apperror.CodeInvalidState,
		"attendance record does not permit this transition",
		http.StatusBadRequest,
	)
	ErrRemarksRequired = apperror.New(
		apperror.CodeInvalidInput,
		"remarks are required when rejecting",
		http.StatusBadRequest,
	)
	ErrHoursOrTimesRequired = apperror.New(
		apperror.CodeInvalidInput,
		"either clock times or hours must be supplied",
		http.StatusBadRequest,
	)
)
