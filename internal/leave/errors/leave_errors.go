package leaveerrors

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
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidTimeFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid time format, expected HH:MM",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidTimeRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_time must be before end_time",
		http.StatusBadRequest,
	)
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)
	ErrHourlyNotAllowed = apperror.New(
		apperror.CodeInvalidInput,
		"this leave type does not allow hourly leave",
		http.StatusBadRequest,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrBalanceNotFound = apperror.New(
		apperror.CodeInvalidState,
		"no leave balance found for this leave type and year",
		http.StatusConflict,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeConflict,
		"requested leave exceeds available balance",
		http.StatusConflict,
	)
	ErrInvalidStateTransition = apperror.New(
		apperror.CodeInvalidState,
		"leave request does not permit this transition",
		http.StatusBadRequest,
	)
	ErrNotRequester = apperror.New(
		apperror.CodeForbidden,
		"only the requester may cancel a leave request",
		http.StatusForbidden,
	)
	ErrRemarksRequired = apperror.New(
		apperror.CodeInvalidInput,
		"remarks are required when rejecting",
		http.StatusBadRequest,
	)
	ErrBalanceConflict = apperror.New(
		apperror.CodeConflict,
		"leave balance was modified concurrently, retry the operation",
		http.StatusConflict,
	)
)
