// Package common defines shared sentinel errors and small helpers used across
// GymKeeper packages. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Store / record-level errors.
	ErrorNotFound        = errors.New("not found")
	ErrCorruptRecord     = errors.New("corrupt record")
	ErrUnsupportedSchema = errors.New("unsupported record schema")
	ErrorValidation      = errors.New("validation error")

	// Session errors.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrLoginRequired      = errors.New("login required")

	// Enrollment errors.
	ErrUnknownPlan       = errors.New("unknown plan")
	ErrUnknownBranch     = errors.New("unknown branch")
	ErrBranchRequired    = errors.New("branch must be selected")
	ErrWrongStep         = errors.New("operation not allowed at current step")
	ErrPaymentInProgress = errors.New("payment already in progress")
	ErrUnknownMethod     = errors.New("unknown payment method")
)
