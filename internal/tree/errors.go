package tree

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors returned by this package.
type ErrorCode string

const (
	// ErrCodeInvalidParameter indicates generation parameters outside their domain.
	ErrCodeInvalidParameter ErrorCode = "INVALID_PARAMETER"

	// ErrCodeInvalidTree indicates a node list that does not form a valid tree.
	ErrCodeInvalidTree ErrorCode = "INVALID_TREE"

	// ErrCodeNoEligibleParent indicates no existing node had spare capacity.
	// Unreachable for valid parameters.
	ErrCodeNoEligibleParent ErrorCode = "NO_ELIGIBLE_PARENT"
)

// Error is the error type returned by Generate and Build.
type Error struct {
	Code ErrorCode

	// Param names the offending parameter for ErrCodeInvalidParameter.
	Param string

	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Param, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidParameter returns true if err is, or wraps, an invalid parameter error.
func IsInvalidParameter(err error) bool {
	return hasCode(err, ErrCodeInvalidParameter)
}

// IsInvalidTree returns true if err is, or wraps, an invalid tree error.
func IsInvalidTree(err error) bool {
	return hasCode(err, ErrCodeInvalidTree)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

func newParameterError(param string, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeInvalidParameter,
		Param:   param,
		Message: fmt.Sprintf(format, args...),
	}
}
