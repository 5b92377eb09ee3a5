package models

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for the core taxonomy.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeConflict         = "CONFLICT"
	CodeStore            = "STORE_ERROR"
)

// Denial reason sub-codes for PERMISSION_DENIED.
const (
	ReasonBlockedByPeer  = "BLOCKED_BY_PEER"
	ReasonIBlocked       = "I_BLOCKED"
	ReasonDMDisabled     = "DM_DISABLED"
	ReasonNotParticipant = "NOT_PARTICIPANT"
)

// reasonText maps denial reasons to the fixed copy clients render.
var reasonText = map[string]string{
	ReasonBlockedByPeer:  "You are blocked by this user",
	ReasonIBlocked:       "You have blocked this user",
	ReasonDMDisabled:     "This user doesn't accept messages",
	ReasonNotParticipant: "You are not a participant of this conversation",
}

// ReasonMessage returns the user-visible copy for a denial reason.
func ReasonMessage(reason string) string {
	if msg, ok := reasonText[reason]; ok {
		return msg
	}
	return "Action not allowed"
}

// AppError carries the taxonomy code, an optional denial reason and a wrapped
// cause. Persistence failures propagate unmodified inside a STORE_ERROR.
type AppError struct {
	Code    string
	Reason  string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

func NewNotFoundError(resource, id string) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s %q not found", resource, id)}
}

func NewPermissionDenied(reason string) *AppError {
	return &AppError{Code: CodePermissionDenied, Reason: reason, Message: ReasonMessage(reason)}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

func NewStoreError(err error) *AppError {
	return &AppError{Code: CodeStore, Message: "persistence failure", Err: err}
}

// AsAppError unwraps err into an *AppError if one is in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HTTPStatus maps an error to the status code controllers reply with.
func HTTPStatus(err error) int {
	appErr, ok := AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
