package serviceerror

import "fmt"

// ServiceErrorType distinguishes caller mistakes from server faults.
type ServiceErrorType string

const (
	ClientErrorType ServiceErrorType = "client_error"
	ServerErrorType ServiceErrorType = "server_error"
)

// ServiceError is the stable error classification every lifecycle operation
// surfaces. Codes are part of the API contract.
type ServiceError struct {
	Code             string           `json:"code"`
	Type             ServiceErrorType `json:"type"`
	Error            string           `json:"error"`
	ErrorDescription string           `json:"error_description,omitempty"`
}

var (
	InternalServerError = ServiceError{
		Type:             ServerErrorType,
		Code:             "ASE-5000",
		Error:            "internal_server_error",
		ErrorDescription: "An unexpected error occurred",
	}

	DatabaseError = ServiceError{
		Type:             ServerErrorType,
		Code:             "ASE-5001",
		Error:            "database_error",
		ErrorDescription: "A database error occurred",
	}

	ValidationError = ServiceError{
		Type:             ClientErrorType,
		Code:             "ACE-4001",
		Error:            "validation_error",
		ErrorDescription: "Validation failed",
	}

	UnauthorizedError = ServiceError{
		Type:             ClientErrorType,
		Code:             "ACE-4010",
		Error:            "unauthorized",
		ErrorDescription: "Authentication is required",
	}

	ForbiddenError = ServiceError{
		Type:             ClientErrorType,
		Code:             "ACE-4030",
		Error:            "forbidden",
		ErrorDescription: "The authenticated user may not perform this action",
	}

	NotFoundError = ServiceError{
		Type:             ClientErrorType,
		Code:             "ACE-4040",
		Error:            "not_found",
		ErrorDescription: "Resource not found",
	}

	ConflictError = ServiceError{
		Type:             ClientErrorType,
		Code:             "ACE-4090",
		Error:            "conflict",
		ErrorDescription: "Request conflicts with current state",
	}

	InvalidStateError = ServiceError{
		Type:             ClientErrorType,
		Code:             "ACE-4091",
		Error:            "invalid_state",
		ErrorDescription: "The request status does not permit this operation",
	}
)

// CustomServiceError clones a base error with a specific description.
func CustomServiceError(baseError ServiceError, description string) *ServiceError {
	return &ServiceError{
		Type:             baseError.Type,
		Code:             baseError.Code,
		Error:            baseError.Error,
		ErrorDescription: description,
	}
}

// InvalidState builds an invalid-state error echoing the current status, as
// the transition contract requires for diagnosability.
func InvalidState(format string, args ...any) *ServiceError {
	return CustomServiceError(InvalidStateError, fmt.Sprintf(format, args...))
}
