// Package errors contains the application error categories shared by the
// services and the HTTP layer.
package errors

import (
	"errors"
	"net/http"

	"github.com/chainsafe/ksef-middleware/pkg/ksef"
)

// Category defines error category
type Category int

const (
	// CategoryNoError marks a successful call.
	CategoryNoError Category = iota
	// CategoryDataError the client sent invalid data in the request body or parameters.
	CategoryDataError
	// CategoryUnauthorized the caller is not authenticated.
	CategoryUnauthorized
	// CategoryForbidden the caller may not access the resource.
	CategoryForbidden
	// CategoryResourceNotFound the requested record does not exist.
	CategoryResourceNotFound
	// CategoryDataConflict the request conflicts with the current state of a record.
	CategoryDataConflict
	// CategoryRateLimited KSeF asked us to back off.
	CategoryRateLimited
	// CategoryDependencyFailure KSeF or the database failed.
	CategoryDependencyFailure
	// CategoryGeneralError the service failed in an unexpected way.
	CategoryGeneralError
	// CategoryConnectionTimeout a call to KSeF timed out.
	CategoryConnectionTimeout
)

func (c Category) String() string {
	switch c {
	case CategoryDataError:
		return "CategoryDataError"
	case CategoryUnauthorized:
		return "CategoryUnauthorized"
	case CategoryForbidden:
		return "CategoryForbidden"
	case CategoryResourceNotFound:
		return "CategoryResourceNotFound"
	case CategoryDataConflict:
		return "CategoryDataConflict"
	case CategoryRateLimited:
		return "CategoryRateLimited"
	case CategoryDependencyFailure:
		return "CategoryDependencyFailure"
	case CategoryConnectionTimeout:
		return "CategoryConnectionTimeout"
	default:
		return "CategoryGeneralError"
	}
}

// ServiceError is the error type returned by services to the HTTP layer.
// Message is shown to the caller; Err is only logged.
type ServiceError struct {
	Category Category
	Message  string
	Err      error
}

// Error method to comply with error interface
func (err ServiceError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	return err.Message
}

// Unwrap returns the underlying error
func (err ServiceError) Unwrap() error {
	return err.Err
}

// Is checks that provided error is a ServiceError with desired Category
func Is(err error, cat Category) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Category == cat
}

// IsInternalError reports whether err should be treated as a server side failure.
func IsInternalError(err error) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) && svcErr.Category < CategoryDependencyFailure {
		return false
	}
	return true
}

func newError(cat Category, err error, message, fallback string) error {
	if err == nil {
		err = errors.New(fallback + ": " + message)
	}
	return &ServiceError{Category: cat, Message: message, Err: err}
}

// GeneralError hides err behind "Internal Server Error".
func GeneralError(err error) error {
	if err == nil {
		err = errors.New("internal server error")
	}
	return &ServiceError{
		Category: CategoryGeneralError,
		Message:  "Internal Server Error",
		Err:      err,
	}
}

// ResourceNotFoundError returns an error with category ResourceNotFound
func ResourceNotFoundError(err error, message string) error {
	return newError(CategoryResourceNotFound, err, message, "resource not found")
}

// BadRequestError returns an error with category DataError
func BadRequestError(err error, message string) error {
	return newError(CategoryDataError, err, message, "bad request")
}

// ConflictError returns an error with category DataConflict
func ConflictError(err error, message string) error {
	return newError(CategoryDataConflict, err, message, "conflict")
}

// UnAuthorizedError returns an error with category Unauthorized
func UnAuthorizedError(err error, message string) error {
	return newError(CategoryUnauthorized, err, message, "unauthorized")
}

// FromKSeF maps a KSeF failure onto an application category.
func FromKSeF(kerr *ksef.Error) error {
	if kerr == nil {
		return nil
	}
	msg := kerr.Message
	if msg == "" {
		msg = kerr.Kind.String()
	}
	switch kerr.Kind {
	case ksef.KindValidation:
		return &ServiceError{Category: CategoryDataError, Message: msg, Err: kerr}
	case ksef.KindAlreadyInProgress, ksef.KindAlreadyAccepted:
		return &ServiceError{Category: CategoryDataConflict, Message: msg, Err: kerr}
	case ksef.KindRateLimited:
		return &ServiceError{Category: CategoryRateLimited, Message: msg, Err: kerr}
	case ksef.KindTimeout:
		return &ServiceError{Category: CategoryConnectionTimeout, Message: msg, Err: kerr}
	default:
		return &ServiceError{Category: CategoryDependencyFailure, Message: msg, Err: kerr}
	}
}

// StatusCode returns the HTTP status code for the error category
func (err ServiceError) StatusCode() int {
	switch err.Category {
	case CategoryDataError:
		return http.StatusBadRequest
	case CategoryUnauthorized:
		return http.StatusUnauthorized
	case CategoryForbidden:
		return http.StatusForbidden
	case CategoryResourceNotFound:
		return http.StatusNotFound
	case CategoryDataConflict:
		return http.StatusConflict
	case CategoryRateLimited:
		return http.StatusTooManyRequests
	case CategoryDependencyFailure:
		return http.StatusBadGateway
	case CategoryConnectionTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
