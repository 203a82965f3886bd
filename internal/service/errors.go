package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a prayer-times request failed
type ErrorKind int

const (
	ErrorKindInputMissing ErrorKind = iota
	ErrorKindLocationNotFound
	ErrorKindCoordinatesUnresolved
	ErrorKindTimezoneUnresolved
	ErrorKindUnexpected
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindInputMissing:
		return "input_missing"
	case ErrorKindLocationNotFound:
		return "location_not_found"
	case ErrorKindCoordinatesUnresolved:
		return "coordinates_unresolved"
	case ErrorKindTimezoneUnresolved:
		return "timezone_unresolved"
	default:
		return "unexpected"
	}
}

// IsClientError reports whether the kind is caused by the request rather
// than by the service
func (k ErrorKind) IsClientError() bool {
	return k != ErrorKindUnexpected
}

// ServiceError represents a service-specific error with kind information.
// Description is safe to show to the caller.
type ServiceError struct {
	Kind        ErrorKind
	Message     string
	Description string
	Cause       error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// KindOf returns the kind of err, ErrorKindUnexpected for anything that is
// not a ServiceError
func KindOf(err error) ErrorKind {
	var serviceError *ServiceError
	if errors.As(err, &serviceError) {
		return serviceError.Kind
	}
	return ErrorKindUnexpected
}

func inputMissing() *ServiceError {
	return &ServiceError{
		Kind:        ErrorKindInputMissing,
		Message:     "No location provided",
		Description: "Provide a location in the path, e.g. /prayer-times/London, or with the q query parameter.",
	}
}

func locationNotFound(query string, cause error) *ServiceError {
	return &ServiceError{
		Kind:        ErrorKindLocationNotFound,
		Message:     "Location not found",
		Description: fmt.Sprintf("No geocoding match for %q.", query),
		Cause:       cause,
	}
}

func coordinatesUnresolved(query string) *ServiceError {
	return &ServiceError{
		Kind:        ErrorKindCoordinatesUnresolved,
		Message:     "Could not resolve coordinates",
		Description: fmt.Sprintf("The match for %q has no usable latitude and longitude.", query),
	}
}

func timezoneUnresolved(lat, lon float64) *ServiceError {
	return &ServiceError{
		Kind:        ErrorKindTimezoneUnresolved,
		Message:     "Could not resolve timezone",
		Description: fmt.Sprintf("No timezone found for %.4f, %.4f.", lat, lon),
	}
}

func unexpected(message string, cause error) *ServiceError {
	return &ServiceError{
		Kind:    ErrorKindUnexpected,
		Message: message,
		Cause:   cause,
	}
}
