package constants

import "net/http"

// CodedError carries the HTTP status the api layer should answer with.
type CodedError struct {
	code int
	msg  string
}

func NewCodedError(code int, msg string) *CodedError {
	return &CodedError{code: code, msg: msg}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrDBNotFound          = NewCodedError(http.StatusNotFound, "not found")
	ErrSessionNotFound     = NewCodedError(http.StatusNotFound, "wizard session not found")
	ErrUnknownTemplate     = NewCodedError(http.StatusBadRequest, "unknown mapping template")
	ErrUnknownMappedThing  = NewCodedError(http.StatusBadRequest, "unknown mapped thing")
	ErrInvalidMappingVal   = NewCodedError(http.StatusUnprocessableEntity, "invalid mapping value")
	ErrThingNotInTemplate  = NewCodedError(http.StatusUnprocessableEntity, "mapped thing is not part of the template")
	ErrMalformedAttribute  = NewCodedError(http.StatusUnprocessableEntity, "malformed page attribute")
	ErrEmptyCsv            = NewCodedError(http.StatusBadRequest, "csv file is empty")
	ErrIncompleteMapping   = NewCodedError(http.StatusUnprocessableEntity, "mapping is incomplete")
	ErrUnauthorized        = NewCodedError(http.StatusUnauthorized, "unauthorized")
	ErrMissingSessionToken = NewCodedError(http.StatusUnauthorized, "missing session token")
)
