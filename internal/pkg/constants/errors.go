package constants

import "net/http"

// CodedError is an error with an attached HTTP status code.
type CodedError struct {
	msg  string
	code int
}

func NewCodedError(msg string, code int) *CodedError {
	return &CodedError{msg: msg, code: code}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrDBNotFound        = NewCodedError("not found in db", http.StatusNotFound)
	ErrNoOffers          = NewCodedError("no local price entries", http.StatusNotFound)
	ErrInvalidInput      = NewCodedError("invalid input", http.StatusBadRequest)
	ErrStoreUnavailable  = NewCodedError("offer store unavailable", http.StatusServiceUnavailable)
	ErrModelUnavailable  = NewCodedError("classification model unavailable", http.StatusServiceUnavailable)
	ErrUnsupportedDBType = NewCodedError("unsupported db url", http.StatusInternalServerError)
)
