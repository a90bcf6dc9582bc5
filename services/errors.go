package services

import "fmt"

// ErrorType represents the type/category of error. Each pipeline stage maps
// to exactly one type so a failure can be attributed even though the HTTP
// surface collapses everything to a single generic error.
type ErrorType string

const (
	ErrorTypeUnknownTenant ErrorType = "unknown_tenant"
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeRetrieval     ErrorType = "retrieval"
	ErrorTypeGeneration    ErrorType = "generation"
	ErrorTypePersistence   ErrorType = "persistence"
	ErrorTypeInternal      ErrorType = "internal"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is: two DomainErrors match when their types match.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Domain error variables

var (
	ErrUnknownTenant = NewDomainError(ErrorTypeUnknownTenant, "unknown tenant", nil)

	ErrEmptyQuestion = NewDomainError(ErrorTypeValidation, "question cannot be empty", nil)
	ErrInvalidTopK   = NewDomainError(ErrorTypeValidation, "top-k must be positive", nil)

	ErrRetrievalFailed = NewDomainError(ErrorTypeRetrieval, "retrieval failed", nil)
	ErrEmbeddingFailed = NewDomainError(ErrorTypeRetrieval, "embedding request failed", nil)

	ErrGenerationFailed = NewDomainError(ErrorTypeGeneration, "generation failed", nil)
	ErrEmptyCompletion  = NewDomainError(ErrorTypeGeneration, "provider returned an empty completion", nil)

	ErrPersistenceFailed = NewDomainError(ErrorTypePersistence, "history write failed", nil)
	ErrHistoryNotFound   = NewDomainError(ErrorTypePersistence, "history record not found", nil)
)

// TypeOf extracts the ErrorType from an error chain, defaulting to internal.
func TypeOf(err error) ErrorType {
	for err != nil {
		if de, ok := err.(*DomainError); ok {
			return de.Type
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return ErrorTypeInternal
}
