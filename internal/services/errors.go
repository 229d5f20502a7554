// Package services provides the business logic layer between handlers and
// the analytics core. Services encapsulate feature gating, caching, and
// orchestration across the analysis packages.
package services

// Service error codes
const (
	CodeNotInitialized   = "SERVICE_NOT_INITIALIZED"
	CodeFeatureDisabled  = "FEATURE_DISABLED"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeComputationError = "COMPUTATION_FAILED"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// ErrNotInitialized reports that Initialize has not completed
func ErrNotInitialized() *ServiceError {
	return NewServiceError(CodeNotInitialized, "analytics service is not initialized")
}

// ErrFeatureDisabled reports that a feature flag gates the operation
func ErrFeatureDisabled(feature string) *ServiceError {
	return NewServiceErrorWithDetails(CodeFeatureDisabled,
		"feature is disabled by configuration",
		map[string]interface{}{"feature": feature})
}

// ErrInsufficientData reports that too few readings exist for the operation
func ErrInsufficientData(message string, details map[string]interface{}) *ServiceError {
	return NewServiceErrorWithDetails(CodeInsufficientData, message, details)
}

// ErrComputation wraps a failure inside the analytics core
func ErrComputation(message string, err error) *ServiceError {
	return NewServiceErrorWithDetails(CodeComputationError, message,
		map[string]interface{}{"error": err.Error()})
}
