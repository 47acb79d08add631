package schema

import "fmt"

// Error codes for structured error reporting.
const (
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeScanWarning          = "SCAN_WARNING"
	ErrCodeScanFatal            = "SCAN_FATAL"
	ErrCodeLoadFailed           = "LOAD_FAILED"
	ErrCodePartialActivation    = "ACTIVATION_PARTIAL_FAILURE"
	ErrCodeRegistrationConflict = "REGISTRATION_CONFLICT"
	ErrCodeRegistrationFailed   = "REGISTRATION_FAILED"
	ErrCodeCapabilityMissing    = "CLASSIFIER_CAPABILITY_MISSING"
	ErrCodeClassifierParse      = "CLASSIFIER_PARSE_FAILURE"
	ErrCodeCompletionFailed     = "COMPLETION_FAILED"
	ErrCodeExecution            = "EXECUTION_ERROR"
	ErrCodeTimeout              = "TIMEOUT_ERROR"
	ErrCodeStore                = "STORE_ERROR"
)

// PluginError is the structured error type for the plugin runtime.
type PluginError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	WorkflowID string         `json:"workflow_id,omitempty"`
	Cause      error          `json:"-"`
}

func (e *PluginError) Error() string {
	if e.WorkflowID != "" {
		return fmt.Sprintf("[%s] workflow %s: %s", e.Code, e.WorkflowID, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *PluginError) Unwrap() error {
	return e.Cause
}

// NewError creates a new PluginError.
func NewError(code, message string) *PluginError {
	return &PluginError{Code: code, Message: message}
}

// NewErrorf creates a new PluginError with a formatted message.
func NewErrorf(code, format string, args ...any) *PluginError {
	return &PluginError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithWorkflow attaches a workflow ID to the error.
func (e *PluginError) WithWorkflow(id string) *PluginError {
	e.WorkflowID = id
	return e
}

// WithCause attaches an underlying cause.
func (e *PluginError) WithCause(err error) *PluginError {
	e.Cause = err
	return e
}

// WithDetails attaches key-value details.
func (e *PluginError) WithDetails(details map[string]any) *PluginError {
	e.Details = details
	return e
}

// IsCode reports whether err is a PluginError carrying the given code.
func IsCode(err error, code string) bool {
	for err != nil {
		if pe, ok := err.(*PluginError); ok && pe.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
