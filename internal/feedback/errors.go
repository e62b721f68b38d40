package feedback

import "fmt"

// ServiceError represents a failed call to the text-generation service
type ServiceError struct {
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("feedback service failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("feedback service failed: %s", e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}
