package game

// ValidationError marks a user-recoverable command failure. Its message is
// sent back to the owner as a single plain frame and never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}
