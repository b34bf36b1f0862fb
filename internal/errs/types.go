package errs

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type AlreadyExistsError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

type NotAuthenticatedError struct {
	ErrorMessage
}

type NotAuthorizedError struct {
	ErrorMessage
}

type DatabaseError struct {
	ErrorMessage
	Operation string
	Cause     error
}

type ExternalServiceError struct {
	ErrorMessage
	Service   string
	Transient bool
	Cause     error
}

type EncryptionError struct {
	ErrorMessage
	Cause error
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewAlreadyExistsError(message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewNotAuthenticatedError() *NotAuthenticatedError {
	return &NotAuthenticatedError{
		ErrorMessage: ErrorMessage{Message: "Not authenticated"},
	}
}

func NewNotAuthorizedError() *NotAuthorizedError {
	return &NotAuthorizedError{
		ErrorMessage: ErrorMessage{Message: "Not authorized"},
	}
}

func NewDatabaseError(operation, message string, cause error) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
		Cause:        cause,
	}
}

func NewExternalServiceError(service, message string, transient bool, cause error) *ExternalServiceError {
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: message},
		Service:      service,
		Transient:    transient,
		Cause:        cause,
	}
}

func NewEncryptionError(message string, cause error) *EncryptionError {
	return &EncryptionError{
		ErrorMessage: ErrorMessage{Message: message},
		Cause:        cause,
	}
}
