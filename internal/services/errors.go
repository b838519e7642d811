package services

// ServiceError carries an HTTP status and a stable machine-readable code so
// handlers can surface domain failures verbatim.
type ServiceError struct {
	Status  int
	Code    string
	Message string
}

func (e ServiceError) Error() string {
	return e.Message
}

func ErrUnauthenticated(msg string) error {
	return ServiceError{Status: 401, Code: "UNAUTHENTICATED", Message: msg}
}

func ErrForbidden(msg string) error {
	return ServiceError{Status: 403, Code: "FORBIDDEN", Message: msg}
}

func ErrNotFound(msg string) error {
	return ServiceError{Status: 404, Code: "NOT_FOUND", Message: msg}
}

func ErrConflict(msg string) error {
	return ServiceError{Status: 409, Code: "CONFLICT", Message: msg}
}

func ErrNotAvailable(msg string) error {
	return ServiceError{Status: 409, Code: "NOT_AVAILABLE", Message: msg}
}

func ErrNotEnrolled(msg string) error {
	return ServiceError{Status: 403, Code: "NOT_ENROLLED", Message: msg}
}

func ErrPublishBlocked(msg string) error {
	return ServiceError{Status: 422, Code: "PUBLISH_BLOCKED", Message: msg}
}

func ErrBadRequest(msg string) error {
	return ServiceError{Status: 400, Code: "BAD_REQUEST", Message: msg}
}
