package custom_error

import "fmt"

type CustomError interface {
	Error() string
}

// UniqueViolationError marks a PostgreSQL 23505, e.g. a duplicate product
// code or a second production route for the same final product.
type UniqueViolationError struct {
	message string
	code    string
}

// ForeignKeyViolationError marks a PostgreSQL 23503, e.g. deleting a product
// that is still referenced by a production route input.
type ForeignKeyViolationError struct {
	message string
	code    string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

func (f *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", f.message, f.code)
}

// WrapDBError classifies a database error by its PostgreSQL error code so
// handlers can map it to a meaningful HTTP status.
func WrapDBError(message, code string) CustomError {
	switch code {
	case "23505":
		return &UniqueViolationError{
			message: message,
			code:    code,
		}
	case "23503":
		return &ForeignKeyViolationError{
			message: "value is still referenced by other records: " + message,
			code:    code,
		}
	default:
		return fmt.Errorf("uncategorized error occurred with code %s: %s", code, message)
	}
}
