package types

// Machine-readable error codes carried by DatabaseError. The HTTP layer
// maps these to status codes without inspecting store internals.
const (
	CodeConnection            = "CONNECTION_ERROR"
	CodeNotInitialized        = "NOT_INITIALIZED"
	CodeSchemaValidation      = "SCHEMA_VALIDATION_ERROR"
	CodeValidation            = "VALIDATION_ERROR"
	CodeNotFound              = "NOT_FOUND"
	CodeForbidden             = "FORBIDDEN"
	CodePreconditionFailed    = "PRECONDITION_FAILED"
	CodeTransaction           = "TRANSACTION_ERROR"
	CodeTransactionNotStarted = "TRANSACTION_NOT_STARTED"
	CodeTransactionRolledBack = "TRANSACTION_ROLLED_BACK"
	CodeDatabase              = "DATABASE_ERROR"
)

// DatabaseError is the base error for all store failures. Code identifies
// the failure class; Err holds the underlying cause, if any.
type DatabaseError struct {
	Code    string
	Message string
	Err     error
}

func (e *DatabaseError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// Is matches any DatabaseError with the same code, so
// errors.Is(err, ErrNotFound) works on wrapped errors.
func (e *DatabaseError) Is(target error) bool {
	t, ok := target.(*DatabaseError)
	return ok && t.Code == e.Code
}

// Sentinel errors for each failure class. Repositories wrap these with
// context via fmt.Errorf("...: %w", ...).
var (
	ErrConnection            = &DatabaseError{Code: CodeConnection, Message: "cannot open the store"}
	ErrNotInitialized        = &DatabaseError{Code: CodeNotInitialized, Message: "store is not initialized"}
	ErrSchemaValidation      = &DatabaseError{Code: CodeSchemaValidation, Message: "schema validation failed"}
	ErrValidation            = &DatabaseError{Code: CodeValidation, Message: "validation failed"}
	ErrNotFound              = &DatabaseError{Code: CodeNotFound, Message: "entity not found"}
	ErrForbidden             = &DatabaseError{Code: CodeForbidden, Message: "caller does not own the entity"}
	ErrPreconditionFailed    = &DatabaseError{Code: CodePreconditionFailed, Message: "precondition failed"}
	ErrTransaction           = &DatabaseError{Code: CodeTransaction, Message: "transaction failed and was rolled back"}
	ErrTransactionNotStarted = &DatabaseError{Code: CodeTransactionNotStarted, Message: "transaction not started"}
	ErrTransactionRolledBack = &DatabaseError{Code: CodeTransactionRolledBack, Message: "transaction rolled back"}
	ErrDatabase              = &DatabaseError{Code: CodeDatabase, Message: "database operation failed"}
)

// ErrorCode returns the machine-readable code of err, or CodeDatabase if
// err is not a DatabaseError.
func ErrorCode(err error) string {
	for e := err; e != nil; {
		if de, ok := e.(*DatabaseError); ok {
			return de.Code
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	return CodeDatabase
}
