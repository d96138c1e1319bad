package apperror

import "fmt"

// AppError is a structured error carrying a stable code for each
// rejected-operation kind. Every failure in the core is one of these:
// ordinary, non-fatal, and safe to show to the user.
type AppError struct {
	Code    string
	Message string
	Err     error // Wrapped internal error (store I/O etc.), not shown to the user
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ---- Account Rules (ACC) ----

func ErrInvalidAmount() *AppError {
	return New("ACC_001", "Amount must be more than zero")
}

func ErrInsufficientFunds() *AppError {
	return New("ACC_002", "Not enough balance")
}

func ErrInvalidPhoneNumber() *AppError {
	return New("ACC_003", "Phone number must be 10 digits")
}

// ---- Transfers (TRF) ----

func ErrTransferFailed() *AppError {
	return New("TRF_001", "Not enough funds to send")
}

func ErrReceiverNotFound() *AppError {
	return New("TRF_002", "Receiver account not found")
}

// ---- Authentication (AUTH) ----

func ErrAuthenticationFailed() *AppError {
	return New("AUTH_001", "Incorrect login details")
}

// ---- Ledger Registry (LED) ----

func ErrAccountNotFound() *AppError {
	return New("LED_001", "Account not found")
}

// ---- System & Storage (SYS) ----

func ErrStoreFailure(err error) *AppError {
	return Wrap("SYS_001", "Account store failure", err)
}
