package ports

import (
	"context"

	"account-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// LedgerService owns the account table: it creates, authenticates and
// removes accounts, and persists the table after every change.
type LedgerService interface {
	CreateAccount(ctx context.Context, kind domain.AccountKind) (*Credentials, error)
	Authenticate(ctx context.Context, number, pin string) (Session, error)
	RemoveAccount(ctx context.Context, number string) error
}

// Credentials holds the generated login pair for a new account.
// The PIN is plaintext, shown only once at creation.
type Credentials struct {
	Number string
	PIN    string
}

// Session is an authenticated handle to one account, valid from login
// until logout. Every mutating operation either persists the change or
// fails leaving balance and store untouched.
type Session interface {
	Number() string
	Kind() domain.AccountKind
	Balance() decimal.Decimal

	Deposit(ctx context.Context, amount decimal.Decimal) error
	Withdraw(ctx context.Context, amount decimal.Decimal) error
	Transfer(ctx context.Context, amount decimal.Decimal, receiverNumber string) error
	Recharge(ctx context.Context, phoneNumber string, amount decimal.Decimal) error
}
