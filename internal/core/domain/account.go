package domain

import (
	"regexp"

	"github.com/shopspring/decimal"

	"account-ledger/pkg/apperror"
)

// AccountKind tags an account as personal or business. The two kinds share
// all behavior today; the tag is carried for display and persistence only.
type AccountKind string

const (
	AccountKindPersonal AccountKind = "personal"
	AccountKindBusiness AccountKind = "business"
)

// AccountKindFromToken maps a stored kind token to an AccountKind.
// Unrecognized tokens fall back to business, so tables written by older
// versions keep loading.
func AccountKindFromToken(token string) AccountKind {
	if token == string(AccountKindPersonal) {
		return AccountKindPersonal
	}
	return AccountKindBusiness
}

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// Account is one customer's balance record, keyed by account number.
// Balance never goes negative: every mutating operation either keeps that
// invariant or fails without touching state.
type Account struct {
	Number  string          `json:"number"`
	PIN     string          `json:"-"` // Never expose
	Kind    AccountKind     `json:"kind"`
	Balance decimal.Decimal `json:"balance"`
}

// NewAccount builds an account either freshly created by the ledger or
// reconstructed from the store.
func NewAccount(number, pin string, kind AccountKind, balance decimal.Decimal) *Account {
	return &Account{
		Number:  number,
		PIN:     pin,
		Kind:    kind,
		Balance: balance,
	}
}

// Deposit adds amount to the balance. The amount must be positive.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return apperror.ErrInvalidAmount()
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}

// Withdraw removes amount from the balance. It fails only when amount
// exceeds the balance; it does not require a positive amount.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if amount.GreaterThan(a.Balance) {
		return apperror.ErrInsufficientFunds()
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// Transfer moves amount from this account into receiver. Both sides are
// validated before either balance changes, so a failed transfer never
// leaves money half-moved.
func (a *Account) Transfer(amount decimal.Decimal, receiver *Account) error {
	if amount.GreaterThan(a.Balance) {
		return apperror.ErrTransferFailed()
	}
	if amount.Sign() <= 0 {
		return apperror.ErrInvalidAmount()
	}
	a.Balance = a.Balance.Sub(amount)
	receiver.Balance = receiver.Balance.Add(amount)
	return nil
}

// Recharge pays amount to a mobile number out of the balance. The phone
// number must be exactly 10 digits; the format check runs before the
// balance check.
func (a *Account) Recharge(phoneNumber string, amount decimal.Decimal) error {
	if !phonePattern.MatchString(phoneNumber) {
		return apperror.ErrInvalidPhoneNumber()
	}
	if amount.GreaterThan(a.Balance) {
		return apperror.ErrInsufficientFunds()
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}
