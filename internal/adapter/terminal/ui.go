package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"account-ledger/internal/core/domain"
	"account-ledger/internal/core/ports"
	"account-ledger/pkg/apperror"

	"github.com/shopspring/decimal"
)

// UI is the interactive presentation layer: a line-oriented login menu
// and an authenticated dashboard on top of the ledger port. It owns
// stdout; every core error is printed and the loop continues, so no
// rejected operation ever ends the program.
type UI struct {
	ledger ports.LedgerService
	in     *bufio.Scanner
	out    io.Writer
}

// New creates a UI reading answers from in and writing to out.
func New(ledger ports.LedgerService, in io.Reader, out io.Writer) *UI {
	return &UI{
		ledger: ledger,
		in:     bufio.NewScanner(in),
		out:    out,
	}
}

// Run drives the login menu until the user quits or input ends.
func (u *UI) Run(ctx context.Context) error {
	for {
		u.printf("\n=== Account Ledger ===\n")
		u.printf("  1) Log in\n")
		u.printf("  2) Open personal account\n")
		u.printf("  3) Open business account\n")
		u.printf("  4) Quit\n")

		choice, ok := u.prompt("Choose an option: ")
		if !ok {
			return u.in.Err()
		}

		switch choice {
		case "1":
			u.login(ctx)
		case "2":
			u.openAccount(ctx, domain.AccountKindPersonal)
		case "3":
			u.openAccount(ctx, domain.AccountKindBusiness)
		case "4":
			u.printf("Goodbye.\n")
			return nil
		default:
			u.printf("Unknown option %q.\n", choice)
		}
	}
}

func (u *UI) openAccount(ctx context.Context, kind domain.AccountKind) {
	creds, err := u.ledger.CreateAccount(ctx, kind)
	if err != nil {
		u.printErr("Account creation failed", err)
		return
	}

	u.printf("Your new %s account is ready.\n", kind)
	u.printf("  Account number: %s\n", creds.Number)
	u.printf("  PIN:            %s\n", creds.PIN)
	u.printf("Keep these details safe; the PIN is not shown again.\n")
}

func (u *UI) login(ctx context.Context) {
	number, ok := u.prompt("Account number: ")
	if !ok {
		return
	}
	pin, ok := u.prompt("PIN: ")
	if !ok {
		return
	}

	sess, err := u.ledger.Authenticate(ctx, number, pin)
	if err != nil {
		u.printErr("Login failed", err)
		return
	}

	u.dashboard(ctx, sess)
}

// dashboard runs the authenticated menu until logout, account deletion
// or end of input.
func (u *UI) dashboard(ctx context.Context, sess ports.Session) {
	for {
		u.printf("\nAccount %s (%s), balance %s\n", sess.Number(), sess.Kind(), sess.Balance())
		u.printf("  1) Deposit\n")
		u.printf("  2) Withdraw\n")
		u.printf("  3) Transfer\n")
		u.printf("  4) Mobile recharge\n")
		u.printf("  5) Show balance\n")
		u.printf("  6) Delete account\n")
		u.printf("  7) Log out\n")

		choice, ok := u.prompt("Choose an option: ")
		if !ok {
			return
		}

		switch choice {
		case "1":
			u.deposit(ctx, sess)
		case "2":
			u.withdraw(ctx, sess)
		case "3":
			u.transfer(ctx, sess)
		case "4":
			u.recharge(ctx, sess)
		case "5":
			u.printf("Current balance: %s\n", sess.Balance())
		case "6":
			if u.deleteAccount(ctx, sess) {
				return
			}
		case "7":
			u.printf("Logged out.\n")
			return
		default:
			u.printf("Unknown option %q.\n", choice)
		}
	}
}

func (u *UI) deposit(ctx context.Context, sess ports.Session) {
	amount, ok := u.promptAmount("Deposit amount: ")
	if !ok {
		return
	}

	if err := sess.Deposit(ctx, amount); err != nil {
		u.printErr("Deposit failed", err)
		return
	}
	u.printf("Deposited %s. New balance: %s\n", amount, sess.Balance())
}

func (u *UI) withdraw(ctx context.Context, sess ports.Session) {
	amount, ok := u.promptAmount("Withdrawal amount: ")
	if !ok {
		return
	}

	if err := sess.Withdraw(ctx, amount); err != nil {
		u.printErr("Withdrawal failed", err)
		return
	}
	u.printf("Withdrew %s. New balance: %s\n", amount, sess.Balance())
}

func (u *UI) transfer(ctx context.Context, sess ports.Session) {
	receiver, ok := u.prompt("Receiver account number: ")
	if !ok {
		return
	}
	if receiver == sess.Number() {
		u.printf("Cannot transfer to your own account.\n")
		return
	}

	amount, ok := u.promptAmount("Transfer amount: ")
	if !ok {
		return
	}

	if err := sess.Transfer(ctx, amount, receiver); err != nil {
		u.printErr("Transfer failed", err)
		return
	}
	u.printf("Sent %s to account %s. New balance: %s\n", amount, receiver, sess.Balance())
}

func (u *UI) recharge(ctx context.Context, sess ports.Session) {
	phone, ok := u.prompt("Mobile number (10 digits): ")
	if !ok {
		return
	}

	amount, ok := u.promptAmount("Recharge amount: ")
	if !ok {
		return
	}

	if err := sess.Recharge(ctx, phone, amount); err != nil {
		u.printErr("Recharge failed", err)
		return
	}
	u.printf("Recharged %s for %s. New balance: %s\n", phone, amount, sess.Balance())
}

// deleteAccount reports true when the account is gone and the session
// must end.
func (u *UI) deleteAccount(ctx context.Context, sess ports.Session) bool {
	answer, ok := u.prompt("Delete this account permanently? (y/N): ")
	if !ok || !strings.EqualFold(answer, "y") {
		u.printf("Deletion cancelled.\n")
		return false
	}

	if err := u.ledger.RemoveAccount(ctx, sess.Number()); err != nil {
		u.printErr("Deletion failed", err)
		return false
	}
	u.printf("Account %s deleted.\n", sess.Number())
	return true
}

// prompt prints the message and reads one trimmed input line. ok is
// false when input has ended.
func (u *UI) prompt(message string) (string, bool) {
	u.printf("%s", message)
	if !u.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(u.in.Text()), true
}

// promptAmount reads a decimal amount. Non-numeric or non-positive
// input is rejected here, before it reaches the core.
func (u *UI) promptAmount(message string) (decimal.Decimal, bool) {
	raw, ok := u.prompt(message)
	if !ok {
		return decimal.Decimal{}, false
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil || amount.Sign() <= 0 {
		u.printf("Enter an amount greater than zero.\n")
		return decimal.Decimal{}, false
	}
	return amount, true
}

func (u *UI) printf(format string, args ...any) {
	fmt.Fprintf(u.out, format, args...)
}

// printErr shows the user-facing message of an AppError, or the bare
// error text for anything unexpected.
func (u *UI) printErr(prefix string, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		u.printf("%s: %s\n", prefix, appErr.Message)
		return
	}
	u.printf("%s: %v\n", prefix, err)
}
