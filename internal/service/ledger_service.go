package service

import (
	"context"
	"crypto/subtle"
	"math/rand/v2"
	"strconv"

	"account-ledger/internal/core/domain"
	"account-ledger/internal/core/ports"
	"account-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LedgerServiceImpl implements ports.LedgerService. It owns the only
// mutable registry of accounts and is the sole writer of the store:
// every structural or balance change rewrites the whole table.
//
// The ledger serves exactly one interactive session at a time and must
// be driven from a single goroutine. Account numbers and PINs are drawn
// at random with no uniqueness check; a colliding number replaces the
// older entry.
type LedgerServiceImpl struct {
	store    ports.AccountStore
	accounts map[string]*domain.Account
	log      zerolog.Logger
}

// NewLedgerService loads the account table from the store. A store that
// does not exist yet yields an empty table; anything else that fails to
// load is a construction error.
func NewLedgerService(ctx context.Context, store ports.AccountStore, log zerolog.Logger) (*LedgerServiceImpl, error) {
	accounts, err := store.Load(ctx)
	if err != nil {
		return nil, apperror.ErrStoreFailure(err)
	}
	if accounts == nil {
		accounts = make(map[string]*domain.Account)
	}

	log.Info().Int("accounts", len(accounts)).Msg("account table loaded")

	return &LedgerServiceImpl{
		store:    store,
		accounts: accounts,
		log:      log,
	}, nil
}

// CreateAccount generates a fresh number/PIN pair, registers a zero
// balance account of the requested kind and persists the table. The
// returned credentials are the user's only copy.
func (s *LedgerServiceImpl) CreateAccount(ctx context.Context, kind domain.AccountKind) (*ports.Credentials, error) {
	number := strconv.Itoa(10000 + rand.IntN(90000))
	pin := strconv.Itoa(1000 + rand.IntN(9000))

	acct := domain.NewAccount(number, pin, domain.AccountKindFromToken(string(kind)), decimal.Zero)

	prev, collided := s.accounts[number]
	s.accounts[number] = acct
	if err := s.persist(ctx); err != nil {
		if collided {
			s.accounts[number] = prev
		} else {
			delete(s.accounts, number)
		}
		return nil, err
	}

	s.log.Info().
		Str("account", number).
		Str("kind", string(acct.Kind)).
		Msg("account created")

	return &ports.Credentials{Number: number, PIN: pin}, nil
}

// Authenticate looks up the account and compares the PIN. An unknown
// number and a wrong PIN both fail with the same error so a caller
// cannot probe which account numbers exist.
func (s *LedgerServiceImpl) Authenticate(ctx context.Context, number, pin string) (ports.Session, error) {
	acct, ok := s.accounts[number]
	if !ok || subtle.ConstantTimeCompare([]byte(acct.PIN), []byte(pin)) != 1 {
		return nil, apperror.ErrAuthenticationFailed()
	}

	sess := &session{
		id:     uuid.New(),
		ledger: s,
		acct:   acct,
	}

	s.log.Info().
		Str("session_id", sess.id.String()).
		Str("account", number).
		Msg("session opened")

	return sess, nil
}

// RemoveAccount deletes the account and persists the table.
func (s *LedgerServiceImpl) RemoveAccount(ctx context.Context, number string) error {
	acct, ok := s.accounts[number]
	if !ok {
		return apperror.ErrAccountNotFound()
	}

	delete(s.accounts, number)
	if err := s.persist(ctx); err != nil {
		s.accounts[number] = acct
		return err
	}

	s.log.Info().Str("account", number).Msg("account removed")
	return nil
}

// persist rewrites the durable store from the in-memory table. Callers
// undo their in-memory change when it fails, keeping table and store in
// step: a failed operation leaves no trace.
func (s *LedgerServiceImpl) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.accounts); err != nil {
		return apperror.ErrStoreFailure(err)
	}
	return nil
}

// session implements ports.Session for one authenticated account. The
// id exists only to correlate one login's operations in the logs.
type session struct {
	id     uuid.UUID
	ledger *LedgerServiceImpl
	acct   *domain.Account
}

func (s *session) Number() string           { return s.acct.Number }
func (s *session) Kind() domain.AccountKind { return s.acct.Kind }
func (s *session) Balance() decimal.Decimal { return s.acct.Balance }

// Deposit adds amount to the account and persists the table.
func (s *session) Deposit(ctx context.Context, amount decimal.Decimal) error {
	prev := s.acct.Balance
	if err := s.acct.Deposit(amount); err != nil {
		return err
	}
	if err := s.ledger.persist(ctx); err != nil {
		s.acct.Balance = prev
		return err
	}

	s.logOp("deposit applied", amount)
	return nil
}

// Withdraw removes amount from the account and persists the table.
func (s *session) Withdraw(ctx context.Context, amount decimal.Decimal) error {
	prev := s.acct.Balance
	if err := s.acct.Withdraw(amount); err != nil {
		return err
	}
	if err := s.ledger.persist(ctx); err != nil {
		s.acct.Balance = prev
		return err
	}

	s.logOp("withdrawal applied", amount)
	return nil
}

// Transfer moves amount to the account with receiverNumber and persists
// the table. Both balance changes land in one save; a failed save rolls
// both back.
func (s *session) Transfer(ctx context.Context, amount decimal.Decimal, receiverNumber string) error {
	receiver, ok := s.ledger.accounts[receiverNumber]
	if !ok {
		return apperror.ErrReceiverNotFound()
	}

	prevSender, prevReceiver := s.acct.Balance, receiver.Balance
	if err := s.acct.Transfer(amount, receiver); err != nil {
		return err
	}
	if err := s.ledger.persist(ctx); err != nil {
		s.acct.Balance, receiver.Balance = prevSender, prevReceiver
		return err
	}

	s.ledger.log.Info().
		Str("session_id", s.id.String()).
		Str("account", s.acct.Number).
		Str("receiver", receiverNumber).
		Str("amount", amount.String()).
		Msg("transfer applied")
	return nil
}

// Recharge pays amount to a mobile number and persists the table.
func (s *session) Recharge(ctx context.Context, phoneNumber string, amount decimal.Decimal) error {
	prev := s.acct.Balance
	if err := s.acct.Recharge(phoneNumber, amount); err != nil {
		return err
	}
	if err := s.ledger.persist(ctx); err != nil {
		s.acct.Balance = prev
		return err
	}

	s.ledger.log.Info().
		Str("session_id", s.id.String()).
		Str("account", s.acct.Number).
		Str("phone", phoneNumber).
		Str("amount", amount.String()).
		Msg("recharge applied")
	return nil
}

func (s *session) logOp(msg string, amount decimal.Decimal) {
	s.ledger.log.Info().
		Str("session_id", s.id.String()).
		Str("account", s.acct.Number).
		Str("amount", amount.String()).
		Str("balance", s.acct.Balance.String()).
		Msg(msg)
}
