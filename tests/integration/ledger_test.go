package integration

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"account-ledger/internal/adapter/storage/flatfile"
	"account-ledger/internal/core/domain"
	"account-ledger/internal/service"
	"account-ledger/pkg/apperror"
	"account-ledger/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp builds the full application stack, ledger service over the real
// flat-file store, against a store file in a per-test temp dir. This
// exercises load, the business operations and the rewrite-on-mutation
// persistence end-to-end.

type testApp struct {
	ledger *service.LedgerServiceImpl
	path   string
}

func newTestApp(t *testing.T, records string) *testApp {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data.txt")
	if records != "" {
		require.NoError(t, os.WriteFile(path, []byte(records), 0o644))
	}

	return &testApp{
		ledger: openLedger(t, path),
		path:   path,
	}
}

// restart opens a second ledger over the same store file, the way a new
// process run would.
func (a *testApp) restart(t *testing.T) *service.LedgerServiceImpl {
	t.Helper()
	return openLedger(t, a.path)
}

func openLedger(t *testing.T, path string) *service.LedgerServiceImpl {
	t.Helper()

	log := logger.NewWithWriter("error", io.Discard)
	ledger, err := service.NewLedgerService(context.Background(), flatfile.New(path), log)
	require.NoError(t, err)
	return ledger
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()

	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok, "expected *apperror.AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

// --- Integration Tests ---

func TestIntegration_OperationScenario(t *testing.T) {
	app := newTestApp(t, "11111,1111,personal,1000\n22222,2222,business,500\n")
	ctx := context.Background()

	sender, err := app.ledger.Authenticate(ctx, "11111", "1111")
	require.NoError(t, err)
	receiver, err := app.ledger.Authenticate(ctx, "22222", "2222")
	require.NoError(t, err)

	// Transfer 200 moves the money between the two live sessions.
	require.NoError(t, sender.Transfer(ctx, decimal.NewFromInt(200), "22222"))
	assert.True(t, decimal.NewFromInt(800).Equal(sender.Balance()))
	assert.True(t, decimal.NewFromInt(700).Equal(receiver.Balance()))

	// Overdrawing fails and leaves the balance untouched.
	err = receiver.Withdraw(ctx, decimal.NewFromInt(10000))
	assertAppError(t, err, "ACC_002")
	assert.True(t, decimal.NewFromInt(700).Equal(receiver.Balance()))

	// A valid recharge deducts from the payer.
	require.NoError(t, sender.Recharge(ctx, "1234567890", decimal.NewFromInt(100)))
	assert.True(t, decimal.NewFromInt(700).Equal(sender.Balance()))

	// A malformed phone number fails before any money moves.
	err = sender.Recharge(ctx, "123", decimal.NewFromInt(50))
	assertAppError(t, err, "ACC_003")
	assert.True(t, decimal.NewFromInt(700).Equal(sender.Balance()))

	// A restart reads the mutated balances back from the file.
	reloaded := app.restart(t)
	sender2, err := reloaded.Authenticate(ctx, "11111", "1111")
	require.NoError(t, err)
	receiver2, err := reloaded.Authenticate(ctx, "22222", "2222")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(700).Equal(sender2.Balance()))
	assert.True(t, decimal.NewFromInt(700).Equal(receiver2.Balance()))
}

func TestIntegration_CreateAccountSurvivesRestart(t *testing.T) {
	app := newTestApp(t, "")
	ctx := context.Background()

	creds, err := app.ledger.CreateAccount(ctx, domain.AccountKindPersonal)
	require.NoError(t, err)

	sess, err := app.ledger.Authenticate(ctx, creds.Number, creds.PIN)
	require.NoError(t, err)
	require.NoError(t, sess.Deposit(ctx, decimal.NewFromInt(250)))

	reloaded := app.restart(t)
	sess2, err := reloaded.Authenticate(ctx, creds.Number, creds.PIN)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountKindPersonal, sess2.Kind())
	assert.True(t, decimal.NewFromInt(250).Equal(sess2.Balance()))
}

func TestIntegration_RemoveAccountSurvivesRestart(t *testing.T) {
	app := newTestApp(t, "11111,1111,personal,1000\n22222,2222,business,500\n")
	ctx := context.Background()

	require.NoError(t, app.ledger.RemoveAccount(ctx, "11111"))

	reloaded := app.restart(t)
	_, err := reloaded.Authenticate(ctx, "11111", "1111")
	assertAppError(t, err, "AUTH_001")

	// The other account is untouched.
	sess, err := reloaded.Authenticate(ctx, "22222", "2222")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(500).Equal(sess.Balance()))
}

func TestIntegration_MissingStoreStartsEmpty(t *testing.T) {
	app := newTestApp(t, "")
	ctx := context.Background()

	// No file yet: the ledger starts empty rather than failing.
	_, err := os.Stat(app.path)
	require.True(t, os.IsNotExist(err))

	_, err = app.ledger.Authenticate(ctx, "11111", "1111")
	assertAppError(t, err, "AUTH_001")

	// The first account brings the file into being.
	_, err = app.ledger.CreateAccount(ctx, domain.AccountKindBusiness)
	require.NoError(t, err)

	_, err = os.Stat(app.path)
	require.NoError(t, err)
}

func TestIntegration_UnwritableStoreRejectsMutations(t *testing.T) {
	// A store path under a directory that does not exist loads as empty
	// but cannot be written, so every mutation fails as a store failure.
	path := filepath.Join(t.TempDir(), "gone", "data.txt")
	ledger := openLedger(t, path)
	ctx := context.Background()

	creds, err := ledger.CreateAccount(ctx, domain.AccountKindPersonal)
	assert.Nil(t, creds)
	assertAppError(t, err, "SYS_001")

	// The failed create left nothing behind to log in to.
	_, err = ledger.Authenticate(ctx, "11111", "1111")
	assertAppError(t, err, "AUTH_001")
}

func TestIntegration_DepositVisibleToLaterLogin(t *testing.T) {
	app := newTestApp(t, "11111,1111,personal,1000\n")
	ctx := context.Background()

	sess, err := app.ledger.Authenticate(ctx, "11111", "1111")
	require.NoError(t, err)
	require.NoError(t, sess.Deposit(ctx, decimal.NewFromInt(42)))

	// A later login against the same ledger sees the new balance.
	again, err := app.ledger.Authenticate(ctx, "11111", "1111")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1042).Equal(again.Balance()))
}
