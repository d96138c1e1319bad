package flatfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"account-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// recordFields is the fixed layout of one store line:
// <number>,<pin>,<kind>,<balance>
const recordFields = 4

// Store implements ports.AccountStore on a plain text file with one
// comma-separated record per line. The format carries no escaping, so
// field values must never contain commas or newlines; digit-string
// numbers, PINs and decimal balances never do.
type Store struct {
	path string
}

// New creates a Store backed by the file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the whole account table. A missing file is an empty
// table. A record with the wrong field count or an unparseable balance
// fails the load; an unrecognized kind token does not, it loads as
// business, so files written by older versions keep loading.
func (s *Store) Load(ctx context.Context) (map[string]*domain.Account, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]*domain.Account), nil
		}
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer f.Close()

	accounts := make(map[string]*domain.Account)
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Split(strings.TrimSpace(scanner.Text()), ",")
		if len(fields) != recordFields {
			return nil, fmt.Errorf("record %d: expected %d fields, got %d", line, recordFields, len(fields))
		}

		balance, err := decimal.NewFromString(fields[3])
		if err != nil {
			return nil, fmt.Errorf("record %d: parse balance: %w", line, err)
		}

		number := fields[0]
		accounts[number] = domain.NewAccount(number, fields[1], domain.AccountKindFromToken(fields[2]), balance)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}

	return accounts, nil
}

// Save rewrites the store from the complete table. Records go out in
// ascending number order so identical tables produce identical files.
// The write lands in a temp file that then replaces the store in one
// rename, so an interrupted save cannot corrupt the previous table.
func (s *Store) Save(ctx context.Context, accounts map[string]*domain.Account) error {
	numbers := make([]string, 0, len(accounts))
	for number := range accounts {
		numbers = append(numbers, number)
	}
	sort.Strings(numbers)

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, number := range numbers {
		acct := accounts[number]
		fmt.Fprintf(w, "%s,%s,%s,%s\n", acct.Number, acct.PIN, acct.Kind, acct.Balance.String())
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write store: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp store: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}
