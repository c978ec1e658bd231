package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/voixlab/portier/internal/repository"
)

type fakeTx struct {
	execCalls  []string
	failOnExec int // 1-based index of the Exec call that fails, 0 for none
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Begin(_ context.Context) (pgx.Tx, error) { return t, nil }

func (t *fakeTx) Commit(_ context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(_ context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

func (t *fakeTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	t.execCalls = append(t.execCalls, sql)
	if t.failOnExec == len(t.execCalls) {
		return pgconn.CommandTag{}, errors.New("forced write failure")
	}
	return pgconn.CommandTag{}, nil
}

func (t *fakeTx) CopyFrom(_ context.Context, _ pgx.Identifier, _ []string, _ pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *fakeTx) SendBatch(_ context.Context, _ *pgx.Batch) pgx.BatchResults { return nil }
func (t *fakeTx) LargeObjects() pgx.LargeObjects                             { return pgx.LargeObjects{} }
func (t *fakeTx) Prepare(_ context.Context, _, _ string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *fakeTx) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) { return nil, nil }
func (t *fakeTx) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row        { return nil }
func (t *fakeTx) Conn() *pgx.Conn                                               { return nil }

type fakeDatabase struct {
	tx       *fakeTx
	beginErr error
}

func (db *fakeDatabase) Begin(_ context.Context) (pgx.Tx, error) {
	if db.beginErr != nil {
		return nil, db.beginErr
	}
	return db.tx, nil
}

func (db *fakeDatabase) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected query")
}

func recordInput() repository.RecordSessionInput {
	return repository.RecordSessionInput{
		UserID:          "user-1",
		Username:        "alice",
		DurationSeconds: 1800,
		OccurredAt:      time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC),
	}
}

func TestRecordSession_CommitsBothWrites(t *testing.T) {
	tx := &fakeTx{}
	store := &PostgresStore{db: &fakeDatabase{tx: tx}}

	if err := store.RecordSession(context.Background(), recordInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tx.execCalls) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(tx.execCalls))
	}
	if !strings.Contains(tx.execCalls[0], "INSERT INTO users") {
		t.Fatalf("expected the user upsert first, got %q", tx.execCalls[0])
	}
	if !strings.Contains(tx.execCalls[1], "INSERT INTO voice_sessions") {
		t.Fatalf("expected the session append second, got %q", tx.execCalls[1])
	}
	if !tx.committed {
		t.Fatal("expected the transaction to commit")
	}
	if tx.rolledBack {
		t.Fatal("expected no rollback after commit")
	}
}

func TestRecordSession_SessionInsertFailureRollsBackUserUpsert(t *testing.T) {
	tx := &fakeTx{failOnExec: 2}
	store := &PostgresStore{db: &fakeDatabase{tx: tx}}

	err := store.RecordSession(context.Background(), recordInput())
	if err == nil {
		t.Fatal("expected error when the session insert fails")
	}
	if tx.committed {
		t.Fatal("expected no commit; the user upsert must not become visible")
	}
	if !tx.rolledBack {
		t.Fatal("expected the transaction to roll back")
	}
}

func TestRecordSession_UserUpsertFailure(t *testing.T) {
	tx := &fakeTx{failOnExec: 1}
	store := &PostgresStore{db: &fakeDatabase{tx: tx}}

	if err := store.RecordSession(context.Background(), recordInput()); err == nil {
		t.Fatal("expected error when the user upsert fails")
	}
	if tx.committed {
		t.Fatal("expected no commit")
	}
	if !tx.rolledBack {
		t.Fatal("expected the transaction to roll back")
	}
	if len(tx.execCalls) != 1 {
		t.Fatalf("expected the session append to be skipped, got %d writes", len(tx.execCalls))
	}
}

func TestRecordSession_BeginFailure(t *testing.T) {
	store := &PostgresStore{db: &fakeDatabase{beginErr: errors.New("pool exhausted")}}

	if err := store.RecordSession(context.Background(), recordInput()); err == nil {
		t.Fatal("expected error when the transaction cannot start")
	}
}

func TestTopUsers_UnknownPeriod(t *testing.T) {
	store := &PostgresStore{db: &fakeDatabase{}}

	if _, err := store.TopUsers(context.Background(), repository.Period("daily"), 10); err == nil {
		t.Fatal("expected error for an unknown period")
	}
}
