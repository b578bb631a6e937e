package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spaceshare-backend/internal/domain"
)

func TestJournalRepository_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewJournalRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		entry := &domain.JournalEntry{
			ID:           "9e8b5a1c-0000-0000-0000-000000000001",
			Type:         domain.EntryTypeRental,
			Actor:        "bob",
			Counterparty: "alice",
			Hours:        5,
			Amount:       -525,
			Commission:   25,
			Description:  "rented 5 hours from alice",
			RecordedAt:   time.Now(),
		}

		mock.ExpectExec("INSERT INTO journal_entries").
			WithArgs(entry.ID, entry.Type, entry.Actor, sqlmock.AnyArg(),
				entry.Hours, entry.Amount, entry.Commission, entry.Description, entry.RecordedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Append(ctx, entry)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoCounterparty", func(t *testing.T) {
		entry := &domain.JournalEntry{
			ID:         "9e8b5a1c-0000-0000-0000-000000000002",
			Type:       domain.EntryTypeRefund,
			Actor:      "alice",
			Hours:      3,
			Amount:     1350,
			RecordedAt: time.Now(),
		}

		mock.ExpectExec("INSERT INTO journal_entries").
			WithArgs(entry.ID, entry.Type, entry.Actor, sqlmock.AnyArg(),
				entry.Hours, entry.Amount, entry.Commission, entry.Description, entry.RecordedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Append(ctx, entry)
		assert.NoError(t, err)
	})
}

func TestJournalRepository_ListByParticipant(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewJournalRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		now := time.Now()

		mock.ExpectQuery("SELECT count\\(\\*\\) FROM journal_entries").
			WithArgs(domain.ParticipantID("bob")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows([]string{"id", "entry_type", "actor", "counterparty", "hours", "amount", "commission", "description", "recorded_at"}).
			AddRow("9e8b5a1c-0000-0000-0000-000000000001", "RENTAL", "bob", "alice", 5, -525, 25, "rented 5 hours from alice", now)
		mock.ExpectQuery("SELECT id, entry_type, actor").
			WithArgs(domain.ParticipantID("bob"), int32(10), int32(0)).
			WillReturnRows(rows)

		entries, count, err := repo.ListByParticipant(ctx, "bob", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int32(1), count)
		require.Len(t, entries, 1)
		assert.Equal(t, domain.EntryTypeRental, entries[0].Type)
		assert.Equal(t, domain.ParticipantID("alice"), entries[0].Counterparty)
		assert.Equal(t, int64(-525), entries[0].Amount)
	})

	t.Run("DefaultsPaging", func(t *testing.T) {
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM journal_entries").
			WithArgs(domain.ParticipantID("bob")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("SELECT id, entry_type, actor").
			WithArgs(domain.ParticipantID("bob"), int32(20), int32(0)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "entry_type", "actor", "counterparty", "hours", "amount", "commission", "description", "recorded_at"}))

		entries, count, err := repo.ListByParticipant(ctx, "bob", 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int32(0), count)
		assert.Empty(t, entries)
	})
}
