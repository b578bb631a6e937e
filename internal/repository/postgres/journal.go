package postgres

import (
	"context"
	"database/sql"

	"spaceshare-backend/internal/domain"
	"spaceshare-backend/internal/repository"
)

type journalRepository struct {
	db *sql.DB
}

func NewJournalRepository(db *sql.DB) repository.JournalRepository {
	return &journalRepository{db: db}
}

func (r *journalRepository) Append(ctx context.Context, entry *domain.JournalEntry) error {
	query := `INSERT INTO journal_entries (id, entry_type, actor, counterparty, hours, amount, commission, description, recorded_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.Type, entry.Actor, nullableID(entry.Counterparty),
		entry.Hours, entry.Amount, entry.Commission, entry.Description, entry.RecordedAt)
	return err
}

func (r *journalRepository) ListByParticipant(ctx context.Context, id domain.ParticipantID, page, pageSize int32) ([]domain.JournalEntry, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var count int32
	countQuery := `SELECT count(*) FROM journal_entries WHERE actor = $1 OR counterparty = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, id).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, entry_type, actor, COALESCE(counterparty, ''), hours, amount, commission, description, recorded_at
	          FROM journal_entries WHERE actor = $1 OR counterparty = $1
	          ORDER BY recorded_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, id, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		var entry domain.JournalEntry
		if err := rows.Scan(&entry.ID, &entry.Type, &entry.Actor, &entry.Counterparty,
			&entry.Hours, &entry.Amount, &entry.Commission, &entry.Description, &entry.RecordedAt); err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return entries, count, nil
}

func nullableID(id domain.ParticipantID) sql.NullString {
	if id.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: string(id), Valid: true}
}
