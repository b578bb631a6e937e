package postgres

import (
	"database/sql"

	"spaceshare-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.JournalRepository
	repository.SnapshotRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                 db,
		JournalRepository:  NewJournalRepository(db),
		SnapshotRepository: NewSnapshotRepository(db),
	}
}
