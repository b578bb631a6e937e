package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"spaceshare-backend/internal/domain"
	"spaceshare-backend/internal/repository"
)

type snapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) repository.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// Save replaces the persisted snapshot with the given one. Everything
// runs in a single transaction so a reader never sees a half-written
// snapshot.
func (r *snapshotRepository) Save(ctx context.Context, snap domain.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	stateQuery := `INSERT INTO ledger_state (id, price_per_hour, commission_percent, refund_percent, reservation_cap, capacity_ceiling, capacity_reserved, taken_at)
	               VALUES (1, $1, $2, $3, $4, $5, $6, $7)
	               ON CONFLICT (id) DO UPDATE SET
	                 price_per_hour = EXCLUDED.price_per_hour,
	                 commission_percent = EXCLUDED.commission_percent,
	                 refund_percent = EXCLUDED.refund_percent,
	                 reservation_cap = EXCLUDED.reservation_cap,
	                 capacity_ceiling = EXCLUDED.capacity_ceiling,
	                 capacity_reserved = EXCLUDED.capacity_reserved,
	                 taken_at = EXCLUDED.taken_at`
	if _, err := tx.ExecContext(ctx, stateQuery,
		snap.Rates.PricePerHour, snap.Rates.CommissionPercent, snap.Rates.RefundPercent,
		snap.Rates.ReservationCap, snap.Rates.CapacityCeiling, snap.Capacity, snap.TakenAt); err != nil {
		return fmt.Errorf("save ledger state: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM reservation_balances`); err != nil {
		return err
	}
	for id, hours := range snap.Reservations {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO reservation_balances (participant, hours) VALUES ($1, $2)`, id, hours); err != nil {
			return fmt.Errorf("save reservation balance: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM monetary_balances`); err != nil {
		return err
	}
	for id, amount := range snap.Balances {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO monetary_balances (participant, amount) VALUES ($1, $2)`, id, amount); err != nil {
			return fmt.Errorf("save monetary balance: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM listings`); err != nil {
		return err
	}
	for id, listing := range snap.Listings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO listings (owner, hours_offered, price_per_hour) VALUES ($1, $2, $3)`,
			id, listing.HoursOffered, listing.PricePerHour); err != nil {
			return fmt.Errorf("save listing: %w", err)
		}
	}

	return tx.Commit()
}

// Load reads the persisted snapshot, or nil when no snapshot has been
// saved yet.
func (r *snapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{
		Reservations: make(map[domain.ParticipantID]int64),
		Balances:     make(map[domain.ParticipantID]int64),
		Listings:     make(map[domain.ParticipantID]domain.Listing),
	}

	stateQuery := `SELECT price_per_hour, commission_percent, refund_percent, reservation_cap, capacity_ceiling, capacity_reserved, taken_at
	               FROM ledger_state WHERE id = 1`
	err := r.db.QueryRowContext(ctx, stateQuery).Scan(
		&snap.Rates.PricePerHour, &snap.Rates.CommissionPercent, &snap.Rates.RefundPercent,
		&snap.Rates.ReservationCap, &snap.Rates.CapacityCeiling, &snap.Capacity, &snap.TakenAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load ledger state: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT participant, hours FROM reservation_balances`)
	if err != nil {
		return nil, fmt.Errorf("load reservation balances: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id domain.ParticipantID
		var hours int64
		if err := rows.Scan(&id, &hours); err != nil {
			return nil, err
		}
		snap.Reservations[id] = hours
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.db.QueryContext(ctx, `SELECT participant, amount FROM monetary_balances`)
	if err != nil {
		return nil, fmt.Errorf("load monetary balances: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id domain.ParticipantID
		var amount int64
		if err := rows.Scan(&id, &amount); err != nil {
			return nil, err
		}
		snap.Balances[id] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.db.QueryContext(ctx, `SELECT owner, hours_offered, price_per_hour FROM listings`)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var listing domain.Listing
		if err := rows.Scan(&listing.Owner, &listing.HoursOffered, &listing.PricePerHour); err != nil {
			return nil, err
		}
		snap.Listings[listing.Owner] = listing
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return snap, nil
}
