package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"waitly/waitlist-service/internal/models"
	"waitly/waitlist-service/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dayFormat = "2006-01-02"

const entryColumns = `entry_id, tenant_id, name, phone, party_size, priority, status, created_at, seated_at, canceled_at, table_label, day`

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) CreateEntry(ctx context.Context, input store.CreateEntryInput) (models.Entry, error) {
	createdAt := input.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	day := createdAt.UTC().Format(dayFormat)

	row := s.pool.QueryRow(ctx, `
		INSERT INTO waitlist_entries (
			entry_id, tenant_id, name, phone, party_size, priority, status, created_at, day
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING `+entryColumns+`
	`, uuid.NewString(), input.TenantID, input.Name, nullIfEmpty(input.Phone), input.PartySize, nullIfEmpty(input.Priority), models.StatusWaiting, createdAt, day)

	return scanEntry(row)
}

func (s *Store) GetEntry(ctx context.Context, tenantID, entryID string) (models.Entry, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+entryColumns+`
		FROM waitlist_entries
		WHERE entry_id = $1 AND tenant_id = $2
	`, entryID, tenantID)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Entry{}, store.ErrEntryNotFound
		}
		return models.Entry{}, err
	}
	return entry, nil
}

func (s *Store) UpdateEntry(ctx context.Context, input store.UpdateEntryInput) (models.Entry, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE waitlist_entries
		SET name = COALESCE($3, name),
		    phone = COALESCE($4, phone),
		    party_size = COALESCE($5, party_size)
		WHERE entry_id = $1 AND tenant_id = $2
		RETURNING `+entryColumns+`
	`, input.EntryID, input.TenantID, input.Name, input.Phone, input.PartySize)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Entry{}, store.ErrEntryNotFound
		}
		return models.Entry{}, err
	}
	return entry, nil
}

func (s *Store) SeatEntry(ctx context.Context, input store.EntryActionInput) (models.Entry, error) {
	return s.applyTransition(ctx, "seat", input, func(ctx context.Context, tx pgx.Tx, occurredAt time.Time) (models.Entry, error) {
		row := tx.QueryRow(ctx, `
			UPDATE waitlist_entries
			SET status = $3, seated_at = $4, table_label = $5
			WHERE entry_id = $1 AND tenant_id = $2
			RETURNING `+entryColumns+`
		`, input.EntryID, input.TenantID, models.StatusSeated, occurredAt, input.TableLabel)
		return scanEntry(row)
	})
}

func (s *Store) CancelEntry(ctx context.Context, input store.EntryActionInput) (models.Entry, error) {
	return s.applyTransition(ctx, "cancel", input, func(ctx context.Context, tx pgx.Tx, occurredAt time.Time) (models.Entry, error) {
		row := tx.QueryRow(ctx, `
			UPDATE waitlist_entries
			SET status = $3, canceled_at = $4
			WHERE entry_id = $1 AND tenant_id = $2
			RETURNING `+entryColumns+`
		`, input.EntryID, input.TenantID, models.StatusCanceled, occurredAt)
		return scanEntry(row)
	})
}

func (s *Store) ReinstateEntry(ctx context.Context, input store.EntryActionInput) (models.Entry, error) {
	// created_at is never touched: the original wait baseline and queue
	// position survive a cancel/reinstate round trip.
	return s.applyTransition(ctx, "reinstate", input, func(ctx context.Context, tx pgx.Tx, occurredAt time.Time) (models.Entry, error) {
		row := tx.QueryRow(ctx, `
			UPDATE waitlist_entries
			SET status = $3, canceled_at = NULL
			WHERE entry_id = $1 AND tenant_id = $2
			RETURNING `+entryColumns+`
		`, input.EntryID, input.TenantID, models.StatusWaiting)
		return scanEntry(row)
	})
}

func (s *Store) applyTransition(ctx context.Context, action string, input store.EntryActionInput, apply func(context.Context, pgx.Tx, time.Time) (models.Entry, error)) (models.Entry, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Entry{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var status string
	err = tx.QueryRow(ctx, `
		SELECT status FROM waitlist_entries
		WHERE entry_id = $1 AND tenant_id = $2
		FOR UPDATE
	`, input.EntryID, input.TenantID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = store.ErrEntryNotFound
		}
		return models.Entry{}, err
	}

	if !store.ValidTransition(action, status) {
		err = store.ErrInvalidState
		return models.Entry{}, err
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	var entry models.Entry
	entry, err = apply(ctx, tx, occurredAt)
	if err != nil {
		return models.Entry{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.Entry{}, err
	}
	return entry, nil
}

func (s *Store) AddDrinkCharge(ctx context.Context, input store.AddDrinkChargeInput) (models.DrinkCharge, error) {
	if err := s.ensureEntryExists(ctx, input.TenantID, input.EntryID); err != nil {
		return models.DrinkCharge{}, err
	}

	createdAt := input.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var charge models.DrinkCharge
	row := s.pool.QueryRow(ctx, `
		INSERT INTO drink_charges (charge_id, entry_id, label, price, created_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING charge_id, entry_id, label, price, created_at
	`, uuid.NewString(), input.EntryID, input.Label, input.Price, createdAt)
	if err := row.Scan(&charge.ChargeID, &charge.EntryID, &charge.Label, &charge.Price, &charge.CreatedAt); err != nil {
		return models.DrinkCharge{}, err
	}
	return charge, nil
}

func (s *Store) ListDrinkCharges(ctx context.Context, tenantID, entryID string) ([]models.DrinkCharge, error) {
	if err := s.ensureEntryExists(ctx, tenantID, entryID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT charge_id, entry_id, label, price, created_at
		FROM drink_charges
		WHERE entry_id = $1
		ORDER BY created_at ASC, charge_id ASC
	`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charges []models.DrinkCharge
	for rows.Next() {
		var charge models.DrinkCharge
		if err := rows.Scan(&charge.ChargeID, &charge.EntryID, &charge.Label, &charge.Price, &charge.CreatedAt); err != nil {
			return nil, err
		}
		charges = append(charges, charge)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return charges, nil
}

func (s *Store) DaySnapshot(ctx context.Context, tenantID, day string) (store.DaySnapshot, error) {
	waiting, err := s.listEntries(ctx, `
		SELECT `+entryColumns+`
		FROM waitlist_entries
		WHERE tenant_id = $1 AND day = $2 AND status = $3
		ORDER BY created_at ASC, entry_id ASC
	`, tenantID, day, models.StatusWaiting)
	if err != nil {
		return store.DaySnapshot{}, err
	}

	history, err := s.listEntries(ctx, `
		SELECT `+entryColumns+`
		FROM waitlist_entries
		WHERE tenant_id = $1 AND day = $2 AND status <> $3
		ORDER BY created_at DESC, entry_id ASC
	`, tenantID, day, models.StatusWaiting)
	if err != nil {
		return store.DaySnapshot{}, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT c.charge_id, c.entry_id, c.label, c.price, c.created_at
		FROM drink_charges c
		JOIN waitlist_entries e ON e.entry_id = c.entry_id
		WHERE e.tenant_id = $1 AND e.day = $2
		ORDER BY c.created_at ASC, c.charge_id ASC
	`, tenantID, day)
	if err != nil {
		return store.DaySnapshot{}, err
	}
	defer rows.Close()

	var charges []models.DrinkCharge
	for rows.Next() {
		var charge models.DrinkCharge
		if err := rows.Scan(&charge.ChargeID, &charge.EntryID, &charge.Label, &charge.Price, &charge.CreatedAt); err != nil {
			return store.DaySnapshot{}, err
		}
		charges = append(charges, charge)
	}
	if err := rows.Err(); err != nil {
		return store.DaySnapshot{}, err
	}

	startingNumber, err := s.getStartingNumber(ctx, tenantID, day)
	if err != nil {
		return store.DaySnapshot{}, err
	}
	store.AssignPositions(waiting, startingNumber)

	return store.DaySnapshot{
		Waiting:        waiting,
		History:        history,
		DrinkCharges:   charges,
		StartingNumber: startingNumber,
	}, nil
}

func (s *Store) SetStartingNumber(ctx context.Context, tenantID, day string, number int) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO day_settings (tenant_id, day, starting_number)
		VALUES ($1,$2,$3)
		ON CONFLICT (tenant_id, day) DO UPDATE SET starting_number = EXCLUDED.starting_number
	`, tenantID, day, number)
	return err
}

func (s *Store) GetSession(ctx context.Context, sessionID string) (store.Session, error) {
	var session store.Session
	row := s.pool.QueryRow(ctx, `
		SELECT session_id, user_id, tenant_id, role, expires_at
		FROM sessions
		WHERE session_id = $1 AND expires_at > now()
	`, sessionID)
	if err := row.Scan(&session.SessionID, &session.UserID, &session.TenantID, &session.Role, &session.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Session{}, store.ErrSessionNotFound
		}
		return store.Session{}, err
	}
	return session, nil
}

func (s *Store) ensureEntryExists(ctx context.Context, tenantID, entryID string) error {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM waitlist_entries WHERE entry_id = $1 AND tenant_id = $2)
	`, entryID, tenantID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return store.ErrEntryNotFound
	}
	return nil
}

func (s *Store) getStartingNumber(ctx context.Context, tenantID, day string) (int, error) {
	var number int
	err := s.pool.QueryRow(ctx, `
		SELECT starting_number FROM day_settings WHERE tenant_id = $1 AND day = $2
	`, tenantID, day).Scan(&number)
	if errors.Is(err, pgx.ErrNoRows) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return number, nil
}

func (s *Store) listEntries(ctx context.Context, query string, args ...interface{}) ([]models.Entry, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (models.Entry, error) {
	var entry models.Entry
	var phoneNull sql.NullString
	var priorityNull sql.NullString
	var seatedAtNull sql.NullTime
	var canceledAtNull sql.NullTime
	var tableLabelNull sql.NullString
	var day time.Time
	if err := row.Scan(&entry.EntryID, &entry.TenantID, &entry.Name, &phoneNull, &entry.PartySize, &priorityNull, &entry.Status, &entry.CreatedAt, &seatedAtNull, &canceledAtNull, &tableLabelNull, &day); err != nil {
		return models.Entry{}, err
	}
	if phoneNull.Valid {
		entry.Phone = phoneNull.String
	}
	if priorityNull.Valid {
		entry.Priority = priorityNull.String
	}
	entry.SeatedAt = nullTimePtr(seatedAtNull)
	entry.CanceledAt = nullTimePtr(canceledAtNull)
	entry.TableLabel = nullStringPtr(tableLabelNull)
	entry.Day = day.Format(dayFormat)
	return entry, nil
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

func nullTimePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time
	return &t
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}
