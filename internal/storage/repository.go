package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"itinera/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements TripStore on an embedded sqlite database.
type SQLiteRepository struct {
	db *sql.DB
}

var _ TripStore = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateTrip(ctx context.Context, trip core.Trip) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trips (id, name, currency, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		trip.ID, trip.Name, trip.Currency, trip.CreatedAt, trip.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}

	for i, m := range trip.Members {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO members (trip_id, id, name, is_host, position) VALUES (?, ?, ?, ?, ?)`,
			trip.ID, m.ID, m.Name, boolToInt(m.IsHost), i)
		if err != nil {
			return fmt.Errorf("insert member: %w", err)
		}
	}

	for _, d := range trip.Days {
		if err := insertDay(ctx, tx, trip.ID, d); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Trip saved to SQLite",
		"trip_id", trip.ID,
		"name", trip.Name,
		"members", len(trip.Members),
		"days", len(trip.Days))

	return nil
}

func (r *SQLiteRepository) GetTrip(ctx context.Context, id string) (core.Trip, error) {
	var trip core.Trip
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, currency, created_at, updated_at FROM trips WHERE id = ?`, id).
		Scan(&trip.ID, &trip.Name, &trip.Currency, &trip.CreatedAt, &trip.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Trip{}, ErrNotFound
	}
	if err != nil {
		return core.Trip{}, fmt.Errorf("select trip: %w", err)
	}

	trip.Members, err = r.loadMembers(ctx, id)
	if err != nil {
		return core.Trip{}, err
	}
	trip.Days, err = r.loadDays(ctx, id)
	if err != nil {
		return core.Trip{}, err
	}
	return trip, nil
}

func (r *SQLiteRepository) ListTrips(ctx context.Context) ([]core.Trip, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, currency, created_at, updated_at FROM trips ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("select trips: %w", err)
	}
	defer rows.Close()

	var trips []core.Trip
	for rows.Next() {
		var t core.Trip
		if err := rows.Scan(&t.ID, &t.Name, &t.Currency, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trips: %w", err)
	}

	// Listing returns members but not the full schedules; clients fetch
	// a trip by id for those.
	for i := range trips {
		trips[i].Members, err = r.loadMembers(ctx, trips[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return trips, nil
}

func (r *SQLiteRepository) DeleteTrip(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete trip: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveDay replaces the stored schedule for one day inside a single
// transaction and bumps the trip version so the export worker notices
// the change.
func (r *SQLiteRepository) SaveDay(ctx context.Context, tripID string, day core.Day) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var version int64
	err = tx.QueryRowContext(ctx,
		`UPDATE trips SET version = version + 1, updated_at = ? WHERE id = ? RETURNING version`,
		time.Now().UTC(), tripID).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("bump trip version: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM activities WHERE trip_id = ? AND day_number = ?`, tripID, day.DayNumber)
	if err != nil {
		return 0, fmt.Errorf("clear day activities: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`DELETE FROM days WHERE trip_id = ? AND day_number = ?`, tripID, day.DayNumber)
	if err != nil {
		return 0, fmt.Errorf("clear day: %w", err)
	}

	if err := insertDay(ctx, tx, tripID, day); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return version, nil
}

func (r *SQLiteRepository) PendingExports(ctx context.Context, limit int) ([]PendingExport, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, version FROM trips WHERE version > exported_version ORDER BY updated_at LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("select pending exports: %w", err)
	}
	defer rows.Close()

	var pending []PendingExport
	for rows.Next() {
		var p PendingExport
		if err := rows.Scan(&p.TripID, &p.Version); err != nil {
			return nil, fmt.Errorf("scan pending export: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

func (r *SQLiteRepository) MarkExported(ctx context.Context, tripID string, version int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE trips SET exported_version = ? WHERE id = ? AND exported_version < ?`,
		version, tripID, version)
	if err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) loadMembers(ctx context.Context, tripID string) ([]core.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, is_host FROM members WHERE trip_id = ? ORDER BY position`, tripID)
	if err != nil {
		return nil, fmt.Errorf("select members: %w", err)
	}
	defer rows.Close()

	var members []core.Member
	for rows.Next() {
		var m core.Member
		var host int
		if err := rows.Scan(&m.ID, &m.Name, &host); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		m.IsHost = host != 0
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *SQLiteRepository) loadDays(ctx context.Context, tripID string) ([]core.Day, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT day_number, date FROM days WHERE trip_id = ? ORDER BY day_number`, tripID)
	if err != nil {
		return nil, fmt.Errorf("select days: %w", err)
	}
	defer rows.Close()

	var days []core.Day
	for rows.Next() {
		var d core.Day
		if err := rows.Scan(&d.DayNumber, &d.Date); err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate days: %w", err)
	}

	for i := range days {
		days[i].Activities, err = r.loadActivities(ctx, tripID, days[i].DayNumber)
		if err != nil {
			return nil, err
		}
	}
	return days, nil
}

func (r *SQLiteRepository) loadActivities(ctx context.Context, tripID string, dayNumber int) ([]core.Activity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, time, category, title, description, location, cost_cents, payer,
		        split_with, items, transport
		   FROM activities WHERE trip_id = ? AND day_number = ? ORDER BY position`,
		tripID, dayNumber)
	if err != nil {
		return nil, fmt.Errorf("select activities: %w", err)
	}
	defer rows.Close()

	var acts []core.Activity
	for rows.Next() {
		var a core.Activity
		var category, splitWith, items, transport string
		if err := rows.Scan(&a.ID, &a.Time, &category, &a.Title, &a.Description,
			&a.Location, &a.Cost.Cents, &a.Payer, &splitWith, &items, &transport); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Category = core.Category(category)
		if splitWith != "" {
			if err := json.Unmarshal([]byte(splitWith), &a.SplitWith); err != nil {
				return nil, fmt.Errorf("decode split_with: %w", err)
			}
		}
		if items != "" {
			if err := json.Unmarshal([]byte(items), &a.Items); err != nil {
				return nil, fmt.Errorf("decode items: %w", err)
			}
		}
		if transport != "" {
			a.Transport = &core.TransportDetail{}
			if err := json.Unmarshal([]byte(transport), a.Transport); err != nil {
				return nil, fmt.Errorf("decode transport: %w", err)
			}
		}
		acts = append(acts, a)
	}
	return acts, rows.Err()
}

func insertDay(ctx context.Context, tx *sql.Tx, tripID string, day core.Day) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO days (trip_id, day_number, date) VALUES (?, ?, ?)`,
		tripID, day.DayNumber, day.Date)
	if err != nil {
		return fmt.Errorf("insert day: %w", err)
	}

	for pos, a := range day.Activities {
		splitWith, err := encodeJSONField(a.SplitWith)
		if err != nil {
			return fmt.Errorf("encode split_with: %w", err)
		}
		items, err := encodeJSONField(a.Items)
		if err != nil {
			return fmt.Errorf("encode items: %w", err)
		}
		transport := ""
		if a.Transport != nil {
			b, err := json.Marshal(a.Transport)
			if err != nil {
				return fmt.Errorf("encode transport: %w", err)
			}
			transport = string(b)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO activities (trip_id, day_number, position, id, time, category,
			                         title, description, location, cost_cents, payer,
			                         split_with, items, transport)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			tripID, day.DayNumber, pos, a.ID, a.Time, string(a.Category),
			a.Title, a.Description, a.Location, a.Cost.Cents, a.Payer,
			splitWith, items, transport)
		if err != nil {
			return fmt.Errorf("insert activity: %w", err)
		}
	}
	return nil
}

func encodeJSONField(v any) (string, error) {
	switch vv := v.(type) {
	case []string:
		if len(vv) == 0 {
			return "", nil
		}
	case []core.CostItem:
		if len(vv) == 0 {
			return "", nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
