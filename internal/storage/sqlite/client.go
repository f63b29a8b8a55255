package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/btr-engine/backend/internal/storage/models"
	"github.com/btr-engine/backend/pkg/logger"
)

var ErrNotFound = errors.New("native not found")

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) Ping() error {
	return c.db.Ping()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS natives (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		gender TEXT NOT NULL,
		birth_date TEXT NOT NULL,
		birth_time TEXT NOT NULL,
		tz_offset REAL NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		place TEXT,
		forced_sound TEXT,
		forced_arudha INTEGER,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_natives_name ON natives(name);
	CREATE INDEX IF NOT EXISTS idx_natives_updated ON natives(updated_at);
	`

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

// SaveNative inserts a native, or updates it when the ID already exists. An
// empty ID is assigned a new UUID.
func (c *Client) SaveNative(n *models.Native) error {
	now := time.Now().UTC()
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	n.UpdatedAt = now

	query := `
		INSERT INTO natives (id, name, gender, birth_date, birth_time, tz_offset, latitude, longitude,
			place, forced_sound, forced_arudha, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			gender = excluded.gender,
			birth_date = excluded.birth_date,
			birth_time = excluded.birth_time,
			tz_offset = excluded.tz_offset,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			place = excluded.place,
			forced_sound = excluded.forced_sound,
			forced_arudha = excluded.forced_arudha,
			updated_at = excluded.updated_at
	`

	var arudha sql.NullInt64
	if n.ForcedArudha != nil {
		arudha = sql.NullInt64{Int64: int64(*n.ForcedArudha), Valid: true}
	}

	_, err := c.db.Exec(
		query,
		n.ID,
		n.Name,
		n.Gender,
		n.BirthDate,
		n.BirthTime,
		n.TZOffset,
		n.Latitude,
		n.Longitude,
		n.Place,
		n.ForcedSound,
		arudha,
		n.CreatedAt.Unix(),
		n.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save native: %w", err)
	}

	logger.Debug("Native saved", zap.String("native_id", n.ID), zap.String("name", n.Name))
	return nil
}

const nativeColumns = `id, name, gender, birth_date, birth_time, tz_offset, latitude, longitude,
	place, forced_sound, forced_arudha, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanNative(row scanner) (*models.Native, error) {
	var n models.Native
	var place, sound sql.NullString
	var arudha sql.NullInt64
	var createdAt, updatedAt int64

	err := row.Scan(
		&n.ID,
		&n.Name,
		&n.Gender,
		&n.BirthDate,
		&n.BirthTime,
		&n.TZOffset,
		&n.Latitude,
		&n.Longitude,
		&place,
		&sound,
		&arudha,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	n.Place = place.String
	n.ForcedSound = sound.String
	if arudha.Valid {
		v := int(arudha.Int64)
		n.ForcedArudha = &v
	}
	n.CreatedAt = time.Unix(createdAt, 0).UTC()
	n.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &n, nil
}

func (c *Client) GetNative(id string) (*models.Native, error) {
	row := c.db.QueryRow(`SELECT `+nativeColumns+` FROM natives WHERE id = ?`, id)
	n, err := scanNative(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get native: %w", err)
	}
	return n, nil
}

func (c *Client) ListNatives(limit int) ([]models.Native, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := c.db.Query(`SELECT `+nativeColumns+` FROM natives ORDER BY updated_at DESC, name LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list natives: %w", err)
	}
	defer rows.Close()

	var natives []models.Native
	for rows.Next() {
		n, err := scanNative(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan native: %w", err)
		}
		natives = append(natives, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate natives: %w", err)
	}
	return natives, nil
}

func (c *Client) DeleteNative(id string) error {
	res, err := c.db.Exec(`DELETE FROM natives WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete native: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete native: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SeedSample stores the sample native when the table is empty.
func (c *Client) SeedSample() error {
	var count int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM natives`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count natives: %w", err)
	}
	if count > 0 {
		return nil
	}
	if err := c.SaveNative(models.SampleNative()); err != nil {
		return err
	}
	logger.Info("Sample native seeded")
	return nil
}
