package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/staffhub/staffhub-server/internal/store"
)

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name    TEXT NOT NULL,
	last_name     TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	job_title     TEXT NOT NULL DEFAULT '',
	department    TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL DEFAULT 'employee',
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS assets (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	type        TEXT NOT NULL,
	license_key TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'Available',
	assigned_to INTEGER REFERENCES users(id),
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS announcements (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	title      TEXT NOT NULL,
	body       TEXT NOT NULL,
	created_by INTEGER NOT NULL REFERENCES users(id),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS publications (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	title      TEXT NOT NULL,
	authors    TEXT NOT NULL DEFAULT '',
	link       TEXT NOT NULL DEFAULT '',
	year       INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS grievances (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id      INTEGER NOT NULL REFERENCES users(id),
	subject      TEXT NOT NULL,
	details      TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'Open',
	submitted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS key_moments (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	occurred_on DATETIME NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_assets_assigned_to ON assets(assigned_to);
CREATE INDEX IF NOT EXISTS idx_grievances_user ON grievances(user_id);
`

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(schema)
		return err
	})
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests to apply a custom schema or seed data.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== UserStore implementation ====

// CreateUser inserts a new portal account.
func (s *SQLiteStore) CreateUser(ctx context.Context, u *store.User) (*store.User, error) {
	query := `
		INSERT INTO users (first_name, last_name, email, password_hash, job_title, department, role)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	role := u.Role
	if role == "" {
		role = store.RoleEmployee
	}
	result, err := s.db.ExecContext(ctx, query, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.JobTitle, u.Department, role)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*store.User, error) {
	query := `
		SELECT id, first_name, last_name, email, password_hash, job_title, department, role, created_at
		FROM users
		WHERE id = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetUserByEmail retrieves a user by email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	query := `
		SELECT id, first_name, last_name, email, password_hash, job_title, department, role, created_at
		FROM users
		WHERE email = ?
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*store.User, error) {
	var u store.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.JobTitle, &u.Department, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// ==== AssetStore implementation ====

// CreateAsset inserts a new IT asset.
func (s *SQLiteStore) CreateAsset(ctx context.Context, a *store.Asset) (*store.Asset, error) {
	status := a.Status
	if status == "" {
		status = store.AssetStatusAvailable
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO assets (name, type, license_key, status, assigned_to) VALUES (?, ?, ?, ?, ?)`,
		a.Name, a.Type, a.LicenseKey, status, a.AssignedTo)
	if err != nil {
		return nil, fmt.Errorf("insert asset: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.getAsset(ctx, id)
}

func (s *SQLiteStore) getAsset(ctx context.Context, id int64) (*store.Asset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, type, license_key, status, assigned_to, created_at FROM assets WHERE id = ?`, id)

	var a store.Asset
	err := row.Scan(&a.ID, &a.Name, &a.Type, &a.LicenseKey, &a.Status, &a.AssignedTo, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan asset: %w", err)
	}
	return &a, nil
}

// ListAssets returns every asset, name-ordered.
func (s *SQLiteStore) ListAssets(ctx context.Context) ([]store.Asset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, type, license_key, status, assigned_to, created_at FROM assets ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	defer rows.Close()

	return scanAssets(rows)
}

// ListAssetsByUser returns the assets currently allocated to a user.
func (s *SQLiteStore) ListAssetsByUser(ctx context.Context, userID int64) ([]store.Asset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, type, license_key, status, assigned_to, created_at FROM assets WHERE assigned_to = ? ORDER BY name ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("query user assets: %w", err)
	}
	defer rows.Close()

	return scanAssets(rows)
}

func scanAssets(rows *sql.Rows) ([]store.Asset, error) {
	assets := make([]store.Asset, 0)
	for rows.Next() {
		var a store.Asset
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.LicenseKey, &a.Status, &a.AssignedTo, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// AssignAsset allocates an asset to a user and marks it assigned.
func (s *SQLiteStore) AssignAsset(ctx context.Context, assetID, userID int64) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE assets SET assigned_to = ?, status = ? WHERE id = ?`,
		userID, store.AssetStatusAssigned, assetID)
	if err != nil {
		return fmt.Errorf("assign asset: %w", err)
	}
	return requireRow(result)
}

// DeleteAsset removes an asset.
func (s *SQLiteStore) DeleteAsset(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM assets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	return requireRow(result)
}

// ==== AnnouncementStore implementation ====

// CreateAnnouncement inserts a new announcement.
func (s *SQLiteStore) CreateAnnouncement(ctx context.Context, a *store.Announcement) (*store.Announcement, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO announcements (title, body, created_by) VALUES (?, ?, ?)`,
		a.Title, a.Body, a.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("insert announcement: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, body, created_by, created_at FROM announcements WHERE id = ?`, id)
	var out store.Announcement
	if err := row.Scan(&out.ID, &out.Title, &out.Body, &out.CreatedBy, &out.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan announcement: %w", err)
	}
	return &out, nil
}

// ListAnnouncements returns announcements, newest first.
func (s *SQLiteStore) ListAnnouncements(ctx context.Context) ([]store.Announcement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, body, created_by, created_at FROM announcements ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query announcements: %w", err)
	}
	defer rows.Close()

	out := make([]store.Announcement, 0)
	for rows.Next() {
		var a store.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan announcement: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteAnnouncement removes an announcement.
func (s *SQLiteStore) DeleteAnnouncement(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return requireRow(result)
}

// ==== PublicationStore implementation ====

// CreatePublication inserts a new publication.
func (s *SQLiteStore) CreatePublication(ctx context.Context, p *store.Publication) (*store.Publication, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO publications (title, authors, link, year) VALUES (?, ?, ?, ?)`,
		p.Title, p.Authors, p.Link, p.Year)
	if err != nil {
		return nil, fmt.Errorf("insert publication: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, authors, link, year, created_at FROM publications WHERE id = ?`, id)
	var out store.Publication
	if err := row.Scan(&out.ID, &out.Title, &out.Authors, &out.Link, &out.Year, &out.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan publication: %w", err)
	}
	return &out, nil
}

// ListPublications returns publications, newest year first.
func (s *SQLiteStore) ListPublications(ctx context.Context) ([]store.Publication, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, authors, link, year, created_at FROM publications ORDER BY year DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query publications: %w", err)
	}
	defer rows.Close()

	out := make([]store.Publication, 0)
	for rows.Next() {
		var p store.Publication
		if err := rows.Scan(&p.ID, &p.Title, &p.Authors, &p.Link, &p.Year, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan publication: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeletePublication removes a publication.
func (s *SQLiteStore) DeletePublication(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM publications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete publication: %w", err)
	}
	return requireRow(result)
}

// ==== GrievanceStore implementation ====

// CreateGrievance inserts a new grievance.
func (s *SQLiteStore) CreateGrievance(ctx context.Context, g *store.Grievance) (*store.Grievance, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO grievances (user_id, subject, details) VALUES (?, ?, ?)`,
		g.UserID, g.Subject, g.Details)
	if err != nil {
		return nil, fmt.Errorf("insert grievance: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, subject, details, status, submitted_at FROM grievances WHERE id = ?`, id)
	var out store.Grievance
	if err := row.Scan(&out.ID, &out.UserID, &out.Subject, &out.Details, &out.Status, &out.SubmittedAt); err != nil {
		return nil, fmt.Errorf("scan grievance: %w", err)
	}
	return &out, nil
}

// ListGrievances returns grievances, newest first.
func (s *SQLiteStore) ListGrievances(ctx context.Context) ([]store.Grievance, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, subject, details, status, submitted_at FROM grievances ORDER BY submitted_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query grievances: %w", err)
	}
	defer rows.Close()

	out := make([]store.Grievance, 0)
	for rows.Next() {
		var g store.Grievance
		if err := rows.Scan(&g.ID, &g.UserID, &g.Subject, &g.Details, &g.Status, &g.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan grievance: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// UpdateGrievanceStatus changes a grievance's status.
func (s *SQLiteStore) UpdateGrievanceStatus(ctx context.Context, id int64, status string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE grievances SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update grievance status: %w", err)
	}
	return requireRow(result)
}

// ==== KeyMomentStore implementation ====

// CreateKeyMoment inserts a new key moment.
func (s *SQLiteStore) CreateKeyMoment(ctx context.Context, k *store.KeyMoment) (*store.KeyMoment, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO key_moments (title, description, occurred_on) VALUES (?, ?, ?)`,
		k.Title, k.Description, k.OccurredOn)
	if err != nil {
		return nil, fmt.Errorf("insert key moment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, occurred_on, created_at FROM key_moments WHERE id = ?`, id)
	var out store.KeyMoment
	if err := row.Scan(&out.ID, &out.Title, &out.Description, &out.OccurredOn, &out.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan key moment: %w", err)
	}
	return &out, nil
}

// ListKeyMoments returns key moments, most recent occurrence first.
func (s *SQLiteStore) ListKeyMoments(ctx context.Context) ([]store.KeyMoment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, occurred_on, created_at FROM key_moments ORDER BY occurred_on DESC`)
	if err != nil {
		return nil, fmt.Errorf("query key moments: %w", err)
	}
	defer rows.Close()

	out := make([]store.KeyMoment, 0)
	for rows.Next() {
		var k store.KeyMoment
		if err := rows.Scan(&k.ID, &k.Title, &k.Description, &k.OccurredOn, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan key moment: %w", err)
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// DeleteKeyMoment removes a key moment.
func (s *SQLiteStore) DeleteKeyMoment(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM key_moments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete key moment: %w", err)
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
