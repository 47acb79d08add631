package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

// LibSQLStore implements the Store interface using libSQL (embedded SQLite fork).
type LibSQLStore struct {
	db *sql.DB
}

// NewLibSQLStore opens a libSQL database at the given path and returns a Store.
// The path should be a file URI, e.g. "file:/path/to/history.db".
func NewLibSQLStore(dbPath string) (*LibSQLStore, error) {
	db, err := sql.Open("libsql", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open libsql: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Some PRAGMAs return rows so we use QueryRow.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, p := range pragmas {
		var result string
		_ = db.QueryRow(p).Scan(&result)
	}

	return &LibSQLStore{db: db}, nil
}

// Open opens the store at path and applies pending migrations.
func Open(ctx context.Context, path string) (*LibSQLStore, error) {
	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	s, err := NewLibSQLStore(dsn)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// DB returns the underlying *sql.DB.
func (s *LibSQLStore) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *LibSQLStore) Close() error { return s.db.Close() }

// Migrate runs all pending database migrations.
func (s *LibSQLStore) Migrate(ctx context.Context) error {
	return migrate(ctx, s.db)
}

// Vacuum runs VACUUM on the database.
func (s *LibSQLStore) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}

const activationColumns = "id, source, mode, session_id, task, requested, activated, unknown, failed, registered, removed, conflicts, summary, duration_ms, created_at"

// AppendActivation inserts rec. CreatedAt defaults to now.
func (s *LibSQLStore) AppendActivation(ctx context.Context, rec *ActivationRecord) error {
	if rec.ID == "" {
		return schema.NewError(schema.ErrCodeValidation, "activation record requires an id")
	}
	rec.CreatedAt = timeOrNow(rec.CreatedAt)

	failed, err := marshalFailed(rec.Failed)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO activations (`+activationColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Source, rec.Mode, nullStr(rec.SessionID), nullStr(rec.Task),
		marshalList(rec.Requested), marshalList(rec.Activated), marshalList(rec.Unknown), failed,
		marshalList(rec.Registered), marshalList(rec.Removed), marshalList(rec.Conflicts),
		rec.Summary, rec.DurationMs, rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return schema.NewErrorf(schema.ErrCodeStore, "append activation %s: %v", rec.ID, err).WithCause(err)
	}
	return nil
}

// GetActivation returns one record by id.
func (s *LibSQLStore) GetActivation(ctx context.Context, id string) (*ActivationRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+activationColumns+` FROM activations WHERE id = ?`, id)
	rec, err := scanActivation(row)
	if err == sql.ErrNoRows {
		return nil, storeNotFound("activation", id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListActivations returns records matching filter, newest first.
func (s *LibSQLStore) ListActivations(ctx context.Context, filter ActivationFilter) ([]*ActivationRecord, error) {
	var where []string
	var args []any

	if filter.Source != "" {
		where = append(where, "source = ?")
		args = append(args, filter.Source)
	}
	if filter.WorkflowID != "" {
		where = append(where, "EXISTS (SELECT 1 FROM json_each(activations.requested) WHERE json_each.value = ?)")
		args = append(args, filter.WorkflowID)
	}
	if filter.Since != nil {
		where = append(where, "created_at >= ?")
		args = append(args, filter.Since.UnixMilli())
	}

	query := "SELECT " + activationColumns + " FROM activations"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*ActivationRecord
	for rows.Next() {
		rec, err := scanActivation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// PruneBefore deletes records created before cutoff and returns how many
// were removed.
func (s *LibSQLStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM activations WHERE created_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, schema.NewErrorf(schema.ErrCodeStore, "prune activations: %v", err).WithCause(err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanActivation(row scanner) (*ActivationRecord, error) {
	rec := &ActivationRecord{}
	var (
		sessionID, task                       sql.NullString
		requested, activated, unknown, failed string
		registered, removed, conflicts        string
		createdAt                             int64
	)
	if err := row.Scan(&rec.ID, &rec.Source, &rec.Mode, &sessionID, &task,
		&requested, &activated, &unknown, &failed, &registered, &removed, &conflicts,
		&rec.Summary, &rec.DurationMs, &createdAt); err != nil {
		return nil, err
	}
	rec.SessionID = sessionID.String
	rec.Task = task.String
	rec.Requested = unmarshalList(requested)
	rec.Activated = unmarshalList(activated)
	rec.Unknown = unmarshalList(unknown)
	rec.Registered = unmarshalList(registered)
	rec.Removed = unmarshalList(removed)
	rec.Conflicts = unmarshalList(conflicts)
	if failed != "" && failed != "{}" {
		if err := json.Unmarshal([]byte(failed), &rec.Failed); err != nil {
			return nil, fmt.Errorf("unmarshal failed: %w", err)
		}
	}
	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	return rec, nil
}

// --- Helpers ---

func storeNotFound(resource, id string) *schema.PluginError {
	return schema.NewErrorf(schema.ErrCodeNotFound, "%s %q not found", resource, id)
}

func timeOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func marshalList(l []string) string {
	if len(l) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(l)
	return string(data)
}

func unmarshalList(s string) []string {
	if s == "" || s == "[]" {
		return nil
	}
	var l []string
	if err := json.Unmarshal([]byte(s), &l); err != nil {
		return nil
	}
	return l
}

func marshalFailed(m map[string]string) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
