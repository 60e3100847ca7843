package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"mercator-hq/valvemap/pkg/config"
)

// Store is the SQLite-backed map catalog.
// It is safe for concurrent use; SQLite serializes writers, so the store
// keeps a single connection.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens (creating if needed) the catalog database described by cfg.
// The parent directory of the database file must exist.
func Open(cfg config.CatalogConfig, logger *slog.Logger) (*Store, error) {
	if cfg.Path == "" {
		return nil, NewStorageError("open", errors.New("catalog path cannot be empty"))
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = config.DefaultCatalogBusyTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "catalog")

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, NewStorageError("open", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{
		db:     db,
		path:   cfg.Path,
		logger: logger,
	}

	if err := s.initialize(cfg.BusyTimeout); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("catalog opened", "path", cfg.Path)
	return s, nil
}

// initialize sets connection pragmas and creates the schema.
func (s *Store) initialize(busyTimeout time.Duration) error {
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeout.Milliseconds())); err != nil {
		return NewStorageError("set_busy_timeout", err)
	}

	if s.path != ":memory:" {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError("enable_wal", err)
		}
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError("create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStorageError("insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		return NewStorageError("get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewStorageError("schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Upsert inserts or replaces the record for rec.Path. A path that is already
// catalogued keeps its ID; a new path gets a fresh UUID. rec.ID is set on
// return.
func (s *Store) Upsert(ctx context.Context, rec *MapRecord) error {
	if rec == nil || rec.Path == "" {
		return NewStorageError("upsert", errors.New("record path cannot be empty"))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return NewStorageError("begin", err)
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRowContext(ctx, `SELECT id FROM maps WHERE path = ?`, rec.Path).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.NewString()
	case err != nil:
		return NewStorageError("upsert", err)
	}

	if rec.IndexedAt.IsZero() {
		rec.IndexedAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO maps (
			id, path, sha256, size_bytes, mod_time,
			title, dialect,
			entities, point_entities, solid_entities, brushes, faces, standard_faces, valve_faces,
			lint_errors, lint_warnings, parse_error,
			run_id, indexed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (path) DO UPDATE SET
			sha256 = excluded.sha256,
			size_bytes = excluded.size_bytes,
			mod_time = excluded.mod_time,
			title = excluded.title,
			dialect = excluded.dialect,
			entities = excluded.entities,
			point_entities = excluded.point_entities,
			solid_entities = excluded.solid_entities,
			brushes = excluded.brushes,
			faces = excluded.faces,
			standard_faces = excluded.standard_faces,
			valve_faces = excluded.valve_faces,
			lint_errors = excluded.lint_errors,
			lint_warnings = excluded.lint_warnings,
			parse_error = excluded.parse_error,
			run_id = excluded.run_id,
			indexed_at = excluded.indexed_at
	`,
		id, rec.Path, rec.SHA256, rec.SizeBytes, toUnixNano(rec.ModTime),
		rec.Title, rec.Dialect,
		rec.Entities, rec.PointEntities, rec.SolidEntities, rec.Brushes, rec.Faces, rec.StandardFaces, rec.ValveFaces,
		rec.LintErrors, rec.LintWarnings, rec.ParseError,
		rec.RunID, toUnixNano(rec.IndexedAt),
	)
	if err != nil {
		return NewStorageError("upsert", err)
	}

	if err := replaceCounts(ctx, tx, "map_textures", "texture", "faces", id, rec.Textures); err != nil {
		return err
	}
	if err := replaceCounts(ctx, tx, "map_classnames", "classname", "entities", id, rec.ClassNames); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return NewStorageError("commit", err)
	}

	rec.ID = id
	return nil
}

// replaceCounts rewrites the child rows of one map in a name/count table.
// Table and column names are package constants, never user input.
func replaceCounts(ctx context.Context, tx *sql.Tx, table, nameCol, countCol, mapID string, counts map[string]int) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE map_id = ?", mapID); err != nil {
		return NewStorageError("upsert_"+table, err)
	}
	if len(counts) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (map_id, %s, %s) VALUES (?, ?, ?)", table, nameCol, countCol))
	if err != nil {
		return NewStorageError("upsert_"+table, err)
	}
	defer stmt.Close()

	for name, count := range counts {
		if _, err := stmt.ExecContext(ctx, mapID, name, count); err != nil {
			return NewStorageError("upsert_"+table, err)
		}
	}
	return nil
}

const selectColumns = `
	id, path, sha256, size_bytes, mod_time,
	title, dialect,
	entities, point_entities, solid_entities, brushes, faces, standard_faces, valve_faces,
	lint_errors, lint_warnings, parse_error,
	run_id, indexed_at`

// Get returns the full record for path, including texture and classname
// counts. It returns ErrNotFound if the path is not catalogued.
func (s *Store) Get(ctx context.Context, path string) (*MapRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT"+selectColumns+" FROM maps WHERE path = ?", path)
	if err != nil {
		return nil, NewStorageError("get", err)
	}
	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}

	rec := records[0]
	if rec.Textures, err = s.counts(ctx, "map_textures", "texture", "faces", rec.ID); err != nil {
		return nil, err
	}
	if rec.ClassNames, err = s.counts(ctx, "map_classnames", "classname", "entities", rec.ID); err != nil {
		return nil, err
	}
	return rec, nil
}

// Fingerprint returns the stored content hash for path, or ErrNotFound.
func (s *Store) Fingerprint(ctx context.Context, path string) (string, error) {
	var sum string
	err := s.db.QueryRowContext(ctx, `SELECT sha256 FROM maps WHERE path = ?`, path).Scan(&sum)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", NewStorageError("fingerprint", err)
	}
	return sum, nil
}

// List returns summary records (without texture and classname counts)
// matching q, ordered by path.
func (s *Store) List(ctx context.Context, q Query) ([]*MapRecord, error) {
	where, args := buildWhereClause(q)

	query := "SELECT" + selectColumns + " FROM maps" + where + " ORDER BY path"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, NewStorageError("list", err)
	}
	return scanRecords(rows)
}

// Count returns the number of catalogued maps.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM maps`).Scan(&n); err != nil {
		return 0, NewStorageError("count", err)
	}
	return n, nil
}

// Paths returns every catalogued path, sorted.
func (s *Store) Paths(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM maps ORDER BY path`)
	if err != nil {
		return nil, NewStorageError("paths", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, NewStorageError("scan", err)
		}
		paths = append(paths, path)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("paths", err)
	}
	return paths, nil
}

// Textures returns per-texture usage across the catalog, sorted by name.
func (s *Store) Textures(ctx context.Context) ([]Usage, error) {
	return s.usage(ctx, `
		SELECT texture, COUNT(*), SUM(faces) FROM map_textures
		GROUP BY texture ORDER BY texture`)
}

// ClassNames returns per-classname usage across the catalog, sorted by name.
func (s *Store) ClassNames(ctx context.Context) ([]Usage, error) {
	return s.usage(ctx, `
		SELECT classname, COUNT(*), SUM(entities) FROM map_classnames
		GROUP BY classname ORDER BY classname`)
}

// Remove deletes the record for path. It returns false if the path was not
// catalogued.
func (s *Store) Remove(ctx context.Context, path string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, NewStorageError("begin", err)
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRowContext(ctx, `SELECT id FROM maps WHERE path = ?`, path).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, NewStorageError("remove", err)
	}

	for _, stmt := range []string{
		`DELETE FROM map_textures WHERE map_id = ?`,
		`DELETE FROM map_classnames WHERE map_id = ?`,
		`DELETE FROM maps WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return false, NewStorageError("remove", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, NewStorageError("commit", err)
	}
	return true, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError("close", err)
	}
	s.logger.Debug("catalog closed", "path", s.path)
	return nil
}

func (s *Store) counts(ctx context.Context, table, nameCol, countCol, mapID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT %s, %s FROM %s WHERE map_id = ?", nameCol, countCol, table), mapID)
	if err != nil {
		return nil, NewStorageError("get_"+table, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, NewStorageError("scan", err)
		}
		counts[name] = n
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("get_"+table, err)
	}
	return counts, nil
}

func (s *Store) usage(ctx context.Context, query string) ([]Usage, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, NewStorageError("usage", err)
	}
	defer rows.Close()

	var result []Usage
	for rows.Next() {
		var u Usage
		if err := rows.Scan(&u.Name, &u.Maps, &u.Total); err != nil {
			return nil, NewStorageError("scan", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("usage", err)
	}
	return result, nil
}

// buildWhereClause turns a Query into a WHERE clause and its arguments.
func buildWhereClause(q Query) (string, []any) {
	var conditions []string
	var args []any

	if q.PathPrefix != "" {
		conditions = append(conditions, "substr(path, 1, ?) = ?")
		args = append(args, len(q.PathPrefix), q.PathPrefix)
	}
	if q.Texture != "" {
		conditions = append(conditions, "id IN (SELECT map_id FROM map_textures WHERE texture = ?)")
		args = append(args, q.Texture)
	}
	if q.ClassName != "" {
		conditions = append(conditions, "id IN (SELECT map_id FROM map_classnames WHERE classname = ?)")
		args = append(args, q.ClassName)
	}
	if q.Dialect != "" {
		conditions = append(conditions, "dialect = ?")
		args = append(args, q.Dialect)
	}
	if q.FailedOnly {
		conditions = append(conditions, "parse_error != ''")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanRecords(rows *sql.Rows) ([]*MapRecord, error) {
	defer rows.Close()

	var records []*MapRecord
	for rows.Next() {
		var rec MapRecord
		var modTime, indexedAt int64
		err := rows.Scan(
			&rec.ID, &rec.Path, &rec.SHA256, &rec.SizeBytes, &modTime,
			&rec.Title, &rec.Dialect,
			&rec.Entities, &rec.PointEntities, &rec.SolidEntities, &rec.Brushes, &rec.Faces, &rec.StandardFaces, &rec.ValveFaces,
			&rec.LintErrors, &rec.LintWarnings, &rec.ParseError,
			&rec.RunID, &indexedAt,
		)
		if err != nil {
			return nil, NewStorageError("scan", err)
		}
		rec.ModTime = fromUnixNano(modTime)
		rec.IndexedAt = fromUnixNano(indexedAt)
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("scan", err)
	}
	return records, nil
}

// toUnixNano stores the zero time as 0 so it survives a round trip.
func toUnixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return NewStorageError("ping", err)
	}
	return nil
}
