package catalog

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the catalog schema.
// Timestamps are stored as Unix nanoseconds.
const Schema = `
CREATE TABLE IF NOT EXISTS maps (
    id TEXT PRIMARY KEY,
    path TEXT NOT NULL UNIQUE,
    sha256 TEXT NOT NULL,
    size_bytes INTEGER NOT NULL,
    mod_time INTEGER NOT NULL,

    title TEXT NOT NULL DEFAULT '',
    dialect TEXT NOT NULL DEFAULT '',

    entities INTEGER NOT NULL DEFAULT 0,
    point_entities INTEGER NOT NULL DEFAULT 0,
    solid_entities INTEGER NOT NULL DEFAULT 0,
    brushes INTEGER NOT NULL DEFAULT 0,
    faces INTEGER NOT NULL DEFAULT 0,
    standard_faces INTEGER NOT NULL DEFAULT 0,
    valve_faces INTEGER NOT NULL DEFAULT 0,

    lint_errors INTEGER NOT NULL DEFAULT 0,
    lint_warnings INTEGER NOT NULL DEFAULT 0,
    parse_error TEXT NOT NULL DEFAULT '',

    run_id TEXT NOT NULL,
    indexed_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_maps_dialect ON maps(dialect);

CREATE TABLE IF NOT EXISTS map_textures (
    map_id TEXT NOT NULL,
    texture TEXT NOT NULL,
    faces INTEGER NOT NULL,
    PRIMARY KEY (map_id, texture)
);

CREATE INDEX IF NOT EXISTS idx_map_textures_texture ON map_textures(texture);

CREATE TABLE IF NOT EXISTS map_classnames (
    map_id TEXT NOT NULL,
    classname TEXT NOT NULL,
    entities INTEGER NOT NULL,
    PRIMARY KEY (map_id, classname)
);

CREATE INDEX IF NOT EXISTS idx_map_classnames_classname ON map_classnames(classname);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// InsertSchemaVersion records the schema version on first initialization.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`

// GetSchemaVersion reads the highest recorded schema version.
const GetSchemaVersion = `SELECT MAX(version) FROM schema_version`
