package querydb

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	libsql "github.com/tursodatabase/libsql-client-go/libsql"
	"github.com/glebarez/sqlite"
	remotesqlite "gorm.io/driver/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oxhq/windjammer/internal/diag"
)

// SnapshotEntry persists one unit's settled diagnostics across process
// restarts, so a warm CLI/LSP/MCP start doesn't repeat work a previous
// invocation already did for unchanged source.
//
// Grounded on the teacher's models.Stage/Apply/Session gorm models
// (primary-key id, JSON payload column, timestamp bookkeeping) paired
// with db.Connect's dual local-file/remote-Turso dialector selection.
type SnapshotEntry struct {
	Key         string `gorm:"primaryKey;type:varchar(512)"`
	UnitID      string `gorm:"type:varchar(512);index"`
	Kind        string `gorm:"type:varchar(32)"`
	Generation  int64
	Diagnostics datatypes.JSON
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (SnapshotEntry) TableName() string { return "snapshot_entries" }

// Snapshot wraps a gorm handle persisting query results between sessions.
type Snapshot struct {
	db *gorm.DB
}

// OpenSnapshot connects to dsn (a local sqlite file path, or a libsql/Turso
// URL for a team-shared remote cache) and migrates the snapshot schema.
func OpenSnapshot(dsn string, debug bool) (*Snapshot, error) {
	if !isRemoteDSN(dsn) {
		if dir := filepath.Dir(dsn); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("querydb: create snapshot directory: %w", err)
			}
		}
	}

	config := &gorm.Config{}
	if debug {
		config.Logger = logger.Default.LogMode(logger.Info)
	}

	var (
		dialector gorm.Dialector
		conn      *sql.DB
	)
	if isRemoteDSN(dsn) {
		var (
			connector driver.Connector
			err       error
		)
		if token := os.Getenv("WJ_SNAPSHOT_AUTH_TOKEN"); token != "" {
			connector, err = libsql.NewConnector(dsn, libsql.WithAuthToken(token))
		} else {
			connector, err = libsql.NewConnector(dsn)
		}
		if err != nil {
			return nil, fmt.Errorf("querydb: create libsql connector: %w", err)
		}
		conn = sql.OpenDB(connector)
		dialector = remotesqlite.New(remotesqlite.Config{DriverName: "libsql", Conn: conn, DSN: dsn})
	} else {
		// Local, file-backed caches use the pure-Go glebarez/sqlite driver so
		// the CLI never needs cgo to cross-compile.
		dialector = sqlite.Open(dsn)
	}

	gdb, err := gorm.Open(dialector, config)
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		return nil, fmt.Errorf("querydb: connect snapshot store: %w", err)
	}
	if err := gdb.AutoMigrate(&SnapshotEntry{}); err != nil {
		return nil, fmt.Errorf("querydb: migrate snapshot schema: %w", err)
	}
	return &Snapshot{db: gdb}, nil
}

func isRemoteDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "http://") || strings.HasPrefix(dsn, "https://") || strings.HasPrefix(dsn, "libsql://")
}

// Load returns the persisted diagnostics for (path, kind), if present and
// still current for generation.
func (s *Snapshot) Load(path string, kind Kind, generation int64) ([]diag.Diagnostic, bool) {
	if s == nil {
		return nil, false
	}
	var row SnapshotEntry
	key := snapshotKey(path, kind)
	if err := s.db.Where("key = ? AND generation = ?", key, generation).First(&row).Error; err != nil {
		return nil, false
	}
	var diags []diag.Diagnostic
	if err := json.Unmarshal(row.Diagnostics, &diags); err != nil {
		return nil, false
	}
	return diags, true
}

// Save persists diags for (path, kind, generation), replacing any prior
// snapshot for the same key.
func (s *Snapshot) Save(path string, kind Kind, generation int64, diags []diag.Diagnostic) error {
	if s == nil {
		return nil
	}
	payload, err := json.Marshal(diags)
	if err != nil {
		return fmt.Errorf("querydb: marshal snapshot diagnostics: %w", err)
	}
	row := SnapshotEntry{
		Key:         snapshotKey(path, kind),
		UnitID:      path,
		Kind:        kind.String(),
		Generation:  generation,
		Diagnostics: payload,
	}
	return s.db.Save(&row).Error
}

// Close releases the underlying database handle.
func (s *Snapshot) Close() error {
	if s == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func snapshotKey(path string, kind Kind) string {
	return kind.String() + ":" + path
}
