package savedobjects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/iulianpascalau/metrics-explorer/services/explorer/common"
	_ "github.com/mattn/go-sqlite3"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("savedobjects")

// ErrObjectNotFound signals a missing persisted object
var ErrObjectNotFound = errors.New("saved object not found")

// sqliteStorage is the sqlite implementation of the persisted-object service
type sqliteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage creates the database and its schema
func NewSQLiteStorage(dbPath string) (*sqliteStorage, error) {
	err := prepareDirectories(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial empty DB file: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every new connection to :memory: is a brand new, empty database
		db.SetMaxOpenConns(1)
	}

	err = createSchema(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &sqliteStorage{
		db: db,
	}, nil
}

func prepareDirectories(dbPath string) error {
	return os.MkdirAll(filepath.Dir(dbPath), os.ModePerm)
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS saved_objects (
		object_id       TEXT    NOT NULL PRIMARY KEY,
		object_type     TEXT    NOT NULL,
		created_time_ms INTEGER NOT NULL,
		name            TEXT    NOT NULL,
		query           TEXT    NOT NULL DEFAULT '',
		viz_type        TEXT    NOT NULL DEFAULT '',
		sub_type        TEXT    NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_saved_objects_type ON saved_objects(object_type);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// GetBulk returns every persisted object of the provided type, oldest first
func (s *sqliteStorage) GetBulk(ctx context.Context, objectType string) ([]common.SavedObject, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT object_id, object_type, created_time_ms, name, query, viz_type, sub_type
		FROM saved_objects
		WHERE object_type = ?
		ORDER BY created_time_ms, object_id
	`, objectType)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	results := make([]common.SavedObject, 0)
	for rows.Next() {
		var obj common.SavedObject
		err = rows.Scan(
			&obj.ObjectID,
			&obj.ObjectType,
			&obj.CreatedTimeMs,
			&obj.SavedVisualization.Name,
			&obj.SavedVisualization.Query,
			&obj.SavedVisualization.Type,
			&obj.SavedVisualization.SubType,
		)
		if err != nil {
			return nil, err
		}

		results = append(results, obj)
	}

	return results, rows.Err()
}

// SaveVisualization persists a new visualization object and returns its generated id
func (s *sqliteStorage) SaveVisualization(ctx context.Context, visualization common.SavedVisualization, createdTimeMs int64) (string, error) {
	if len(visualization.Name) == 0 {
		return "", errors.New("empty visualization name")
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saved_objects (object_id, object_type, created_time_ms, name, query, viz_type, sub_type)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, common.SavedVisualizationType, createdTimeMs, visualization.Name, visualization.Query, visualization.Type, visualization.SubType)
	if err != nil {
		return "", fmt.Errorf("failed to insert saved visualization: %w", err)
	}

	log.Debug("saved visualization", "id", id, "name", visualization.Name, "sub type", visualization.SubType)

	return id, nil
}

// DeleteObject removes the persisted object with the provided id
func (s *sqliteStorage) DeleteObject(ctx context.Context, objectID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM saved_objects WHERE object_id = ?", objectID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, objectID)
	}

	return nil
}

// Close closes the database
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *sqliteStorage) IsInterfaceNil() bool {
	return s == nil
}
