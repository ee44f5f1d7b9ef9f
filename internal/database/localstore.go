package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Collections of the local fallback store
const (
	CollectionSchedules    = "schedules"
	CollectionTripReviews  = "trip_reviews"
	CollectionPlaceReviews = "place_reviews"
	CollectionReviewLikes  = "review_likes"
)

var localCollections = []string{
	CollectionSchedules,
	CollectionTripReviews,
	CollectionPlaceReviews,
	CollectionReviewLikes,
}

// LocalRecord is one row of a local collection: the entity serialized as
// JSON plus the columns needed for owner listing and cascade deletes.
type LocalRecord struct {
	ID        string    `db:"id"`
	OwnerID   string    `db:"owner_id"`
	ParentID  string    `db:"parent_id"`
	CreatedAt time.Time `db:"created_at"`
	Payload   []byte    `db:"payload"`
}

// LocalStore is the transactional local fallback for user-generated
// entities, used when the remote backend is unreachable and as a passive
// mirror of successful remote writes.
type LocalStore struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// OpenLocalStore opens (or creates) the local store at path and prepares
// every collection table
func OpenLocalStore(path string, logger *logrus.Logger) (*LocalStore, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, &InitializationError{Store: "local", Err: fmt.Errorf("failed to open sqlite: %w", err)}
	}
	db.SetMaxOpenConns(1)

	for _, collection := range localCollections {
		ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL DEFAULT '',
			parent_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			payload BLOB NOT NULL
		)`, collection)
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, &InitializationError{Store: "local", Err: fmt.Errorf("failed to create collection %s: %w", collection, err)}
		}
		// secondary indexes for owner listing and cascade deletes
		for _, idx := range []string{"owner_id", "parent_id"} {
			stmt := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s(%s)`, collection, idx, collection, idx)
			if _, err := db.Exec(stmt); err != nil {
				db.Close()
				return nil, &InitializationError{Store: "local", Err: fmt.Errorf("failed to index collection %s: %w", collection, err)}
			}
		}
	}

	return &LocalStore{db: db, logger: logger}, nil
}

// Close releases the local store
func (s *LocalStore) Close() error {
	return s.db.Close()
}

// Ping verifies the store is reachable
func (s *LocalStore) Ping() error {
	return s.db.Ping()
}

// Put inserts or replaces a record in the collection
func (s *LocalStore) Put(collection string, rec LocalRecord) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (id, owner_id, parent_id, created_at, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			parent_id = excluded.parent_id,
			payload = excluded.payload
	`, collection)
	if _, err := s.db.Exec(query, rec.ID, rec.OwnerID, rec.ParentID, rec.CreatedAt, rec.Payload); err != nil {
		return fmt.Errorf("failed to put %s record: %w", collection, err)
	}
	return nil
}

// Get retrieves one record by id, nil when absent
func (s *LocalStore) Get(collection, id string) (*LocalRecord, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	var rec LocalRecord
	query := fmt.Sprintf(`SELECT * FROM %s WHERE id = ?`, collection)
	err := s.db.Get(&rec, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s record: %w", collection, err)
	}
	return &rec, nil
}

// ListByOwner returns the owner's records newest-first
func (s *LocalStore) ListByOwner(collection, ownerID string) ([]LocalRecord, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	var recs []LocalRecord
	query := fmt.Sprintf(`SELECT * FROM %s WHERE owner_id = ? ORDER BY created_at DESC`, collection)
	if err := s.db.Select(&recs, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", collection, err)
	}
	return recs, nil
}

// ListByParent returns the records owned by a parent entity, oldest-first
func (s *LocalStore) ListByParent(collection, parentID string) ([]LocalRecord, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	var recs []LocalRecord
	query := fmt.Sprintf(`SELECT * FROM %s WHERE parent_id = ? ORDER BY created_at ASC`, collection)
	if err := s.db.Select(&recs, query, parentID); err != nil {
		return nil, fmt.Errorf("failed to list %s records by parent: %w", collection, err)
	}
	return recs, nil
}

// Delete removes a record by id. If the direct delete matches nothing the
// whole collection is scanned for an id that matches after trimming, which
// papers over ids that were stored with stray whitespace. Deleting an id
// that does not exist at all is a silent no-op.
func (s *LocalStore) Delete(collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	res, err := s.db.Exec(fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, collection), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s record: %w", collection, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	// direct delete hit nothing; linear scan before declaring a no-op
	var ids []string
	if err := s.db.Select(&ids, fmt.Sprintf(`SELECT id FROM %s`, collection)); err != nil {
		return fmt.Errorf("failed to scan %s ids: %w", collection, err)
	}
	want := strings.TrimSpace(id)
	for _, candidate := range ids {
		if strings.TrimSpace(candidate) == want {
			if _, err := s.db.Exec(fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, collection), candidate); err != nil {
				return fmt.Errorf("failed to delete %s record after scan: %w", collection, err)
			}
			return nil
		}
	}

	s.logger.WithFields(logrus.Fields{
		"collection": collection,
		"id":         id,
	}).Debug("Delete matched no local record")
	return nil
}

// Wipe removes every record from the collection and reports how many rows
// were deleted
func (s *LocalStore) Wipe(collection string) (int64, error) {
	if err := checkCollection(collection); err != nil {
		return 0, err
	}
	res, err := s.db.Exec(fmt.Sprintf(`DELETE FROM %s`, collection))
	if err != nil {
		return 0, fmt.Errorf("failed to wipe %s: %w", collection, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

// DeleteByParent removes every record owned by the parent entity
func (s *LocalStore) DeleteByParent(collection, parentID string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if _, err := s.db.Exec(fmt.Sprintf(`DELETE FROM %s WHERE parent_id = ?`, collection), parentID); err != nil {
		return fmt.Errorf("failed to delete %s records by parent: %w", collection, err)
	}
	return nil
}

// UpdatePayload applies mutate to the stored payload inside a transaction,
// so the read-modify-write is atomic relative to other operations on the
// store. Returns ErrNotFound when the record is absent.
func (s *LocalStore) UpdatePayload(collection, id string, mutate func([]byte) ([]byte, error)) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var payload []byte
	err = tx.Get(&payload, fmt.Sprintf(`SELECT payload FROM %s WHERE id = ?`, collection), id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read %s payload: %w", collection, err)
	}

	updated, err := mutate(payload)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(fmt.Sprintf(`UPDATE %s SET payload = ? WHERE id = ?`, collection), updated, id); err != nil {
		return fmt.Errorf("failed to write %s payload: %w", collection, err)
	}
	return tx.Commit()
}

func checkCollection(collection string) error {
	for _, known := range localCollections {
		if known == collection {
			return nil
		}
	}
	return fmt.Errorf("unknown collection: %s", collection)
}
