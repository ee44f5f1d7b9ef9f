package database

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // goqu sqlite dialect
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/viaflight/layover-planner/internal/models"
	"github.com/viaflight/layover-planner/pkg/openhours"
)

// FacilityStore owns the embedded, read-only facility database: one SQLite
// table per category family plus the airports table, loaded once from a SQL
// seed dump. Facilities are immutable after load.
type FacilityStore struct {
	path     string
	seedPath string
	logger   *logrus.Logger
	dialect  goqu.DialectWrapper

	db *sqlx.DB
}

// NewFacilityStore creates a facility store backed by the SQLite database
// at path (":memory:" for tests), seeded from the dump at seedPath.
func NewFacilityStore(path, seedPath string, logger *logrus.Logger) *FacilityStore {
	return &FacilityStore{
		path:     path,
		seedPath: seedPath,
		logger:   logger,
		dialect:  goqu.Dialect("sqlite3"),
	}
}

// Initialize loads the schema and seed data. It is idempotent; on failure
// the store is left uninitialized and the next query retries the whole load
// instead of silently returning empty results.
func (s *FacilityStore) Initialize() error {
	if s.db != nil {
		return nil
	}

	dump, err := os.ReadFile(s.seedPath)
	if err != nil {
		return &InitializationError{Store: "facility", Err: fmt.Errorf("failed to read seed dump: %w", err)}
	}
	return s.InitializeFromDump(string(dump))
}

// InitializeFromDump loads the schema and applies the given seed dump
func (s *FacilityStore) InitializeFromDump(dump string) error {
	if s.db != nil {
		return nil
	}

	db, err := sqlx.Open("sqlite", s.path)
	if err != nil {
		return &InitializationError{Store: "facility", Err: fmt.Errorf("failed to open sqlite: %w", err)}
	}
	// single connection serializes all access to the embedded engine
	db.SetMaxOpenConns(1)

	if err := createFacilitySchema(db); err != nil {
		db.Close()
		return &InitializationError{Store: "facility", Err: err}
	}

	applied := 0
	for _, stmt := range SplitSeedStatements(dump) {
		if _, err := db.Exec(stmt); err != nil {
			s.logger.WithError(err).WithField("statement", truncateStatement(stmt)).
				Warn("Skipping malformed seed statement")
			continue
		}
		applied++
	}

	s.logger.WithField("statements", applied).Info("Facility seed data loaded")
	s.db = db
	return nil
}

// Ready reports whether the seed has been applied
func (s *FacilityStore) Ready() bool {
	return s.db != nil
}

// Close releases the embedded database
func (s *FacilityStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *FacilityStore) ensureReady() error {
	if s.db != nil {
		return nil
	}
	return s.Initialize()
}

// QueryFacilities scans every category-family table for rows at the given
// airport, optionally restricted to one category. A failed query against a
// single table is logged and skipped; the remaining tables still
// contribute. Result order is not guaranteed.
func (s *FacilityStore) QueryFacilities(airportCode string, category *models.Category) ([]models.Facility, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}

	var facilities []models.Facility
	for _, family := range models.Families {
		if category != nil && !family.Hosts(*category) {
			continue
		}

		ds := s.dialect.From(string(family.Table)).
			Select(facilityColumns(family)...).
			Where(goqu.C("airport_code").Eq(airportCode))
		if category != nil {
			ds = ds.Where(goqu.C("category").Eq(string(*category)))
		}

		rows, err := s.selectFacilities(family, ds)
		if err != nil {
			s.logger.WithError(err).Warn("Skipping category table")
			continue
		}
		facilities = append(facilities, rows...)
	}
	return facilities, nil
}

// SearchFacilities matches the term case-insensitively against each
// family's name column and the description column, substring match.
func (s *FacilityStore) SearchFacilities(airportCode, term string) ([]models.Facility, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}

	pattern := "%" + strings.ToLower(term) + "%"
	var facilities []models.Facility
	for _, family := range models.Families {
		ds := s.dialect.From(string(family.Table)).
			Select(facilityColumns(family)...).
			Where(
				goqu.C("airport_code").Eq(airportCode),
				goqu.Or(
					goqu.L("LOWER("+family.NameColumn+") LIKE ?", pattern),
					goqu.L("LOWER(COALESCE(description, '')) LIKE ?", pattern),
				),
			)

		rows, err := s.selectFacilities(family, ds)
		if err != nil {
			s.logger.WithError(err).Warn("Skipping category table during search")
			continue
		}
		facilities = append(facilities, rows...)
	}
	return facilities, nil
}

// QueryAirportInfo retrieves airport metadata by code
func (s *FacilityStore) QueryAirportInfo(airportCode string) (*models.Airport, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}

	var airport models.Airport
	err := s.db.Get(&airport, `SELECT * FROM airports WHERE code = ?`, airportCode)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get airport: %w", err)
	}
	return &airport, nil
}

// IsOperatingNow reports whether the facility is operating at the given time
func (s *FacilityStore) IsOperatingNow(f *models.Facility, at time.Time) bool {
	return openhours.IsOpenAt(f.OpenTime.String, f.CloseTime.String, at)
}

func (s *FacilityStore) selectFacilities(family models.FamilySpec, ds *goqu.SelectDataset) ([]models.Facility, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, &QueryError{Table: string(family.Table), Err: err}
	}

	var rows []models.Facility
	if err := s.db.Select(&rows, query, args...); err != nil {
		return nil, &QueryError{Table: string(family.Table), Err: err}
	}
	for i := range rows {
		rows[i].SourceTable = family.Table
	}
	return rows, nil
}

// facilityColumns aliases the family-specific name column to "name" so
// every table scans into the same struct
func facilityColumns(family models.FamilySpec) []interface{} {
	return []interface{}{
		goqu.C("id"),
		goqu.C("airport_code"),
		goqu.C("category"),
		goqu.C(family.NameColumn).As("name"),
		goqu.C("description"),
		goqu.C("location"),
		goqu.C("open_time"),
		goqu.C("close_time"),
		goqu.C("business_hours"),
		goqu.C("phone"),
		goqu.C("website"),
		goqu.C("cost"),
		goqu.C("image_url"),
	}
}

func createFacilitySchema(db *sqlx.DB) error {
	for _, family := range models.Families {
		ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			airport_code TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '%s',
			%s TEXT NOT NULL,
			description TEXT,
			location TEXT,
			open_time TEXT,
			close_time TEXT,
			business_hours TEXT,
			phone TEXT,
			website TEXT,
			cost TEXT,
			image_url TEXT
		)`, family.Table, family.Categories[0], family.NameColumn)
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("failed to create table %s: %w", family.Table, err)
		}
	}

	airports := `CREATE TABLE IF NOT EXISTS airports (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		name_local TEXT NOT NULL DEFAULT '',
		has_wifi BOOLEAN NOT NULL DEFAULT 0,
		has_smoking_area BOOLEAN NOT NULL DEFAULT 0,
		has_pharmacy BOOLEAN NOT NULL DEFAULT 0,
		has_shower BOOLEAN NOT NULL DEFAULT 0,
		has_hotel BOOLEAN NOT NULL DEFAULT 0,
		currency_info TEXT,
		transit_info TEXT
	)`
	if _, err := db.Exec(airports); err != nil {
		return fmt.Errorf("failed to create airports table: %w", err)
	}
	return nil
}

func truncateStatement(stmt string) string {
	if len(stmt) > 80 {
		return stmt[:80] + "..."
	}
	return stmt
}
