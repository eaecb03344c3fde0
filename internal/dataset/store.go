// Package dataset materializes the strategy engine's inputs from a local
// SQLite file: ward election histories, demographic and deprivation profiles,
// ward centroids, defence status, national reference shares, and the optional
// calibration table.
//
// The store is read-mostly: a loader populates it once, the pipeline then
// queries it per run. Missing units come back as absent values, never errors;
// the only hard failure mode is a ward identity that does not exist at all,
// signalled by ok=false.
package dataset

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/openelect/wardcast/internal/logger"
	"github.com/openelect/wardcast/internal/models"
)

// Store wraps the SQLite dataset.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the dataset at path and applies the
// schema. Use ":memory:" for an ephemeral store in tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate dataset %s: %w", path, err)
	}
	logger.Info("Dataset opened at %s", path)
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS elections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ward TEXT NOT NULL,
		date TEXT NOT NULL,
		type TEXT NOT NULL,
		electorate INTEGER NOT NULL,
		turnout REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_elections_ward ON elections(ward, date);

	CREATE TABLE IF NOT EXISTS results (
		election_id INTEGER NOT NULL,
		party TEXT NOT NULL,
		share REAL NOT NULL,
		FOREIGN KEY (election_id) REFERENCES elections(id)
	);
	CREATE INDEX IF NOT EXISTS idx_results_election ON results(election_id);

	CREATE TABLE IF NOT EXISTS demographics (
		ward TEXT PRIMARY KEY,
		population INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS demographic_bands (
		ward TEXT NOT NULL,
		kind TEXT NOT NULL,
		band TEXT NOT NULL,
		count INTEGER NOT NULL,
		PRIMARY KEY (ward, kind, band)
	);

	CREATE TABLE IF NOT EXISTS deprivation (
		ward TEXT PRIMARY KEY,
		score REAL NOT NULL,
		decile INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS centroids (
		ward TEXT PRIMARY KEY,
		lon REAL NOT NULL,
		lat REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ward_status (
		ward TEXT PRIMARY KEY,
		contested INTEGER NOT NULL DEFAULT 1,
		defender TEXT NOT NULL DEFAULT '',
		defender_retiring INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS retained_seats (
		ward TEXT NOT NULL,
		party TEXT NOT NULL,
		seats INTEGER NOT NULL,
		PRIMARY KEY (ward, party)
	);

	CREATE TABLE IF NOT EXISTS reference_shares (
		scope TEXT NOT NULL,
		party TEXT NOT NULL,
		share REAL NOT NULL,
		PRIMARY KEY (scope, party)
	);

	CREATE TABLE IF NOT EXISTS calibration (
		kind TEXT NOT NULL,
		party TEXT NOT NULL,
		feature TEXT NOT NULL DEFAULT '',
		value REAL NOT NULL,
		PRIMARY KEY (kind, party, feature)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Reference-share scopes.
const (
	ScopeNationalPolling = "national_polling"
	ScopePriorNational   = "prior_national"
	ScopeRecentLocal     = "recent_local"
)

// Calibration kinds.
const (
	calSwingDampening = "swing_dampening"
	calDemographic    = "demographic_coeff"
	calMAE            = "mean_absolute_error"
)

const dateLayout = "2006-01-02"

// InsertHistory stores a ward's full election history, validating each record.
func (s *Store) InsertHistory(h models.WardElectionHistory) error {
	if err := h.Validate(); err != nil {
		return fmt.Errorf("invalid history for %s: %w", h.Ward, err)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, e := range h.Elections {
		res, err := tx.Exec(
			`INSERT INTO elections (ward, date, type, electorate, turnout) VALUES (?, ?, ?, ?, ?)`,
			h.Ward, e.Date.Format(dateLayout), e.Type, e.Electorate, e.Turnout,
		)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for _, c := range e.Candidates {
			if _, err := tx.Exec(
				`INSERT INTO results (election_id, party, share) VALUES (?, ?, ?)`,
				id, c.Party, c.Share,
			); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// History loads a ward's election history, oldest first. ok is false when the
// ward has no elections at all.
func (s *Store) History(ward string) (models.WardElectionHistory, bool, error) {
	h := models.WardElectionHistory{Ward: ward}

	rows, err := s.db.Query(
		`SELECT id, date, type, electorate, turnout FROM elections WHERE ward = ? ORDER BY date ASC`, ward)
	if err != nil {
		return h, false, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var (
			id      int64
			dateStr string
			e       models.ElectionRecord
		)
		if err := rows.Scan(&id, &dateStr, &e.Type, &e.Electorate, &e.Turnout); err != nil {
			return h, false, err
		}
		e.Date, err = time.Parse(dateLayout, dateStr)
		if err != nil {
			return h, false, fmt.Errorf("bad election date %q for %s: %w", dateStr, ward, err)
		}
		h.Elections = append(h.Elections, e)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return h, false, err
	}
	if len(h.Elections) == 0 {
		return h, false, nil
	}

	for i, id := range ids {
		crows, err := s.db.Query(`SELECT party, share FROM results WHERE election_id = ?`, id)
		if err != nil {
			return h, false, err
		}
		for crows.Next() {
			var c models.CandidateResult
			if err := crows.Scan(&c.Party, &c.Share); err != nil {
				crows.Close()
				return h, false, err
			}
			h.Elections[i].Candidates = append(h.Elections[i].Candidates, c)
		}
		if err := crows.Err(); err != nil {
			crows.Close()
			return h, false, err
		}
		crows.Close()
	}
	return h, true, nil
}

// InsertDemographics stores a ward's census profile.
func (s *Store) InsertDemographics(d models.DemographicProfile) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("invalid demographics for %s: %w", d.Ward, err)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO demographics (ward, population) VALUES (?, ?)`,
		d.Ward, d.Population,
	); err != nil {
		return err
	}
	for kind, bands := range map[string]map[string]int{
		"age": d.AgeBands, "ethnicity": d.EthnicityBands, "economic": d.EconomicBands,
	} {
		for band, count := range bands {
			if _, err := tx.Exec(
				`INSERT OR REPLACE INTO demographic_bands (ward, kind, band, count) VALUES (?, ?, ?, ?)`,
				d.Ward, kind, band, count,
			); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// Demographics loads a ward's census profile, or nil when none is stored.
func (s *Store) Demographics(ward string) (*models.DemographicProfile, error) {
	d := models.DemographicProfile{
		Ward:           ward,
		AgeBands:       make(map[string]int),
		EthnicityBands: make(map[string]int),
		EconomicBands:  make(map[string]int),
	}
	err := s.db.QueryRow(`SELECT population FROM demographics WHERE ward = ?`, ward).Scan(&d.Population)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT kind, band, count FROM demographic_bands WHERE ward = ?`, ward)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var kind, band string
		var count int
		if err := rows.Scan(&kind, &band, &count); err != nil {
			return nil, err
		}
		switch kind {
		case "age":
			d.AgeBands[band] = count
		case "ethnicity":
			d.EthnicityBands[band] = count
		case "economic":
			d.EconomicBands[band] = count
		}
	}
	return &d, rows.Err()
}

// InsertDeprivation stores a ward's deprivation summary.
func (s *Store) InsertDeprivation(d models.DeprivationProfile) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("invalid deprivation for %s: %w", d.Ward, err)
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO deprivation (ward, score, decile) VALUES (?, ?, ?)`,
		d.Ward, d.Score, d.Decile,
	)
	return err
}

// Deprivation loads a ward's deprivation summary, or nil when none is stored.
func (s *Store) Deprivation(ward string) (*models.DeprivationProfile, error) {
	d := models.DeprivationProfile{Ward: ward}
	err := s.db.QueryRow(`SELECT score, decile FROM deprivation WHERE ward = ?`, ward).Scan(&d.Score, &d.Decile)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// InsertCentroid stores a ward's representative point.
func (s *Store) InsertCentroid(ward string, c models.Centroid) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid centroid for %s: %w", ward, err)
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO centroids (ward, lon, lat) VALUES (?, ?, ?)`,
		ward, c.Lon, c.Lat,
	)
	return err
}

// Centroids loads every stored ward centroid.
func (s *Store) Centroids() (map[string]models.Centroid, error) {
	rows, err := s.db.Query(`SELECT ward, lon, lat FROM centroids`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]models.Centroid)
	for rows.Next() {
		var ward string
		var c models.Centroid
		if err := rows.Scan(&ward, &c.Lon, &c.Lat); err != nil {
			return nil, err
		}
		out[ward] = c
	}
	return out, rows.Err()
}

// InsertStatus stores a ward's defence status and retained seats.
func (s *Store) InsertStatus(status models.WardStatus) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO ward_status (ward, contested, defender, defender_retiring) VALUES (?, ?, ?, ?)`,
		status.Ward, boolToInt(status.Contested), status.Defender, boolToInt(status.DefenderRetiring),
	); err != nil {
		return err
	}
	for party, seats := range status.RetainedSeats {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO retained_seats (ward, party, seats) VALUES (?, ?, ?)`,
			status.Ward, party, seats,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Status loads a ward's defence status. ok is false for an unknown ward.
func (s *Store) Status(ward string) (models.WardStatus, bool, error) {
	status := models.WardStatus{Ward: ward, RetainedSeats: make(map[string]int)}
	var contested, retiring int
	err := s.db.QueryRow(
		`SELECT contested, defender, defender_retiring FROM ward_status WHERE ward = ?`, ward,
	).Scan(&contested, &status.Defender, &retiring)
	if err == sql.ErrNoRows {
		return status, false, nil
	}
	if err != nil {
		return status, false, err
	}
	status.Contested = contested != 0
	status.DefenderRetiring = retiring != 0

	rows, err := s.db.Query(`SELECT party, seats FROM retained_seats WHERE ward = ?`, ward)
	if err != nil {
		return status, false, err
	}
	defer rows.Close()
	for rows.Next() {
		var party string
		var seats int
		if err := rows.Scan(&party, &seats); err != nil {
			return status, false, err
		}
		status.RetainedSeats[party] = seats
	}
	return status, true, rows.Err()
}

// Wards returns every ward with a status row, sorted by name.
func (s *Store) Wards() ([]string, error) {
	rows, err := s.db.Query(`SELECT ward FROM ward_status ORDER BY ward ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wards []string
	for rows.Next() {
		var ward string
		if err := rows.Scan(&ward); err != nil {
			return nil, err
		}
		wards = append(wards, ward)
	}
	return wards, rows.Err()
}

// InsertReference stores one reference-scope share vector, replacing any
// previous shares for that scope.
func (s *Store) InsertReference(scope string, shares models.ShareVector) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM reference_shares WHERE scope = ?`, scope); err != nil {
		return err
	}
	for party, share := range shares {
		if _, err := tx.Exec(
			`INSERT INTO reference_shares (scope, party, share) VALUES (?, ?, ?)`,
			scope, party, share,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// References loads all three reference scopes. Missing scopes come back as
// empty vectors; a party with no ward baseline then simply gets no proxy.
func (s *Store) References() (models.ReferenceResults, error) {
	refs := models.ReferenceResults{
		NationalPolling: make(models.ShareVector),
		PriorNational:   make(models.ShareVector),
		RecentLocal:     make(models.ShareVector),
	}
	rows, err := s.db.Query(`SELECT scope, party, share FROM reference_shares`)
	if err != nil {
		return refs, err
	}
	defer rows.Close()

	for rows.Next() {
		var scope, party string
		var share float64
		if err := rows.Scan(&scope, &party, &share); err != nil {
			return refs, err
		}
		switch scope {
		case ScopeNationalPolling:
			refs.NationalPolling[party] = share
		case ScopePriorNational:
			refs.PriorNational[party] = share
		case ScopeRecentLocal:
			refs.RecentLocal[party] = share
		default:
			logger.Warn("References: unknown scope %q ignored", scope)
		}
	}
	return refs, rows.Err()
}

// InsertCalibration stores a fitted coefficient table.
func (s *Store) InsertCalibration(cal models.Calibration) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for party, value := range cal.SwingDampening {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO calibration (kind, party, feature, value) VALUES (?, ?, '', ?)`,
			calSwingDampening, party, value,
		); err != nil {
			return err
		}
	}
	for party, features := range cal.DemographicCoeffs {
		for feature, value := range features {
			if _, err := tx.Exec(
				`INSERT OR REPLACE INTO calibration (kind, party, feature, value) VALUES (?, ?, ?, ?)`,
				calDemographic, party, feature, value,
			); err != nil {
				return err
			}
		}
	}
	for party, value := range cal.MeanAbsoluteError {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO calibration (kind, party, feature, value) VALUES (?, ?, '', ?)`,
			calMAE, party, value,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Calibration loads the fitted coefficient table, or nil when none is stored
// (which switches the pipeline to its rule-based strategies).
func (s *Store) Calibration() (*models.Calibration, error) {
	rows, err := s.db.Query(`SELECT kind, party, feature, value FROM calibration`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cal := models.Calibration{
		SwingDampening:    make(map[string]float64),
		DemographicCoeffs: make(map[string]map[string]float64),
		MeanAbsoluteError: make(map[string]float64),
	}
	empty := true
	for rows.Next() {
		var kind, party, feature string
		var value float64
		if err := rows.Scan(&kind, &party, &feature, &value); err != nil {
			return nil, err
		}
		empty = false
		switch kind {
		case calSwingDampening:
			cal.SwingDampening[party] = value
		case calDemographic:
			if cal.DemographicCoeffs[party] == nil {
				cal.DemographicCoeffs[party] = make(map[string]float64)
			}
			cal.DemographicCoeffs[party][feature] = value
		case calMAE:
			cal.MeanAbsoluteError[party] = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if empty {
		return nil, nil
	}
	return &cal, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
