package db

import (
	"compress/gzip"
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/tailscale/tailsql/server/tailsql"
	_ "modernc.org/sqlite"
	"tailscale.com/tsweb"

	"github.com/ThomasJButler/iAI-Assessment/internal/compare"
)

type DB struct {
	*sql.DB
}

// OpenDB opens the database without creating any schema. Used by the
// migrate subcommand, which manages the schema itself.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

// NewDB opens the database at path and ensures the comparison schema exists.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id                    TEXT PRIMARY KEY,
			mapping1_path             TEXT,
			mapping2_path             TEXT,
			response_count            BIGINT,
			jaccard_mean              DOUBLE,
			jaccard_median            DOUBLE,
			jaccard_std               DOUBLE,
			jaccard_min               DOUBLE,
			jaccard_max               DOUBLE,
			agreement_percentage      DOUBLE,
			additions_total           BIGINT,
			removals_total            BIGINT,
			replacements_total        BIGINT,
			changes_per_response_mean DOUBLE,
			kappa_mean                DOUBLE,
			created_at                TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS theme_metrics (
			run_id            TEXT,
			theme             TEXT,
			kappa             DOUBLE,
			freq_mapping1     BIGINT,
			freq_mapping2     BIGINT,
			freq_delta        BIGINT,
			degenerate        BIGINT,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
		CREATE TABLE IF NOT EXISTS response_metrics (
			run_id            TEXT,
			response_index    BIGINT,
			jaccard           DOUBLE,
			exact_match       BIGINT,
			additions         BIGINT,
			removals          BIGINT,
			replacements      BIGINT,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
		CREATE TABLE IF NOT EXISTS run_warnings (
			run_id            TEXT,
			theme             TEXT,
			note              TEXT,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// RunSummary is the row stored per comparison run, without the per-theme
// and per-response detail.
type RunSummary struct {
	RunID         string            `json:"run_id"`
	Mapping1Path  string            `json:"mapping1_path"`
	Mapping2Path  string            `json:"mapping2_path"`
	ResponseCount int               `json:"response_count"`
	CreatedAt     string            `json:"created_at"`
	Aggregate     compare.Aggregate `json:"aggregate"`
}

func (r *RunSummary) String() string {
	return fmt.Sprintf(
		"RunID: %s, Mapping1: %s, Mapping2: %s, Responses: %d, JaccardMean: %f, Agreement: %f%%",
		r.RunID,
		r.Mapping1Path,
		r.Mapping2Path,
		r.ResponseCount,
		r.Aggregate.JaccardMean,
		r.Aggregate.AgreementPercentage,
	)
}

// SaveRun persists a full comparison result under runID. All rows are
// written in one transaction so a run is either fully stored or absent.
func (db *DB) SaveRun(runID, mapping1Path, mapping2Path string, result *compare.Result) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin save transaction: %w", err)
	}
	defer tx.Rollback()

	agg := result.Aggregate
	_, err = tx.Exec(
		`INSERT INTO runs (
			run_id, mapping1_path, mapping2_path, response_count,
			jaccard_mean, jaccard_median, jaccard_std, jaccard_min, jaccard_max,
			agreement_percentage, additions_total, removals_total, replacements_total,
			changes_per_response_mean, kappa_mean
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, mapping1Path, mapping2Path, len(result.PerResponse),
		agg.JaccardMean, agg.JaccardMedian, agg.JaccardStd, agg.JaccardMin, agg.JaccardMax,
		agg.AgreementPercentage, agg.AdditionsTotal, agg.RemovalsTotal, agg.ReplacementsTotal,
		agg.ChangesPerResponseMean, agg.KappaMean,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", runID, err)
	}

	for _, tm := range result.PerTheme {
		degenerate := 0
		if tm.Degenerate {
			degenerate = 1
		}
		_, err = tx.Exec(
			`INSERT INTO theme_metrics (
				run_id, theme, kappa, freq_mapping1, freq_mapping2, freq_delta, degenerate
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, tm.Theme, tm.Kappa, tm.FreqMapping1, tm.FreqMapping2, tm.FreqDelta, degenerate,
		)
		if err != nil {
			return fmt.Errorf("failed to insert theme metrics for %q: %w", tm.Theme, err)
		}
	}

	for i, rm := range result.PerResponse {
		exactMatch := 0
		if rm.ExactMatch {
			exactMatch = 1
		}
		_, err = tx.Exec(
			`INSERT INTO response_metrics (
				run_id, response_index, jaccard, exact_match, additions, removals, replacements
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, i, rm.Jaccard, exactMatch, rm.Additions, rm.Removals, rm.Replacements,
		)
		if err != nil {
			return fmt.Errorf("failed to insert response metrics at index %d: %w", i, err)
		}
	}

	for _, w := range result.Warnings {
		_, err = tx.Exec(
			"INSERT INTO run_warnings (run_id, theme, note) VALUES (?, ?, ?)",
			runID, w.Theme, w.Note,
		)
		if err != nil {
			return fmt.Errorf("failed to insert warning for %q: %w", w.Theme, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns summaries for the most recent runs, newest first.
func (db *DB) ListRuns() ([]RunSummary, error) {
	rows, err := db.Query(`SELECT run_id, mapping1_path, mapping2_path, response_count,
			jaccard_mean, jaccard_median, jaccard_std, jaccard_min, jaccard_max,
			agreement_percentage, additions_total, removals_total, replacements_total,
			changes_per_response_mean, kappa_mean, created_at
		FROM runs ORDER BY created_at DESC LIMIT 100`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(
			&r.RunID,
			&r.Mapping1Path,
			&r.Mapping2Path,
			&r.ResponseCount,
			&r.Aggregate.JaccardMean,
			&r.Aggregate.JaccardMedian,
			&r.Aggregate.JaccardStd,
			&r.Aggregate.JaccardMin,
			&r.Aggregate.JaccardMax,
			&r.Aggregate.AgreementPercentage,
			&r.Aggregate.AdditionsTotal,
			&r.Aggregate.RemovalsTotal,
			&r.Aggregate.ReplacementsTotal,
			&r.Aggregate.ChangesPerResponseMean,
			&r.Aggregate.KappaMean,
			&r.CreatedAt,
		); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// GetRun loads the summary and full result for a single run.
// Returns sql.ErrNoRows if the run does not exist.
func (db *DB) GetRun(runID string) (*RunSummary, *compare.Result, error) {
	var r RunSummary
	err := db.QueryRow(`SELECT run_id, mapping1_path, mapping2_path, response_count,
			jaccard_mean, jaccard_median, jaccard_std, jaccard_min, jaccard_max,
			agreement_percentage, additions_total, removals_total, replacements_total,
			changes_per_response_mean, kappa_mean, created_at
		FROM runs WHERE run_id = ?`, runID).Scan(
		&r.RunID,
		&r.Mapping1Path,
		&r.Mapping2Path,
		&r.ResponseCount,
		&r.Aggregate.JaccardMean,
		&r.Aggregate.JaccardMedian,
		&r.Aggregate.JaccardStd,
		&r.Aggregate.JaccardMin,
		&r.Aggregate.JaccardMax,
		&r.Aggregate.AgreementPercentage,
		&r.Aggregate.AdditionsTotal,
		&r.Aggregate.RemovalsTotal,
		&r.Aggregate.ReplacementsTotal,
		&r.Aggregate.ChangesPerResponseMean,
		&r.Aggregate.KappaMean,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, nil, err
	}

	result := &compare.Result{Aggregate: r.Aggregate}

	themeRows, err := db.Query(`SELECT theme, kappa, freq_mapping1, freq_mapping2, freq_delta, degenerate
		FROM theme_metrics WHERE run_id = ? ORDER BY theme`, runID)
	if err != nil {
		return nil, nil, err
	}
	defer themeRows.Close()

	for themeRows.Next() {
		var tm compare.ThemeMetrics
		var degenerate int
		if err := themeRows.Scan(&tm.Theme, &tm.Kappa, &tm.FreqMapping1, &tm.FreqMapping2, &tm.FreqDelta, &degenerate); err != nil {
			return nil, nil, err
		}
		tm.Degenerate = degenerate != 0
		result.PerTheme = append(result.PerTheme, tm)
	}
	if err := themeRows.Err(); err != nil {
		return nil, nil, err
	}

	respRows, err := db.Query(`SELECT jaccard, exact_match, additions, removals, replacements
		FROM response_metrics WHERE run_id = ? ORDER BY response_index`, runID)
	if err != nil {
		return nil, nil, err
	}
	defer respRows.Close()

	for respRows.Next() {
		var rm compare.ResponseMetrics
		var exactMatch int
		if err := respRows.Scan(&rm.Jaccard, &exactMatch, &rm.Additions, &rm.Removals, &rm.Replacements); err != nil {
			return nil, nil, err
		}
		rm.ExactMatch = exactMatch != 0
		result.PerResponse = append(result.PerResponse, rm)
	}
	if err := respRows.Err(); err != nil {
		return nil, nil, err
	}

	warnRows, err := db.Query("SELECT theme, note FROM run_warnings WHERE run_id = ? ORDER BY theme", runID)
	if err != nil {
		return nil, nil, err
	}
	defer warnRows.Close()

	for warnRows.Next() {
		var w compare.DegenerateMetricWarning
		if err := warnRows.Scan(&w.Theme, &w.Note); err != nil {
			return nil, nil, err
		}
		result.Warnings = append(result.Warnings, w)
	}
	if err := warnRows.Err(); err != nil {
		return nil, nil, err
	}

	return &r, result, nil
}

// DeleteRun removes a run and all of its detail rows.
func (db *DB) DeleteRun(runID string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"run_warnings", "response_metrics", "theme_metrics", "runs"} {
		if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE run_id = ?", table), runID); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}

	return tx.Commit()
}

func (db *DB) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)
	// create a tailSQL instance and point it to our DB
	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		log.Fatalf("failed to create tailsql server: %v", err)
	}
	tsql.SetDB("sqlite://comparisons.db", db.DB, &tailsql.DBOptions{
		Label: "Comparison runs DB",
	})

	// mount the tailSQL server on the debug /tailsql path
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	debug.Handle("backup", "Create and download a backup of the database now", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		unixTime := time.Now().Unix()
		backupPath := fmt.Sprintf("backup-%d.db", unixTime)
		if _, err := db.DB.Exec("VACUUM INTO ?", backupPath); err != nil {
			http.Error(w, fmt.Sprintf("Failed to create backup: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", backupPath))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Encoding", "gzip")

		backupFile, err := os.Open(backupPath)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to open backup file: %v", err), http.StatusInternalServerError)
			return
		}

		// close the backup file after sending it
		// and remove it from the filesystem
		defer func() {
			backupFile.Close()
			if err := os.Remove(backupPath); err != nil {
				log.Printf("Failed to remove backup file: %v", err)
			}
		}()

		gzipWriter := gzip.NewWriter(w)
		defer gzipWriter.Close()

		if _, err := io.Copy(gzipWriter, backupFile); err != nil {
			http.Error(w, fmt.Sprintf("Failed to write backup file: %v", err), http.StatusInternalServerError)
			return
		}
	}))
}
