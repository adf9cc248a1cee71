package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"
)

var logger = log.New(os.Stdout, "", 0)

// Step is one forward-only schema change, recorded by name once applied.
type Step struct {
	Name string
	SQL  string
}

const ledgerDDL = `CREATE TABLE IF NOT EXISTS schema_migrations (
  name        TEXT        PRIMARY KEY,
  applied_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// Steps is the ordered schema history. Append only.
var Steps = []Step{
	{
		Name: "001_students",
		SQL: `CREATE TABLE IF NOT EXISTS students (
  id          TEXT        PRIMARY KEY,
  full_name   TEXT        NOT NULL,
  class_name  TEXT        NOT NULL,
  data        JSONB       NOT NULL DEFAULT '{}'::jsonb,
  updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_students_class_name ON students (class_name, full_name);`,
	},
	{
		Name: "002_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id          TEXT        PRIMARY KEY,
  student_id  TEXT        NOT NULL REFERENCES students (id) ON DELETE CASCADE,
  position    INTEGER     NOT NULL DEFAULT 0,
  category    TEXT        NOT NULL CHECK (category IN ('IJAZAH','AKTA','KK','KTP_AYAH','KTP_IBU','KIP','SKL','FOTO')),
  name        TEXT        NOT NULL,
  kind        TEXT        NOT NULL CHECK (kind IN ('IMAGE','PDF')),
  location    TEXT        NOT NULL,
  status      TEXT        NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING','APPROVED','REVISION')),
  admin_note  TEXT,
  updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_documents_student_id ON documents (student_id, position);`,
	},
	{
		Name: "003_documents_status_index",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_status ON documents (status) WHERE status <> 'APPROVED';`,
	},
}

type run struct {
	loc    *time.Location
	dbHost string
	start  time.Time
}

func (r run) emit(event, status string, extra map[string]any) {
	data := map[string]any{
		"component": "database",
		"event":     event,
		"status":    status,
		"db_host":   r.dbHost,
	}
	if status != "starting" {
		data["duration_ms"] = time.Since(r.start).Milliseconds()
	}
	for k, v := range extra {
		data[k] = v
	}
	logJSON(r.loc, data)
}

// EnsureMigrated applies every step of Steps not yet listed in schema_migrations.
// Each step and its ledger row commit together.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	r := run{loc: loc, dbHost: dbHost, start: time.Now()}
	r.emit("db_migration_check", "starting", nil)

	applied, err := appliedSteps(ctx, db)
	if err != nil {
		r.emit("db_migration_failed", "error", map[string]any{"error_message": err.Error()})
		return err
	}

	pending := 0
	for _, step := range Steps {
		if applied[step.Name] {
			continue
		}
		pending++
		stepStart := time.Now()
		if err := apply(ctx, db, step); err != nil {
			r.emit("db_migration_failed", "error", map[string]any{
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		r.emit("db_migration_step", "success", map[string]any{
			"migration_step":   step.Name,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	if pending == 0 {
		r.emit("db_migration_skip", "success", map[string]any{"msg": "schema up to date"})
		return nil
	}
	r.emit("db_migration_success", "success", map[string]any{"applied": pending})
	return nil
}

func appliedSteps(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	if _, err := db.ExecContext(ctx, ledgerDDL); err != nil {
		return nil, fmt.Errorf("create migration ledger: %w", err)
	}
	rows, err := db.QueryContext(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("read migration ledger: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("read migration ledger: %w", err)
		}
		applied[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read migration ledger: %w", err)
	}
	return applied, nil
}

func apply(ctx context.Context, db *sql.DB, step Step) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, step.SQL); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, step.Name); err != nil {
		return err
	}
	return tx.Commit()
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		data["level"] = "info"
		if data["status"] == "error" {
			data["level"] = "error"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	logger.Println(string(b))
}
