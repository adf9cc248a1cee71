package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"docverify/internal/model"
	"docverify/internal/repository"
)

// StudentPostgres is a PostgreSQL implementation of repository.StudentRepository.
// Profile data is stored as JSONB; documents live in their own table.
type StudentPostgres struct {
	db *sql.DB
}

// NewStudentPostgres creates a new StudentPostgres repository.
func NewStudentPostgres(db *sql.DB) *StudentPostgres {
	return &StudentPostgres{db: db}
}

var _ repository.StudentRepository = (*StudentPostgres)(nil)

// IsNoRowsError reports whether err means the row was missing.
func IsNoRowsError(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, repository.ErrNotFound)
}

const documentColumns = `id, student_id, category, name, kind, location, status, admin_note, updated_at`

// List returns all students with their documents.
func (r *StudentPostgres) List(ctx context.Context) ([]model.Student, error) {
	const qStudents = `
		SELECT id, full_name, class_name, data, updated_at
		FROM students
		ORDER BY class_name, full_name, id
	`
	rows, err := r.db.QueryContext(ctx, qStudents)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := make([]model.Student, 0)
	index := make(map[string]int)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		index[s.ID] = len(students)
		students = append(students, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const qDocs = `SELECT ` + documentColumns + ` FROM documents ORDER BY student_id, position, id`
	docRows, err := r.db.QueryContext(ctx, qDocs)
	if err != nil {
		return nil, err
	}
	defer docRows.Close()

	for docRows.Next() {
		studentID, d, err := scanDocument(docRows)
		if err != nil {
			return nil, err
		}
		// Orphaned rows are skipped.
		if i, ok := index[studentID]; ok {
			students[i].Documents = append(students[i].Documents, d)
		}
	}
	if err := docRows.Err(); err != nil {
		return nil, err
	}
	return students, nil
}

// FindByID fetches a single student and its documents.
func (r *StudentPostgres) FindByID(ctx context.Context, id string) (*model.Student, error) {
	const q = `
		SELECT id, full_name, class_name, data, updated_at
		FROM students
		WHERE id = $1
	`
	s, err := scanStudent(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("student %s: %w", id, repository.ErrNotFound)
		}
		return nil, err
	}

	const qDocs = `SELECT ` + documentColumns + ` FROM documents WHERE student_id = $1 ORDER BY position, id`
	rows, err := r.db.QueryContext(ctx, qDocs, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		_, d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		s.Documents = append(s.Documents, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save updates the student row and upserts every document by id.
// Documents absent from s are left untouched.
func (r *StudentPostgres) Save(ctx context.Context, s *model.Student) (err error) {
	data, err := json.Marshal(s.Data)
	if err != nil {
		return fmt.Errorf("encode student data: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const qStudent = `
		UPDATE students
		SET full_name = $2, class_name = $3, data = $4, updated_at = $5
		WHERE id = $1
	`
	res, err := tx.ExecContext(ctx, qStudent, s.ID, s.FullName, s.ClassName, data, s.UpdatedAt)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("student %s: %w", s.ID, repository.ErrNotFound)
	}

	const qDoc = `
		INSERT INTO documents (id, student_id, position, category, name, kind, location, status, admin_note, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status, admin_note = EXCLUDED.admin_note, updated_at = EXCLUDED.updated_at
	`
	for i, d := range s.Documents {
		if _, err = tx.ExecContext(ctx, qDoc,
			d.ID, s.ID, i, d.Category, d.Name, d.Kind, d.Location, d.Status, d.AdminNote, d.UpdatedAt,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (*model.Student, error) {
	var (
		s   model.Student
		raw []byte
	)
	if err := row.Scan(&s.ID, &s.FullName, &s.ClassName, &raw, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Data = map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.Data); err != nil {
			return nil, fmt.Errorf("decode data of student %s: %w", s.ID, err)
		}
		if s.Data == nil {
			s.Data = map[string]any{}
		}
	}
	return &s, nil
}

func scanDocument(row rowScanner) (string, model.Document, error) {
	var (
		d         model.Document
		studentID string
		note      sql.NullString
	)
	if err := row.Scan(&d.ID, &studentID, &d.Category, &d.Name, &d.Kind, &d.Location, &d.Status, &note, &d.UpdatedAt); err != nil {
		return "", model.Document{}, err
	}
	d.AdminNote = note.String
	return studentID, d, nil
}
