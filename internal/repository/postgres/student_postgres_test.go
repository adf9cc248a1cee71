package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"docverify/internal/model"
	"docverify/internal/repository"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	studentCols  = []string{"id", "full_name", "class_name", "data", "updated_at"}
	documentCols = []string{"id", "student_id", "category", "name", "kind", "location", "status", "admin_note", "updated_at"}
)

func TestStudentPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewStudentPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM students ORDER BY").
		WillReturnRows(sqlmock.NewRows(studentCols).
			AddRow("s1", "Ana", "7A", []byte(`{"father":{"name":"Budi"}}`), now).
			AddRow("s2", "Bayu", "7B", nil, now))
	mock.ExpectQuery("SELECT (.+) FROM documents ORDER BY").
		WillReturnRows(sqlmock.NewRows(documentCols).
			AddRow("d1", "s1", "KK", "kk.jpg", "IMAGE", "s3://kk.jpg", "PENDING", nil, now).
			AddRow("d2", "s1", "IJAZAH", "ijazah.pdf", "PDF", "s3://ijazah.pdf", "REVISION", "Buram", now).
			AddRow("d9", "ghost", "KK", "x.jpg", "IMAGE", "x", "PENDING", nil, now))

	students, err := repo.List(ctx)

	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Budi", students[0].Data["father"].(map[string]any)["name"])
	require.Len(t, students[0].Documents, 2)
	assert.Equal(t, model.CategoryFamilyCard, students[0].Documents[0].Category)
	assert.Equal(t, "Buram", students[0].Documents[1].AdminNote)
	assert.NotNil(t, students[1].Data)
	assert.Empty(t, students[1].Documents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentPostgres_List_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM students").WillReturnError(errors.New("connection reset"))

	_, err = NewStudentPostgres(db).List(context.Background())
	assert.EqualError(t, err, "connection reset")
}

func TestStudentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewStudentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM students WHERE id = ?").
			WithArgs("s1").
			WillReturnRows(sqlmock.NewRows(studentCols).AddRow("s1", "Ana", "7A", []byte(`{}`), time.Now()))
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE student_id = ?").
			WithArgs("s1").
			WillReturnRows(sqlmock.NewRows(documentCols).
				AddRow("d1", "s1", "KK", "kk.jpg", "IMAGE", "kk.jpg", "APPROVED", "Dokumen valid.", time.Now()))

		s, err := repo.FindByID(ctx, "s1")

		assert.NoError(t, err)
		assert.Equal(t, "Ana", s.FullName)
		assert.Equal(t, model.StatusApproved, s.StatusOf(model.CategoryFamilyCard))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM students WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		s, err := repo.FindByID(ctx, "missing")

		assert.Error(t, err)
		assert.True(t, IsNoRowsError(err))
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, s)
	})

	t.Run("corrupt data", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM students WHERE id = ?").
			WithArgs("s2").
			WillReturnRows(sqlmock.NewRows(studentCols).AddRow("s2", "Bayu", "7B", []byte(`[1,2`), time.Now()))

		_, err := repo.FindByID(ctx, "s2")
		assert.ErrorContains(t, err, "decode data of student s2")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentPostgres_Save(t *testing.T) {
	now := time.Now().UTC()
	student := &model.Student{
		ID:        "s1",
		FullName:  "Ana",
		ClassName: "7A",
		Data:      map[string]any{"nisn": "001"},
		UpdatedAt: now,
		Documents: []model.Document{
			{ID: "d1", Category: model.CategoryFamilyCard, Name: "kk.jpg", Kind: model.ArtifactImage, Location: "kk.jpg", Status: model.StatusRevision, AdminNote: "Foto tidak jelas", UpdatedAt: now},
		},
	}

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE students").
			WithArgs("s1", "Ana", "7A", sqlmock.AnyArg(), now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO documents (.+) ON CONFLICT").
			WithArgs("d1", "s1", 0, model.CategoryFamilyCard, "kk.jpg", model.ArtifactImage, "kk.jpg", model.StatusRevision, "Foto tidak jelas", now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, NewStudentPostgres(db).Save(context.Background(), student))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing student rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE students").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = NewStudentPostgres(db).Save(context.Background(), student)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("document failure rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE students").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO documents").WillReturnError(errors.New("deadlock"))
		mock.ExpectRollback()

		err = NewStudentPostgres(db).Save(context.Background(), student)
		assert.EqualError(t, err, "deadlock")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
