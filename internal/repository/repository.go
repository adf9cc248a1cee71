package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.

import (
	"context"
	"errors"

	"docverify/internal/model"
)

// ErrNotFound is returned when a student row does not exist.
var ErrNotFound = errors.New("not found")

// StudentRepository loads and stores enrollment records with their documents.
// No business logic here, strictly persistence operations.
type StudentRepository interface {
	// List returns every student ordered by class, then name. Documents keep their stored position.
	List(ctx context.Context) ([]model.Student, error)

	// FindByID returns a single student with documents, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Student, error)

	// Save writes the student's editable fields and upserts its documents in one transaction.
	Save(ctx context.Context, s *model.Student) error
}
