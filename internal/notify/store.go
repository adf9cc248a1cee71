package notify

import (
	"context"
	"fmt"

	"docverify/internal/model"
)

// StudentSaver persists a whole student record.
type StudentSaver interface {
	Save(ctx context.Context, s *model.Student) error
}

// StoreSink writes the event's student snapshot through a repository.
type StoreSink struct {
	saver StudentSaver
}

func NewStoreSink(saver StudentSaver) *StoreSink {
	return &StoreSink{saver: saver}
}

func (s *StoreSink) Send(ctx context.Context, ev Event) error {
	if ev.Student == nil {
		return nil
	}
	if err := s.saver.Save(ctx, ev.Student); err != nil {
		return fmt.Errorf("save student %s: %w", ev.StudentID, err)
	}
	return nil
}
