package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"docverify/internal/console"
	"docverify/internal/model"
	"docverify/internal/notify"
	"docverify/internal/record"
	"docverify/internal/repository"
	"docverify/internal/review"
	"docverify/internal/roster"
	"docverify/internal/viewer"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidAction   = errors.New("invalid action")
)

// Session is a newly opened console.
type Session struct {
	ID   string       `json:"id"`
	View console.View `json:"view"`
}

// VerificationService defines the document verification use cases.
// All sessions share one roster; calls are serialized.
type VerificationService interface {
	// Load replaces the roster with the repository's students.
	Load(ctx context.Context) error

	// Refresh reloads students and re-applies every session's selection policy.
	Refresh(ctx context.Context) error

	// Students returns a copy of the roster.
	Students(ctx context.Context) ([]model.Student, error)

	// CreateSession opens a console, optionally jumping to target student.
	CreateSession(ctx context.Context, target string) (*Session, error)

	// View returns the current snapshot of a session.
	View(ctx context.Context, id string) (console.View, error)

	// Dispatch applies one action and returns the resulting snapshot.
	Dispatch(ctx context.Context, id string, a Action) (console.View, error)

	// CloseSession stops the session's artifact load and forgets it.
	CloseSession(ctx context.Context, id string) error

	// Close ends every session.
	Close()
}

// Options wires the collaborators of the service.
type Options struct {
	Viewer      viewer.Options
	Fetcher     viewer.Fetcher
	Notifier    notify.Notifier
	Transitions review.Recorder
	Loads       viewer.LoadRecorder
	Logger      *slog.Logger
	// SessionTTL closes sessions idle for longer than this. Zero keeps them
	// until CloseSession.
	SessionTTL time.Duration
}

type session struct {
	console  *console.Console
	lastUsed time.Time
}

type verificationService struct {
	repo     repository.StudentRepository
	opts     Options
	logger   *slog.Logger
	validate *validator.Validate
	reviewer *review.Reviewer

	mu       sync.Mutex
	roster   *roster.Roster
	sessions map[string]*session
	newID    func() string
	now      func() time.Time
}

// NewVerificationService constructs a new VerificationService with an empty roster.
func NewVerificationService(repo repository.StudentRepository, opts Options) VerificationService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := roster.New(nil, opts.Notifier)
	return &verificationService{
		repo:     repo,
		opts:     opts,
		logger:   logger.With("component", "verification"),
		validate: validator.New(),
		reviewer: review.New(opts.Notifier, opts.Transitions, r),
		roster:   r,
		sessions: make(map[string]*session),
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

func (s *verificationService) Load(ctx context.Context) error {
	return s.reload(ctx, "roster_loaded")
}

func (s *verificationService) Refresh(ctx context.Context) error {
	return s.reload(ctx, "roster_refreshed")
}

func (s *verificationService) reload(ctx context.Context, event string) error {
	students, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list students: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.roster.Replace(students)
	s.evictIdle(ctx)
	for _, ss := range s.sessions {
		ss.console.Refresh(ctx)
	}
	s.logger.InfoContext(ctx, event,
		slog.Int("students", len(students)),
		slog.Int("sessions", len(s.sessions)),
		slog.Uint64("version", s.roster.Version()),
	)
	return nil
}

func (s *verificationService) Students(ctx context.Context) ([]model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.roster.Students()
	out := make([]model.Student, 0, len(live))
	for _, st := range live {
		out = append(out, *st.Clone())
	}
	return out, nil
}

func (s *verificationService) CreateSession(ctx context.Context, target string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictIdle(ctx)
	v := viewer.New(s.opts.Viewer, viewer.NewLoader(s.opts.Fetcher, s.opts.Loads))
	c := console.New(ctx, s.roster, s.reviewer, v)
	if target != "" {
		if err := c.Jump(ctx, target); err != nil {
			c.Close()
			return nil, err
		}
	}

	id := s.newID()
	s.sessions[id] = &session{console: c, lastUsed: s.now()}
	s.logger.InfoContext(ctx, "session_created", slog.String("session_id", id), slog.String("target", target))
	return &Session{ID: id, View: c.View()}, nil
}

func (s *verificationService) View(ctx context.Context, id string) (console.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.session(ctx, id)
	if !ok {
		return console.View{}, ErrSessionNotFound
	}
	return c.View(), nil
}

func (s *verificationService) Dispatch(ctx context.Context, id string, a Action) (console.View, error) {
	if err := s.validateAction(a); err != nil {
		return console.View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.session(ctx, id)
	if !ok {
		return console.View{}, ErrSessionNotFound
	}
	if err := apply(ctx, c, a); err != nil {
		s.logger.DebugContext(ctx, "action_rejected",
			slog.String("session_id", id),
			slog.String("action", a.Type),
			slog.String("error", err.Error()),
		)
		return console.View{}, err
	}
	return c.View(), nil
}

func apply(ctx context.Context, c *console.Console, a Action) error {
	switch a.Type {
	case ActionSelectClass:
		return c.SelectClass(ctx, a.Class)
	case ActionSelectStudent:
		return c.SelectStudent(ctx, a.StudentID)
	case ActionJump:
		return c.Jump(ctx, a.StudentID)
	case ActionSelectDocument:
		return c.SelectDocument(ctx, model.Category(a.Category))
	case ActionSelectTab:
		return c.SelectTab(a.Tab)
	case ActionToggleEdit:
		c.ToggleEdit()
	case ActionEdit:
		return c.Edit(ctx, record.Patch{Path: a.Path, Value: a.Value})
	case ActionUndo:
		return c.Undo(ctx)
	case ActionApprove:
		return c.Approve(ctx)
	case ActionOpenReject:
		return c.OpenReject()
	case ActionDraftNote:
		return c.DraftNote(a.Note)
	case ActionConfirmReject:
		return c.ConfirmReject(ctx)
	case ActionCancelReject:
		c.CancelReject()
	case ActionZoomIn:
		c.ZoomIn()
	case ActionZoomOut:
		c.ZoomOut()
	case ActionSetZoom:
		c.SetZoom(*a.Zoom)
	case ActionSetLayout:
		return c.SetLayout(viewer.Layout(a.Layout))
	case ActionToggleDocument:
		c.ToggleDocument()
	default:
		return fmt.Errorf("%w: %s", ErrInvalidAction, a.Type)
	}
	return nil
}

func (s *verificationService) CloseSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	s.drop(ctx, id, "closed")
	return nil
}

func (s *verificationService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ss := range s.sessions {
		ss.console.Close()
		delete(s.sessions, id)
	}
}

// session returns a live console and marks it used. An expired session is
// closed and reported as missing. Callers hold mu.
func (s *verificationService) session(ctx context.Context, id string) (*console.Console, bool) {
	ss, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(ss, now) {
		s.drop(ctx, id, "expired")
		return nil, false
	}
	ss.lastUsed = now
	return ss.console, true
}

func (s *verificationService) expired(ss *session, now time.Time) bool {
	return s.opts.SessionTTL > 0 && now.Sub(ss.lastUsed) > s.opts.SessionTTL
}

// evictIdle closes every expired session. Callers hold mu.
func (s *verificationService) evictIdle(ctx context.Context) {
	now := s.now()
	for id, ss := range s.sessions {
		if s.expired(ss, now) {
			s.drop(ctx, id, "expired")
		}
	}
}

func (s *verificationService) drop(ctx context.Context, id, reason string) {
	s.sessions[id].console.Close()
	delete(s.sessions, id)
	s.logger.InfoContext(ctx, "session_closed", slog.String("session_id", id), slog.String("reason", reason))
}
