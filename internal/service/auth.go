package service

import (
	"context"
	"time"

	"apevault/internal/dto"
	"apevault/internal/repository"
	"apevault/pkg/localstore"
	"apevault/pkg/logger"
)

// AuthStateKey is the durable storage key for the credential store.
const AuthStateKey = "apevault-students-auth"

// loginLookupTimeout caps the account lookup; a slower lookup counts as a
// failed login.
const loginLookupTimeout = 10 * time.Second

// AuthService is the credential/session store. Every mutation writes through
// to durable storage; construction rehydrates the previous state.
type AuthService struct {
	log          *logger.Logger
	studentsRepo repository.StudentRepository
	state        *localstore.Store[dto.AuthState]
}

func NewAuthService(ctx context.Context, log *logger.Logger, studentsRepo repository.StudentRepository, kv localstore.KV) (*AuthService, error) {
	state, err := localstore.New(ctx, kv, AuthStateKey, dto.AuthState{})
	if err != nil {
		return nil, err
	}

	return &AuthService{
		log:          log,
		studentsRepo: studentsRepo,
		state:        state,
	}, nil
}

// Login authenticates by exact login handle and password. Every failure
// mode — unknown handle, wrong password, lookup error or timeout — collapses
// to false and leaves the current state untouched; the causes are only
// distinguished in logs. A success replaces any existing session.
func (s *AuthService) Login(ctx context.Context, loginHandle, password string) bool {
	lookupCtx, cancel := context.WithTimeout(ctx, loginLookupTimeout)
	defer cancel()

	student, err := s.studentsRepo.GetStudentByLogin(lookupCtx, loginHandle)
	if err != nil {
		s.log.ErrorContext(ctx, "Login lookup failed",
			logger.ErrorField(err),
			logger.StringField("login", loginHandle),
		)
		return false
	}
	if student == nil {
		s.log.InfoContext(ctx, "Login attempt for unknown handle",
			logger.StringField("login", loginHandle),
		)
		return false
	}
	if !student.PasswordMatches(password) {
		s.log.InfoContext(ctx, "Login attempt with wrong password",
			logger.StringField("login", loginHandle),
		)
		return false
	}

	next := dto.AuthState{
		User: &dto.Session{
			UserID:      student.ID,
			Name:        student.Name,
			Email:       student.Email,
			LoginHandle: student.Login,
		},
		IsAuthenticated: true,
	}
	if err := s.state.Set(ctx, next); err != nil {
		// The in-memory session is already established; the durable copy
		// catches up on the next mutation.
		s.log.ErrorContext(ctx, "Failed to persist session", logger.ErrorField(err))
	}

	return true
}

// Logout clears the session and its durable copy unconditionally.
func (s *AuthService) Logout(ctx context.Context) {
	if err := s.state.Clear(ctx); err != nil {
		s.log.ErrorContext(ctx, "Failed to clear persisted session", logger.ErrorField(err))
	}
}

func (s *AuthService) CurrentSession() (*dto.Session, bool) {
	state := s.state.Get()
	return state.User, state.IsAuthenticated
}

func (s *AuthService) IsAuthenticated() bool {
	return s.state.Get().IsAuthenticated
}

// Subscribe notifies fn on every auth state change.
func (s *AuthService) Subscribe(fn func(dto.AuthState)) func() {
	return s.state.Subscribe(fn)
}
