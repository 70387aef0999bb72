package service

import (
	"context"
	"errors"
	"testing"

	"apevault/internal/model"
	"apevault/pkg/localstore"
	"apevault/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStudentRepo struct {
	students map[string]*model.Student
	err      error
	block    bool
}

func (f *fakeStudentRepo) GetStudentByLogin(ctx context.Context, login string) (*model.Student, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.students[login], nil
}

func newAuthFixture(t *testing.T, repo *fakeStudentRepo, kv localstore.KV) *AuthService {
	t.Helper()
	svc, err := NewAuthService(context.Background(), logger.NewNop(), repo, kv)
	require.NoError(t, err)
	return svc
}

func seededStudents() map[string]*model.Student {
	return map[string]*model.Student{
		"apestud": {
			ID:       "student-1",
			Login:    "apestud",
			Password: "hunter2",
			Name:     "Ape Student",
			Email:    "ape@example.com",
		},
	}
}

func TestAuthService_LoginUnknownHandle(t *testing.T) {
	svc := newAuthFixture(t, &fakeStudentRepo{students: seededStudents()}, localstore.NewMemoryKV())

	ok := svc.Login(context.Background(), "nonexistent-handle", "x")

	assert.False(t, ok)
	assert.False(t, svc.IsAuthenticated())
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	svc := newAuthFixture(t, &fakeStudentRepo{students: seededStudents()}, localstore.NewMemoryKV())

	ok := svc.Login(context.Background(), "apestud", "wrong")

	assert.False(t, ok)
	assert.False(t, svc.IsAuthenticated())
}

func TestAuthService_LoginSuccess(t *testing.T) {
	svc := newAuthFixture(t, &fakeStudentRepo{students: seededStudents()}, localstore.NewMemoryKV())

	ok := svc.Login(context.Background(), "apestud", "hunter2")

	require.True(t, ok)
	assert.True(t, svc.IsAuthenticated())

	session, authed := svc.CurrentSession()
	require.True(t, authed)
	require.NotNil(t, session)
	assert.Equal(t, "student-1", session.UserID)
	assert.Equal(t, "Ape Student", session.Name)
	assert.Equal(t, "apestud", session.LoginHandle)
}

func TestAuthService_LoginLookupErrorIsSwallowed(t *testing.T) {
	repo := &fakeStudentRepo{err: errors.New("connection refused")}
	svc := newAuthFixture(t, repo, localstore.NewMemoryKV())

	ok := svc.Login(context.Background(), "apestud", "hunter2")

	assert.False(t, ok)
	assert.False(t, svc.IsAuthenticated())
}

func TestAuthService_LoginTimeoutIsSwallowed(t *testing.T) {
	svc := newAuthFixture(t, &fakeStudentRepo{block: true}, localstore.NewMemoryKV())

	// The parent context is already cancelled so the lookup times out
	// immediately instead of waiting out the 10s cap.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok := svc.Login(ctx, "apestud", "hunter2")

	assert.False(t, ok)
	assert.False(t, svc.IsAuthenticated())
}

func TestAuthService_LoginFailureKeepsExistingSession(t *testing.T) {
	svc := newAuthFixture(t, &fakeStudentRepo{students: seededStudents()}, localstore.NewMemoryKV())

	require.True(t, svc.Login(context.Background(), "apestud", "hunter2"))
	assert.False(t, svc.Login(context.Background(), "apestud", "wrong"))

	session, authed := svc.CurrentSession()
	assert.True(t, authed)
	require.NotNil(t, session)
	assert.Equal(t, "student-1", session.UserID)
}

func TestAuthService_Logout(t *testing.T) {
	svc := newAuthFixture(t, &fakeStudentRepo{students: seededStudents()}, localstore.NewMemoryKV())

	require.True(t, svc.Login(context.Background(), "apestud", "hunter2"))
	svc.Logout(context.Background())

	session, authed := svc.CurrentSession()
	assert.False(t, authed)
	assert.Nil(t, session)
}

func TestAuthService_PersistThenRehydrate(t *testing.T) {
	kv := localstore.NewMemoryKV()
	repo := &fakeStudentRepo{students: seededStudents()}

	first := newAuthFixture(t, repo, kv)
	require.True(t, first.Login(context.Background(), "apestud", "hunter2"))

	// A fresh service over the same KV simulates an application restart.
	second := newAuthFixture(t, repo, kv)
	assert.True(t, second.IsAuthenticated())

	want, _ := first.CurrentSession()
	got, authed := second.CurrentSession()
	require.True(t, authed)
	assert.Equal(t, want, got)
}

func TestAuthService_LogoutSurvivesRestart(t *testing.T) {
	kv := localstore.NewMemoryKV()
	repo := &fakeStudentRepo{students: seededStudents()}

	first := newAuthFixture(t, repo, kv)
	require.True(t, first.Login(context.Background(), "apestud", "hunter2"))
	first.Logout(context.Background())

	second := newAuthFixture(t, repo, kv)
	assert.False(t, second.IsAuthenticated())
}
