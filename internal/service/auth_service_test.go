package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/classpulse/classpulse-api/internal/models"
	"github.com/classpulse/classpulse-api/pkg/config"
	appErrors "github.com/classpulse/classpulse-api/pkg/errors"
)

type fakeUserStore struct {
	users map[string]*models.User
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	_, ok := f.users[email]
	return ok, nil
}

func (f *fakeUserStore) Create(_ context.Context, u *models.User) error {
	u.ID = "user-new"
	if f.users == nil {
		f.users = map[string]*models.User{}
	}
	f.users[u.Email] = u
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "classpulse-api"}
}

func seededUserStore(t *testing.T) *fakeUserStore {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	return &fakeUserStore{users: map[string]*models.User{
		"teacher@school.edu": {
			ID:           "teacher-1",
			Email:        "teacher@school.edu",
			Name:         "Dana",
			Role:         models.RoleTeacher,
			PasswordHash: string(hash),
		},
	}}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc := NewAuthService(seededUserStore(t), testJWTConfig(), nil, nil)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "teacher@school.edu",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, "teacher-1", resp.User.ID)
	assert.Equal(t, models.RoleTeacher, resp.User.Role)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "teacher-1", claims.UserID)
	assert.Equal(t, models.RoleTeacher, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(seededUserStore(t), testJWTConfig(), nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "teacher@school.edu",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(&fakeUserStore{}, testJWTConfig(), nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@school.edu",
		Password: "password123",
	})

	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestRegisterDuplicateEmailRejected(t *testing.T) {
	svc := NewAuthService(seededUserStore(t), testJWTConfig(), nil, nil)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "teacher@school.edu",
		Name:     "Dana",
		Role:     "teacher",
		Password: "password123",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Status, appErrors.FromError(err).Status)
}

func TestRegisterHashesPassword(t *testing.T) {
	store := &fakeUserStore{}
	svc := NewAuthService(store, testJWTConfig(), nil, nil)

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "student@school.edu",
		Name:     "Sam",
		Role:     "student",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
}
