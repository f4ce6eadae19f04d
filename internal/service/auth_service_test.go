package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacuno/ganado-api/internal/models"
	appErrors "github.com/vacuno/ganado-api/pkg/errors"
)

type mockAuthRepo struct {
	userByEmail    *models.User
	userByID       *models.User
	findByEmailErr error
	findByIDErr    error
	emailExists    bool
	existsErr      error
	created        *models.User
	createErr      error
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	return m.userByEmail, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	return m.userByID, nil
}

func (m *mockAuthRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.emailExists, m.existsErr
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "u1"
	m.created = user
	return nil
}

func newTestAuthService(repo *mockAuthRepo) *AuthService {
	return NewAuthService(repo, nil, nil, AuthConfig{
		AccessTokenSecret: "test_secret",
		AccessTokenExpiry: time.Hour,
	})
}

func TestRegisterSuccess(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newTestAuthService(repo)

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Maria",
		Email:    "maria@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, models.RoleField, user.Role)
	assert.True(t, user.Active)
	assert.True(t, user.VerifyPassword("supersecret"))
	require.NotNil(t, repo.created)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &mockAuthRepo{emailExists: true}
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Maria",
		Email:    "maria@example.com",
		Password: "supersecret",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestRegisterConcurrentDuplicateEmail(t *testing.T) {
	// The existence check races with concurrent inserts; the unique index
	// violation still surfaces as a conflict, not an internal error.
	repo := &mockAuthRepo{createErr: &pq.Error{Code: "23505"}}
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Maria",
		Email:    "maria@example.com",
		Password: "supersecret",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestRegisterShortPassword(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Maria",
		Email:    "maria@example.com",
		Password: "short",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestRegisterInvalidRole(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Maria",
		Email:    "maria@example.com",
		Password: "supersecret",
		Role:     models.UserRole("superuser"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func activeUser(t *testing.T) *models.User {
	t.Helper()
	user := &models.User{ID: "u1", Name: "Maria", Email: "maria@example.com", Role: models.RoleAdmin, Active: true}
	require.NoError(t, user.SetPassword("supersecret"))
	return user
}

func TestLoginSuccess(t *testing.T) {
	repo := &mockAuthRepo{userByEmail: activeUser(t)}
	svc := newTestAuthService(repo)

	result, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "maria@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, "bearer", result.TokenType)
	assert.Equal(t, int64(3600), result.ExpiresIn)
	assert.Equal(t, "u1", result.User.ID)
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := &mockAuthRepo{findByEmailErr: sql.ErrNoRows}
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "missing@example.com",
		Password: "supersecret",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &mockAuthRepo{userByEmail: activeUser(t)}
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "maria@example.com",
		Password: "nottherightone",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	user := activeUser(t)
	user.Active = false
	repo := &mockAuthRepo{userByEmail: user}
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "maria@example.com",
		Password: "supersecret",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestIssueAndValidateToken(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newTestAuthService(repo)
	user := &models.User{ID: "u1", Email: "maria@example.com", Role: models.RoleAdmin}

	token, _, err := svc.IssueAccessToken(user, nil, nil)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "maria@example.com", claims.Email)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(&mockAuthRepo{})
	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService(&mockAuthRepo{}, nil, nil, AuthConfig{AccessTokenSecret: "secret_a", AccessTokenExpiry: time.Hour})
	verifier := NewAuthService(&mockAuthRepo{}, nil, nil, AuthConfig{AccessTokenSecret: "secret_b", AccessTokenExpiry: time.Hour})

	token, _, err := issuer.IssueAccessToken(&models.User{ID: "u1", Role: models.RoleField}, nil, nil)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
}
