package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/ecole-admin-api/internal/models"
	appErrors "github.com/noah-isme/ecole-admin-api/pkg/errors"
)

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Count(ctx context.Context) (int, error) {
	return len(f.users), nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "ecole-admin-api"}
}

func validRegisterRequest() models.RegisterRequest {
	return models.RegisterRequest{
		FullName: "Directrice Principale",
		Phone:    "+221770000000",
		Email:    "admin@example.com",
		Username: "admin",
		Password: "s3cret-pass",
	}
}

func TestAuthRegisterAutoLogsIn(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), nil, zap.NewNop(), testAuthConfig())

	resp, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "admin", resp.User.Username)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "admin", claims.Username)
}

func TestAuthRegisterOnlyOnce(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), nil, zap.NewNop(), testAuthConfig())

	_, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	second := validRegisterRequest()
	second.Username = "admin2"
	_, err = svc.Register(context.Background(), second)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAuthLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, nil, zap.NewNop(), testAuthConfig())

	_, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "nobody", Password: "s3cret-pass"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthRegisteredFlag(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), nil, zap.NewNop(), testAuthConfig())

	registered, err := svc.Registered(context.Background())
	require.NoError(t, err)
	assert.False(t, registered)

	_, err = svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	registered, err = svc.Registered(context.Background())
	require.NoError(t, err)
	assert.True(t, registered)
}

func TestAuthValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), nil, zap.NewNop(), testAuthConfig())

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)

	other := NewAuthService(newFakeUserRepo(), nil, zap.NewNop(), AuthConfig{Secret: "different", Expiration: time.Hour})
	resp, err := other.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken)
	require.Error(t, err)
}

func TestAuthMe(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), nil, zap.NewNop(), testAuthConfig())

	resp, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	info, err := svc.Me(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", info.Email)

	_, err = svc.Me(context.Background(), "missing")
	require.Error(t, err)
}
