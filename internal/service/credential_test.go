package service

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/duylamasd/duylam-oauth2/internal/domain"
	apperrors "github.com/duylamasd/duylam-oauth2/pkg/errors"
)

// --- Mock Credential Repository ---

type mockCredentialRepository struct {
	mock.Mock
}

func (m *mockCredentialRepository) Create(ctx context.Context, credential *domain.Credential) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

func (m *mockCredentialRepository) GetByID(ctx context.Context, id string) (*domain.Credential, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Credential), args.Error(1)
}

func (m *mockCredentialRepository) GetByIDAndSecret(ctx context.Context, id, secret string) (*domain.Credential, error) {
	args := m.Called(ctx, id, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Credential), args.Error(1)
}

func (m *mockCredentialRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestCredentialService(credRepo *mockCredentialRepository, ttl time.Duration) *CredentialService {
	return NewCredentialService(credRepo, newTestEventProducer(), newTestLogger(), ttl)
}

// --- Issue ---

func TestCredentialService_Issue(t *testing.T) {
	credRepo := new(mockCredentialRepository)
	svc := newTestCredentialService(credRepo, 0)

	var stored *domain.Credential
	credRepo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.Credential)
		}).
		Return(nil)

	before := time.Now().UTC()
	cred, err := svc.Issue(context.Background(), IssueInput{
		UserID: "user-1",
		Scopes: []string{"read"},
	})
	require.NoError(t, err)

	_, err = uuid.Parse(cred.ID)
	assert.NoError(t, err, "credential id must be a uuid")

	raw, err := hex.DecodeString(cred.Secret)
	require.NoError(t, err, "secret must be hex encoded")
	assert.Len(t, raw, secretLength)

	assert.Equal(t, domain.CredentialTypeAPIKey, cred.Type, "type defaults to apikey")
	assert.Equal(t, "user-1", cred.UserID)

	wantExpiry := before.Add(DefaultCredentialTTL)
	assert.WithinDuration(t, wantExpiry, cred.ExpireTime, time.Minute)

	require.NotNil(t, stored)
	assert.Equal(t, cred.ID, stored.ID)
	credRepo.AssertExpectations(t)
}

func TestCredentialService_Issue_CallerSecretAndExpiry(t *testing.T) {
	credRepo := new(mockCredentialRepository)
	svc := newTestCredentialService(credRepo, time.Hour)

	var stored *domain.Credential
	credRepo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.Credential)
		}).
		Return(nil)

	wantExpiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	cred, err := svc.Issue(context.Background(), IssueInput{
		UserID:     "user-1",
		Secret:     "my-chosen-secret",
		ExpireTime: wantExpiry,
	})
	require.NoError(t, err)

	assert.Equal(t, "my-chosen-secret", cred.Secret)
	assert.True(t, cred.ExpireTime.Equal(wantExpiry))

	require.NotNil(t, stored)
	assert.Equal(t, "my-chosen-secret", stored.Secret)
	assert.True(t, stored.ExpireTime.Equal(wantExpiry))
}

func TestCredentialService_Issue_UniqueSecrets(t *testing.T) {
	credRepo := new(mockCredentialRepository)
	svc := newTestCredentialService(credRepo, time.Hour)

	credRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	first, err := svc.Issue(context.Background(), IssueInput{UserID: "user-1"})
	require.NoError(t, err)
	second, err := svc.Issue(context.Background(), IssueInput{UserID: "user-1"})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.Secret, second.Secret)
}

func TestCredentialService_Issue_StoreFailure(t *testing.T) {
	credRepo := new(mockCredentialRepository)
	svc := newTestCredentialService(credRepo, time.Hour)

	credRepo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	_, err := svc.Issue(context.Background(), IssueInput{UserID: "user-1"})
	require.Error(t, err)

	var srvErr *apperrors.ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, "CREDENTIAL_CREATE_FAILED", srvErr.Name)
	assert.Equal(t, "could not create credential", srvErr.Message)
}

func TestCredentialService_Revoke(t *testing.T) {
	credRepo := new(mockCredentialRepository)
	svc := newTestCredentialService(credRepo, time.Hour)

	credRepo.On("Delete", mock.Anything, "cred-1").Return(nil)

	assert.NoError(t, svc.Revoke(context.Background(), "cred-1"))
	credRepo.AssertExpectations(t)
}
