package service

import (
	"testing"
	"time"

	"kumba_backend/internal/config"
	"kumba_backend/internal/model"
	"kumba_backend/internal/repository"
	"kumba_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(env *testEnv) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-key-that-is-long-enough"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(env.db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)

	user, err := svc.Register("Aminata", "Aminata@Example.com ", "s3cret-pass", model.LanguageFrench)
	require.NoError(t, err)
	assert.Equal(t, "aminata@example.com", user.Email)
	assert.Equal(t, model.LanguageFrench, user.Language)
	assert.NotEqual(t, "s3cret-pass", user.Password)

	token, logged, err := svc.Login("aminata@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	claims, err := util.ParseJWT(token, svc.Cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.LanguageFrench, claims.Language)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)

	_, err := svc.Register("A", "dup@example.com", "password-1", model.LanguageEnglish)
	require.NoError(t, err)
	_, err = svc.Register("B", "DUP@example.com", "password-2", model.LanguageEnglish)
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestRegisterUnknownLanguageDefaultsEnglish(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)

	user, err := svc.Register("A", "lang@example.com", "password-1", model.Language("sw"))
	require.NoError(t, err)
	assert.Equal(t, model.LanguageEnglish, user.Language)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)

	_, err := svc.Register("A", "who@example.com", "password-1", model.LanguageEnglish)
	require.NoError(t, err)

	_, _, wrongPass := svc.Login("who@example.com", "wrong")
	_, _, unknownEmail := svc.Login("nobody@example.com", "password-1")
	require.Error(t, wrongPass)
	require.Error(t, unknownEmail)
	// Both failures read the same to the caller.
	assert.Equal(t, wrongPass.Error(), unknownEmail.Error())
}

func TestUpdateLanguage(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)

	user, err := svc.Register("A", "switch@example.com", "password-1", model.LanguageEnglish)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateLanguage(user.ID, model.LanguageFrench))
	fresh, err := svc.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LanguageFrench, fresh.Language)

	assert.Error(t, svc.UpdateLanguage(user.ID, model.Language("de")))
}
