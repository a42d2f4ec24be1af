package service

import (
	"errors"
	"testing"
	"time"

	"github.com/abdulhadi30211/luminvera-backend/internal/app/model"
	"github.com/abdulhadi30211/luminvera-backend/internal/app/repository"
	"github.com/abdulhadi30211/luminvera-backend/internal/db"
	"github.com/abdulhadi30211/luminvera-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testJWTSecret = "test-secret"
	testPassword  = "password123"
)

func setupAuthServiceTest(t *testing.T) (AuthService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	profileRepo := repository.NewProfileRepository(testDB)
	authService := NewAuthService(userRepo, profileRepo, testJWTSecret, 15*time.Minute, 168*time.Hour)

	return authService, testDB
}

func registerVerifiedUser(t *testing.T, authService AuthService, testDB *gorm.DB, email string) *model.User {
	t.Helper()

	result, err := authService.Register(email, testPassword, "shopper")
	require.NoError(t, err)

	user := result.User
	user.EmailVerified = true
	require.NoError(t, testDB.Save(user).Error)
	return user
}

func TestAuthService_Register(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)

	result, err := authService.Register("new@example.com", testPassword, "newuser")
	require.NoError(t, err)
	assert.True(t, result.NeedsVerification)
	assert.Nil(t, result.Tokens)
	assert.NotZero(t, result.User.ID)
	assert.False(t, result.User.EmailVerified)

	// Password must be stored hashed
	assert.NotEqual(t, testPassword, result.User.PasswordHash)
	assert.True(t, util.VerifyPassword(result.User.PasswordHash, testPassword))

	// Profile row created alongside the account
	var profile model.Profile
	require.NoError(t, testDB.Where("user_id = ?", result.User.ID).First(&profile).Error)
	assert.Equal(t, "newuser", profile.Username)
	assert.Equal(t, model.RoleUser, profile.Role)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, err := authService.Register("dup@example.com", testPassword, "first")
	require.NoError(t, err)

	_, err = authService.Register("dup@example.com", testPassword, "second")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

// failingProfileRepo refuses every create, standing in for a profile table
// outage during sign-up.
type failingProfileRepo struct {
	repository.ProfileRepository
}

func (r *failingProfileRepo) Create(profile *model.Profile) error {
	return errors.New("profiles table unavailable")
}

func TestAuthService_Register_ProfileFailureDoesNotFailSignup(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	profileRepo := &failingProfileRepo{repository.NewProfileRepository(testDB)}
	authService := NewAuthService(userRepo, profileRepo, testJWTSecret, 15*time.Minute, 168*time.Hour)

	// The account is still created even though the profile insert failed
	result, err := authService.Register("resilient@example.com", testPassword, "resilient")
	require.NoError(t, err)
	assert.NotZero(t, result.User.ID)
	assert.Nil(t, result.User.Profile)

	var count int64
	testDB.Model(&model.User{}).Where("email = ?", "resilient@example.com").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAuthService_Login(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)
	registerVerifiedUser(t, authService, testDB, "login@example.com")

	user, tokens, err := authService.Login("login@example.com", testPassword)
	require.NoError(t, err)
	assert.Equal(t, "login@example.com", user.Email)
	require.NotNil(t, tokens)

	claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)
	registerVerifiedUser(t, authService, testDB, "wrongpw@example.com")

	_, _, err := authService.Login("wrongpw@example.com", "not-the-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Login("ghost@example.com", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnverifiedEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, err := authService.Register("pending@example.com", testPassword, "pending")
	require.NoError(t, err)

	_, _, err = authService.Login("pending@example.com", testPassword)
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestAuthService_VerifyEmail(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)

	_, err := authService.Register("verify@example.com", testPassword, "verifier")
	require.NoError(t, err)

	// Replace the emitted code with a known one
	util.StoreEmailVerificationCode("verify@example.com", "123456")

	require.NoError(t, authService.VerifyEmail("verify@example.com", "123456"))

	var user model.User
	require.NoError(t, testDB.Where("email = ?", "verify@example.com").First(&user).Error)
	assert.True(t, user.EmailVerified)

	// Consumed codes cannot be replayed
	err = authService.VerifyEmail("verify@example.com", "123456")
	assert.ErrorIs(t, err, ErrEmailAlreadyVerified)
}

func TestAuthService_VerifyEmail_WrongCode(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, err := authService.Register("badcode@example.com", testPassword, "badcode")
	require.NoError(t, err)

	util.StoreEmailVerificationCode("badcode@example.com", "123456")

	err = authService.VerifyEmail("badcode@example.com", "654321")
	assert.ErrorIs(t, err, ErrVerificationCodeWrong)
}

func TestAuthService_ResendVerification(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)

	_, err := authService.Register("resend@example.com", testPassword, "resend")
	require.NoError(t, err)

	assert.NoError(t, authService.ResendVerification("resend@example.com"))

	registerVerifiedUser(t, authService, testDB, "done@example.com")
	err = authService.ResendVerification("done@example.com")
	assert.ErrorIs(t, err, ErrEmailAlreadyVerified)

	err = authService.ResendVerification("nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)
	user := registerVerifiedUser(t, authService, testDB, "profile@example.com")

	updated, err := authService.UpdateProfile(user.ID, "renamed", "Full Name")
	require.NoError(t, err)
	require.NotNil(t, updated.Profile)
	assert.Equal(t, "renamed", updated.Profile.Username)
	assert.Equal(t, "Full Name", updated.Profile.FullName)
}

func TestAuthService_UpdateProfile_CreatesMissingProfile(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	profileRepo := repository.NewProfileRepository(testDB)
	authService := NewAuthService(userRepo, &failingProfileRepo{profileRepo}, testJWTSecret, 15*time.Minute, 168*time.Hour)

	result, err := authService.Register("orphan@example.com", testPassword, "orphan")
	require.NoError(t, err)

	// Retry path once the profile table is healthy again
	healthyService := NewAuthService(userRepo, profileRepo, testJWTSecret, 15*time.Minute, 168*time.Hour)
	updated, err := healthyService.UpdateProfile(result.User.ID, "recovered", "")
	require.NoError(t, err)
	require.NotNil(t, updated.Profile)
	assert.Equal(t, "recovered", updated.Profile.Username)
}
