package service

import (
	"errors"
	"time"

	"github.com/abdulhadi30211/luminvera-backend/internal/app/model"
	"github.com/abdulhadi30211/luminvera-backend/internal/app/repository"
	"github.com/abdulhadi30211/luminvera-backend/pkg/logger"
	"github.com/abdulhadi30211/luminvera-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailNotVerified      = errors.New("email address not verified")
	ErrEmailAlreadyVerified  = errors.New("email address already verified")
	ErrVerificationCodeWrong = errors.New("invalid or expired verification code")
)

// RegisterResult is what sign-up hands back: the new account plus a token
// pair once the email is verified, or a pending-verification marker before
// that.
type RegisterResult struct {
	User              *model.User
	Tokens            *util.TokenPair
	NeedsVerification bool
}

type AuthService interface {
	Register(email, password, username string) (*RegisterResult, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	VerifyEmail(email, code string) error
	ResendVerification(email string) error
	GetUserByID(id uint) (*model.User, error)
	UpdateProfile(userID uint, username, fullName string) (*model.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	profileRepo   repository.ProfileRepository
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		profileRepo:   profileRepo,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// Register creates the account and issues a verification code. The profile
// row is created best-effort: the account already exists at that point, so a
// profile failure is logged and the registration still succeeds.
func (s *authService) Register(email, password, username string) (*RegisterResult, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"email":    email,
		"username": username,
	})

	existingUser, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	if existingUser != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	profile := &model.Profile{
		UserID:   user.ID,
		Username: username,
		FullName: username,
		Role:     model.RoleUser,
	}
	if err := s.profileRepo.Create(profile); err != nil {
		// Deliberate best-effort: the account was created successfully, a
		// missing profile must not roll that back.
		logger.Error("Profile creation failed during sign-up, continuing", err, map[string]interface{}{
			"user_id":  user.ID,
			"username": username,
		})
	} else {
		user.Profile = profile
	}

	if err := s.issueVerificationCode(email); err != nil {
		logger.Error("Failed to issue verification code", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	logger.Info("User registered, email verification pending", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})

	return &RegisterResult{
		User:              user,
		NeedsVerification: true,
	}, nil
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"email":   email,
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	if !user.EmailVerified {
		logger.Warn("Login blocked: email not verified", map[string]interface{}{
			"email":   email,
			"user_id": user.ID,
		})
		return nil, nil, ErrEmailNotVerified
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(s.roleFor(user)),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return user, tokens, nil
}

// VerifyEmail consumes the pending code and marks the account verified
func (s *authService) VerifyEmail(email, code string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.EmailVerified {
		return ErrEmailAlreadyVerified
	}

	if !util.VerifyEmailCode(email, code) {
		logger.Warn("Email verification failed: bad code", map[string]interface{}{
			"email": email,
		})
		return ErrVerificationCodeWrong
	}

	user.EmailVerified = true
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	logger.Info("Email verified successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return nil
}

func (s *authService) ResendVerification(email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.EmailVerified {
		return ErrEmailAlreadyVerified
	}

	return s.issueVerificationCode(email)
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, username, fullName string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	profile, err := s.profileRepo.FindByUserID(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		// Profile creation is best-effort at sign-up, so it may be missing
		// here; create it on first update instead.
		profile = &model.Profile{
			UserID: userID,
			Role:   model.RoleUser,
		}
	}

	if username != "" {
		profile.Username = username
	}
	if fullName != "" {
		profile.FullName = fullName
	}

	if profile.ID == 0 {
		err = s.profileRepo.Create(profile)
	} else {
		err = s.profileRepo.Update(profile)
	}
	if err != nil {
		return nil, err
	}

	user.Profile = profile
	logger.Info("Profile updated successfully", map[string]interface{}{
		"user_id": userID,
	})
	return user, nil
}

func (s *authService) roleFor(user *model.User) model.UserRole {
	if user.Profile != nil && user.Profile.Role != "" {
		return user.Profile.Role
	}
	return model.RoleUser
}

// issueVerificationCode generates and stores a code. Delivery is delegated to
// the mail provider; in development the code is logged so the flow can be
// exercised end to end.
func (s *authService) issueVerificationCode(email string) error {
	code, err := util.GenerateVerificationCode()
	if err != nil {
		return err
	}
	util.StoreEmailVerificationCode(email, code)

	logger.Info("Verification code issued", map[string]interface{}{
		"email": email,
		"code":  code,
	})
	return nil
}
