package controller

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/abdulhadi30211/luminvera-backend/internal/app/service"
	apperrors "github.com/abdulhadi30211/luminvera-backend/internal/errors"
	"github.com/abdulhadi30211/luminvera-backend/internal/middleware"
	"github.com/abdulhadi30211/luminvera-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

// TokenRevoker blacklists an access token until it would have expired.
// A nil revoker turns logout into a client-side-only operation.
type TokenRevoker interface {
	BlacklistToken(ctx context.Context, token string, ttl time.Duration) error
}

type AuthController struct {
	authService service.AuthService
	revoker     TokenRevoker
	jwtSecret   string
}

func NewAuthController(authService service.AuthService, revoker TokenRevoker, jwtSecret string) *AuthController {
	return &AuthController{
		authService: authService,
		revoker:     revoker,
		jwtSecret:   jwtSecret,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Username string `json:"username" binding:"required,min=2,max=30"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type UpdateProfileRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// Register handles user registration
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid registration data")
		return
	}

	result, err := ctrl.authService.Register(req.Email, req.Password, req.Username)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "Email is already registered")
			return
		}
		log.Error("Registration failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.InternalError(c, "Registration failed")
		return
	}

	log.Info("User registered successfully", map[string]interface{}{
		"user_id": result.User.ID,
		"email":   result.User.Email,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":            "Registration successful. Please verify your email address",
		"user":               result.User,
		"needs_verification": result.NeedsVerification,
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid login data")
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid email or password")
		case errors.Is(err, service.ErrEmailNotVerified):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthEmailNotVerified, "Please verify your email address before signing in")
		default:
			log.Error("Login failed", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.InternalError(c, "Login failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// VerifyEmail confirms the code sent at registration
// POST /api/v1/auth/verify-email
func (ctrl *AuthController) VerifyEmail(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid verification data")
		return
	}

	if err := ctrl.authService.VerifyEmail(req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Account not found")
		case errors.Is(err, service.ErrEmailAlreadyVerified):
			apperrors.Conflict(c, apperrors.AuthAlreadyVerified, "Email is already verified")
		case errors.Is(err, service.ErrVerificationCodeWrong):
			apperrors.BadRequest(c, apperrors.AuthCodeInvalid, "Invalid or expired verification code")
		default:
			log.Error("Email verification failed", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.InternalError(c, "Email verification failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Email verified successfully",
	})
}

// ResendVerification issues a fresh verification code
// POST /api/v1/auth/resend-verification
func (ctrl *AuthController) ResendVerification(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if err := ctrl.authService.ResendVerification(req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Account not found")
		case errors.Is(err, service.ErrEmailAlreadyVerified):
			apperrors.Conflict(c, apperrors.AuthAlreadyVerified, "Email is already verified")
		default:
			log.Error("Failed to resend verification code", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.InternalError(c, "Failed to resend verification code")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Verification code sent",
	})
}

// Logout revokes the presented access token
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, _ := middleware.GetUserID(c)

	if ctrl.revoker != nil {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			token := parts[1]
			if claims, err := util.ValidateToken(token, ctrl.jwtSecret); err == nil {
				ttl := time.Until(claims.ExpiresAt.Time)
				if ttl > 0 {
					if err := ctrl.revoker.BlacklistToken(c.Request.Context(), token, ttl); err != nil {
						log.Error("Failed to blacklist token on logout", err, map[string]interface{}{
							"user_id": userID,
						})
					}
				}
			}
		}
	}

	log.Info("User logged out", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetMe returns the authenticated user's account and profile
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Account not found")
			return
		}
		log.Error("Failed to fetch account", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to fetch account")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// UpdateMe updates the authenticated user's profile
// PUT /api/v1/auth/me
func (ctrl *AuthController) UpdateMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid profile data")
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, req.Username, req.FullName)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Account not found")
			return
		}
		log.Error("Failed to update profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}
