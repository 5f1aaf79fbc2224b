package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dompet/internal/auth"
	apperrors "dompet/internal/errors"
	"dompet/internal/middleware"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SetupRequest represents the one-time PIN setup payload
type SetupRequest struct {
	PIN string `json:"pin" binding:"required,numeric,min=4,max=12"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// AuthResponse represents the authentication response with token
type AuthResponse struct {
	Token string `json:"token"`
}

// ErrorDetail holds the code and message of an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// Setup stores the PIN on first run
// @Summary     Set up the PIN
// @Description Store the access PIN; allowed exactly once
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body SetupRequest true "PIN to store"
// @Success     201 {object} AuthResponse "PIN stored and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "PIN already configured"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/setup [post]
func (h *AuthHandler) Setup(c *gin.Context) {
	var req SetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.authService.Setup(c.Request.Context(), req.PIN); err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}

// Login verifies the PIN and issues a token
// @Summary     Login with PIN
// @Description Verify the PIN and get an access token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Access PIN"
// @Success     200 {object} AuthResponse "Token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid PIN"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.authService.Verify(c.Request.Context(), req.PIN); err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
