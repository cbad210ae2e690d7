// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/schoolbook/marksdesk/internal/app/models/dto"
	"github.com/schoolbook/marksdesk/internal/app/services"
	"github.com/schoolbook/marksdesk/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Login handles admin login
// @Summary Admin login
// @Description Exchanges username and password for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("username", req.Username).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Verify reports whether a token is valid
// @Summary Verify a token
// @Description Checks a token passed as the token query parameter or in a JSON body. Always answers 200.
// @Tags auth
// @Accept json
// @Produce json
// @Param token query string false "Token to verify"
// @Param request body dto.VerifyTokenRequest false "Token to verify"
// @Success 200 {object} dto.APIResponse{data=dto.VerifyTokenResponse} "Verification result"
// @Router /auth/verify [post]
func (c *AuthController) Verify(ctx *gin.Context) {
	token := ctx.Query("token")
	if token == "" {
		var req dto.VerifyTokenRequest
		if err := ctx.ShouldBindJSON(&req); err == nil {
			token = req.Token
		}
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.authService.VerifyToken(token)))
}
