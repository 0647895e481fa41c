package rest

import (
	"net/http"

	"banditHub/pkg/logger"
	"banditHub/pkg/utils"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// AuthHandler issues admin JWTs against the configured credential. There is
// no user table; the service has a single operator identity.
type AuthHandler struct {
	validate          *validator.Validate
	adminEmail        string
	adminPasswordHash string
}

func NewAuthHandler(adminEmail, adminPasswordHash string) *AuthHandler {
	return &AuthHandler{
		validate:          validator.New(),
		adminEmail:        adminEmail,
		adminPasswordHash: adminPasswordHash,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if req.Email != h.adminEmail || !utils.CheckPassword(req.Password, h.adminPasswordHash) {
		logger.Warn("Failed admin login", "email", req.Email, "ip", c.RealIP())
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "invalid credentials"})
	}

	token, err := utils.GenerateJWT(req.Email, "admin")
	if err != nil {
		logger.Error("Failed to generate token", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to generate token"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(echo.Map{
		"token": token,
	}))
}
