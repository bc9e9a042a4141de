package handlers

import (
	"net/http"

	"delivery-tracking-service/internal/api/dto"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/services"

	"github.com/gin-gonic/gin"
)

const SessionCookie = "session_id"

type AuthHandler struct {
	Service *services.AuthService
	// SetCookie makes login also set an HTTP-only session cookie.
	SetCookie  bool
	CookieTTL  int
	Credential func(c *gin.Context) string
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.Service.Signup(c.Request.Context(), domain.SignupInput{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MessageResponse{Message: "User registered successfully"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.Service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	if h.SetCookie {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, token, h.CookieTTL, "/", "", false, true)
	}
	c.JSON(http.StatusOK, dto.LoginResponse{Message: "Login successful", Token: token})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var credential string
	if h.Credential != nil {
		credential = h.Credential(c)
	}

	if err := h.Service.Logout(c.Request.Context(), credential); err != nil {
		writeError(c, err)
		return
	}

	if h.SetCookie {
		c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "Logged out successfully"})
}
