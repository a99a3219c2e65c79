package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/campusbites/canteenhub/internal/account"
	"github.com/campusbites/canteenhub/internal/config"
	"github.com/campusbites/canteenhub/internal/domain/user"
	"github.com/campusbites/canteenhub/internal/http/middlewares"
	"github.com/campusbites/canteenhub/internal/observability"
	"github.com/gin-gonic/gin"
)

// Keep the dependency narrow so tests can fake the whole account flow.
type AccountService interface {
	Register(ctx context.Context, fullName, email, password, role string) (user.User, error)
	Login(ctx context.Context, email, password string) (string, user.Summary, error)
}

type AuthHandler struct {
	accounts AccountService
	prom     *observability.Prom
}

func NewAuthHandler(accounts AccountService, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		prom:     prom,
	}
}

type SignUpRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	UserType string `json:"user_type" binding:"omitempty,oneof=student admin"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) countSignup(outcome string) {
	if h.prom != nil {
		h.prom.SignupsTotal.WithLabelValues(outcome).Inc()
	}
}

func (h *AuthHandler) countLogin(outcome string) {
	if h.prom != nil {
		h.prom.LoginsTotal.WithLabelValues(outcome).Inc()
	}
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if !BindJSON(ctx, &req) {
		h.countSignup("invalid")
		return
	}

	// bcrypt alone can take a few hundred ms under load
	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	role := req.UserType

	if role == "" {
		role = user.RoleStudent
	}

	_, err := h.accounts.Register(cctx, req.FullName, req.Email, req.Password, role)

	if err != nil {
		switch {
		case errors.Is(err, account.ErrValidation):
			h.countSignup("invalid")
			RespondBadRequest(ctx, "All fields are required")
		case errors.Is(err, account.ErrEmailTaken):
			h.countSignup("duplicate")
			RespondBadRequest(ctx, "Email already exists")
		default:
			h.countSignup("error")
			RespondInternal(ctx, "Could not create user")
		}
		return
	}

	h.countSignup("ok")

	ctx.JSON(http.StatusOK, gin.H{
		"message": "User registered successfully",
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		h.countLogin("invalid")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	token, summary, err := h.accounts.Login(cctx, req.Email, req.Password)

	if err != nil {
		switch {
		case errors.Is(err, account.ErrValidation):
			h.countLogin("invalid")
			RespondBadRequest(ctx, "Email and password required")
		case errors.Is(err, account.ErrInvalidCredentials):
			// one message for unknown email and wrong password
			h.countLogin("invalid")
			RespondBadRequest(ctx, "Email or password is incorrect")
		default:
			h.countLogin("error")
			RespondInternal(ctx, "Could not log in")
		}
		return
	}

	h.countLogin("ok")

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    summary,
	})
}

// Profile echoes the identity the access gate attached to the context.
func (h *AuthHandler) Profile(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		// gate should have rejected already; treat as missing token
		RespondError(ctx, http.StatusUnauthorized, "No token provided")
		return
	}

	role, _ := middlewares.RoleFromContext(ctx)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Profile data accessed",
		"user": gin.H{
			"id":   userID,
			"type": role,
		},
	})
}
