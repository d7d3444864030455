package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/globaldevelopmentfuture/gdfuture-management/internal/accounts"
	"github.com/globaldevelopmentfuture/gdfuture-management/internal/config"
	"github.com/globaldevelopmentfuture/gdfuture-management/internal/resettokens"
	"github.com/globaldevelopmentfuture/gdfuture-management/internal/session"
	"github.com/globaldevelopmentfuture/gdfuture-management/internal/tokens"
	"github.com/globaldevelopmentfuture/gdfuture-management/pkg/logger"
	"github.com/globaldevelopmentfuture/gdfuture-management/pkg/metrics"
	"github.com/globaldevelopmentfuture/gdfuture-management/pkg/middleware"
)

// resetTokenTTL bounds how long a mailed reset link stays usable.
const resetTokenTTL = 30 * time.Minute

// LoginRequest is the credential pair posted by the dashboard login page.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ResetConfirmRequest is the confirm-reset payload.
type ResetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg      *config.Config
	accounts *accounts.Service
	resets   resettokens.Store
}

func NewAuthHandler(cfg *config.Config, a *accounts.Service, r resettokens.Store) *AuthHandler {
	return &AuthHandler{cfg: cfg, accounts: a, resets: r}
}

// Register wires the auth contract plus the bearer-protected member routes.
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	u := rg.Group("/user")
	u.POST("/login", h.Login)

	protected := u.Group("/", middleware.RequireBearer(h.cfg.JWT.Secret))
	protected.GET("/all", h.ListMembers)
	protected.POST("/create", h.CreateMember)
	protected.PUT("/update/:id", h.UpdateMember)
	protected.DELETE("/delete/:id", h.DeleteMember)

	p := rg.Group("/password")
	p.POST("/password-reset-request/:email", h.RequestReset)
	p.POST("/password-reset/", h.ConfirmReset)
	p.GET("/is-token-valid/:token", h.ValidateToken)
}

// Login authenticates the credential pair and responds with the LoginResponse
// shape the dashboard commits to its session store.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	a, err := h.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			metrics.LoginAttempts.WithLabelValues("failure").Inc()
			c.JSON(http.StatusNotFound, gin.H{"message": "invalid email or password"})
			return
		}
		logger.Errorf("login: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "authentication backend unavailable"})
		return
	}
	tok, err := tokens.Generate(h.cfg.JWT.Secret, a, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		logger.Errorf("token generation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create access token"})
		return
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, loginResponse(a, tok))
}

// loginResponse maps an account onto the exact LoginResponse payload.
func loginResponse(a *accounts.Account, token string) session.Session {
	return session.Session{
		JwtToken:   token,
		ID:         a.ID,
		FullName:   a.FullName,
		Phone:      a.Phone,
		Email:      a.Email,
		UserRole:   a.UserRole,
		Location:   a.Location,
		Avatar:     a.Avatar,
		Experience: a.Experience,
		Skills:     a.Skills,
	}
}

// RequestReset mints a reset token for the account. A real deployment mails
// the link; the dev server logs it instead.
func (h *AuthHandler) RequestReset(c *gin.Context) {
	email := c.Param("email")
	a, err := h.accounts.GetByEmail(c.Request.Context(), email)
	if err != nil {
		logger.Errorf("reset request: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "password reset backend unavailable"})
		return
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "no account registered for this email"})
		return
	}
	tok, err := h.resets.Mint(c.Request.Context(), email, resetTokenTTL)
	if err != nil {
		logger.Errorf("reset token mint: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create reset token"})
		return
	}
	metrics.PasswordResetOps.WithLabelValues("request").Inc()
	logger.Infof("password reset link for %s: /password-reset?token=%s", email, tok)
	c.String(http.StatusOK, "Reset instructions sent to "+email)
}

// ValidateToken answers the reset page's "is this link still good" probe.
func (h *AuthHandler) ValidateToken(c *gin.Context) {
	email, err := h.resets.Lookup(c.Request.Context(), c.Param("token"))
	if err != nil {
		logger.Errorf("reset token lookup: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "password reset backend unavailable"})
		return
	}
	metrics.PasswordResetOps.WithLabelValues("validate").Inc()
	c.JSON(http.StatusOK, email != "")
}

// ConfirmReset sets a new password for the account the token was minted for
// and consumes the token so the link cannot be replayed.
func (h *AuthHandler) ConfirmReset(c *gin.Context) {
	var req ResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	email, err := h.resets.Lookup(c.Request.Context(), req.Token)
	if err != nil {
		logger.Errorf("reset confirm: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "password reset backend unavailable"})
		return
	}
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "password reset token invalid or expired"})
		return
	}
	if err := h.accounts.SetPassword(c.Request.Context(), email, req.NewPassword); err != nil {
		logger.Errorf("reset confirm: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update password"})
		return
	}
	_ = h.resets.Consume(c.Request.Context(), req.Token)
	metrics.PasswordResetOps.WithLabelValues("confirm").Inc()
	c.String(http.StatusOK, "Password has been reset successfully")
}

// ListMembers returns every account in UserResponse shape.
func (h *AuthHandler) ListMembers(c *gin.Context) {
	list, err := h.accounts.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list members"})
		return
	}
	c.JSON(http.StatusOK, list)
}

type createMemberRequest struct {
	FullName     string        `json:"fullName" binding:"required"`
	Phone        string        `json:"phone"`
	Email        string        `json:"email" binding:"required"`
	Password     string        `json:"password"`
	UserRole     *session.Role `json:"userRole"`
	Location     string        `json:"location"`
	Experience   string        `json:"experience"`
	TeamPosition string        `json:"teamPosition"`
	Skills       []string      `json:"skills"`
}

func (h *AuthHandler) CreateMember(c *gin.Context) {
	var req createMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	a := &accounts.Account{
		FullName:     req.FullName,
		Phone:        req.Phone,
		Email:        req.Email,
		UserRole:     req.UserRole,
		Location:     req.Location,
		Experience:   req.Experience,
		TeamPosition: req.TeamPosition,
		Skills:       req.Skills,
	}
	created, err := h.accounts.Register(c.Request.Context(), a, req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create member"})
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *AuthHandler) UpdateMember(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid member id"})
		return
	}
	var req createMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	updated, err := h.accounts.Update(c.Request.Context(), &accounts.Account{
		ID:           id,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Email:        req.Email,
		Location:     req.Location,
		Experience:   req.Experience,
		TeamPosition: req.TeamPosition,
		Skills:       req.Skills,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update member"})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "member not found"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *AuthHandler) DeleteMember(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid member id"})
		return
	}
	if err := h.accounts.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete member"})
		return
	}
	c.Status(http.StatusOK)
}
