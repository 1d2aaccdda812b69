package auth

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/brightforge-labs/discovery-crm-backend/internal/users/repository"
)

// Handler serves the login endpoint.
type Handler struct {
	users  *repository.UserRepository
	issuer *TokenIssuer
	log    *zap.SugaredLogger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewHandler(users *repository.UserRepository, issuer *TokenIssuer, log *zap.SugaredLogger) *Handler {
	return &Handler{
		users:    users,
		issuer:   issuer,
		log:      log,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/login", h.login)
}

// limiter returns the per-IP login limiter: 5 attempts burst, refilling
// one per 10 seconds.
func (h *Handler) limiter(ip string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()

	l, ok := h.limiters[ip]
	if !ok {
		l = rate.NewLimiter(rate.Limit(0.1), 5)
		h.limiters[ip] = l
	}
	return l
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	if !h.limiter(c.ClientIP()).Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": "too many login attempts"})
		return
	}

	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	u, err := h.users.FindByEmail(c.Request.Context(), strings.TrimSpace(req.Email))
	if err != nil || !CheckPassword(u.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid credentials"})
		return
	}

	token, err := h.issuer.Issue(u)
	if err != nil {
		h.log.Errorw("issue token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "access_token": token})
}
