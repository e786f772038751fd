package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiaoyibao/medassist/internal/domain"
)

// anonymousOwner keys web sessions when no login policy is configured.
const anonymousOwner = "web"

type loginRequest struct {
	Password string `json:"password"`
}

func (s *Server) handleLogin(c *gin.Context) {
	if !s.auth.Enabled() {
		c.JSON(http.StatusOK, gin.H{"login_required": false, "token": ""})
		return
	}
	var req loginRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password required"})
		return
	}
	token, expiry, err := s.auth.Login(req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrWrongPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "密码错误，请重试！"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"login_required": true,
		"token":          token,
		"expires_at":     expiry.Format(time.RFC3339),
	})
}

// requireAuth gates the API behind the login policy. Each authenticated
// token owns its own set of channels; with the gate disabled every web
// client shares the anonymous owner.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.auth.Enabled() {
			c.Set("owner", anonymousOwner)
			c.Next()
			return
		}
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" || !s.auth.Validate(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "登录已过期，请重新登录"})
			return
		}
		c.Set("owner", "web:"+token)
		c.Next()
	}
}

func ownerFrom(c *gin.Context) string {
	if v, ok := c.Get("owner"); ok {
		if owner, ok := v.(string); ok {
			return owner
		}
	}
	return anonymousOwner
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("request processed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
