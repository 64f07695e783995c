package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Harshavardhan123-cloud/agentic-ai-platform/internal/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Missing username or password"})
		return
	}

	ok, err := s.store.VerifyUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.logger.Error("verify user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Login failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Bad username or password"})
		return
	}

	access, refresh, err := s.auth.IssueTokens(req.Username)
	if err != nil {
		s.logger.Error("issue tokens", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Login failed"})
		return
	}

	role := "user"
	if req.Username == "admin" {
		role = "admin"
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  access,
		"refresh_token": refresh,
		"user":          gin.H{"username": req.Username, "role": role},
	})
}

func (s *Server) handleRefresh(c *gin.Context) {
	token, ok := auth.BearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Missing refresh token"})
		return
	}
	access, err := s.auth.RefreshAccess(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Invalid or expired refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access})
}

func (s *Server) handleProtected(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"logged_in_as": auth.Identity(c)})
}
