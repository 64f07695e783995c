package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (s *Server) handlePlatformStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": s.platform.PlatformStats()})
}

func (s *Server) handleGatewayStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   gin.H{"total_requests": s.platform.Gateway().Stats().TotalRequests()},
	})
}

func (s *Server) handleGuardrailsStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": s.platform.Guardrails().Stats()})
}

type createConversationRequest struct {
	SourceCode     string `json:"sourceCode"`
	SourceLanguage string `json:"sourceLanguage"`
	TargetLanguage string `json:"targetLanguage"`
}

func (s *Server) handleCreateConversation(c *gin.Context) {
	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SourceCode == "" || req.SourceLanguage == "" || req.TargetLanguage == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing required fields"})
		return
	}

	id := s.platform.CreateConversation(req.SourceCode, req.SourceLanguage, req.TargetLanguage)
	c.JSON(http.StatusOK, gin.H{"success": true, "conversation_id": id})
}

func (s *Server) handleGetConversation(c *gin.Context) {
	conv, ok := s.platform.GetConversation(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Conversation not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "conversation": conv})
}

func (s *Server) handleTranslateConversation(c *gin.Context) {
	result := s.platform.TranslateCode(c.Param("id"))
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, s.dashboard.Snapshot())
}

func (s *Server) handleDashboardAgents(c *gin.Context) {
	c.JSON(http.StatusOK, s.dashboard.Snapshot().Agents)
}

func (s *Server) handleDashboardAgent(c *gin.Context) {
	name := c.Param("name")
	snap, ok := s.dashboard.AgentSnapshot(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agent " + name + " not found"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleDashboardSystem(c *gin.Context) {
	c.JSON(http.StatusOK, s.dashboard.Snapshot().System)
}

func (s *Server) handleDashboardActivity(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	c.JSON(http.StatusOK, s.dashboard.Activity(limit))
}
