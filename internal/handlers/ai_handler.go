package handlers

import (
	"net/http"
	"os"

	"restopos/internal/ai"
	"restopos/internal/apierr"

	"github.com/gin-gonic/gin"
)

type AskRequest struct {
	Message string `json:"message" binding:"required"`
}

// POST /v1/ask (admin only)
func AskAI(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, apierr.Validation("message is required").WithDetail("field", "message"))
		return
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		respondErr(c, apierr.Server(nil).WithDetail("reason", "GEMINI_API_KEY not configured"))
		return
	}

	response, err := ai.RunAgent(req.Message, apiKey)
	if err != nil {
		respondErr(c, apierr.Server(err))
		return
	}

	respondOK(c, http.StatusOK, gin.H{"reply": response})
}
