// chat.go - Symptom analysis endpoint

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arogyalabs/telehealth-backend/internal/catalog"
	"github.com/arogyalabs/telehealth-backend/internal/common"
)

type analyzeRequest struct {
	Symptoms        string `json:"symptoms"`
	FollowUpAnswers string `json:"followUpAnswers"`
	Language        string `json:"language"`
}

func (s *Server) handleAnalyzeSymptoms(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Symptoms == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Symptoms are required"})
		return
	}
	if req.Language == "" {
		req.Language = "English"
	}

	rc := common.NewRequestContext()
	rc.LogInfo("Analyzing symptoms")

	analysis := s.triage.Analyze(c.Request.Context(), req.Symptoms, req.FollowUpAnswers, req.Language, rc)

	// Medicine suggestions only resolve against the catalog when the
	// analysis actually produced them.
	suggestedMedicines := []catalog.Medicine{}
	if analysis.IsValidHealthQuery && !analysis.NeedsClarification {
		suggestedMedicines = s.catalog.ResolveAll(analysis.SuggestedMedicines, 3)
	}

	c.JSON(http.StatusOK, gin.H{
		"isValidHealthQuery": analysis.IsValidHealthQuery,
		"needsClarification": analysis.NeedsClarification,
		"analysis":           analysis.Analysis,
		"severity":           analysis.Severity,
		"followUpQuestions":  analysis.FollowUpQuestions,
		"recommendations":    analysis.Recommendations,
		"suggestedMedicines": suggestedMedicines,
		"doctorConsultation": analysis.DoctorConsultation,
		"urgencyLevel":       analysis.UrgencyLevel,
	})
}
