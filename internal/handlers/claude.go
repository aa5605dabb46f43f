package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/t4n15hq/luminari-be/internal/claude"
	"github.com/t4n15hq/luminari-be/internal/dto"
	"github.com/t4n15hq/luminari-be/internal/utils"
)

// ClaudeHandler handles the clinical text-analysis endpoints
type ClaudeHandler struct {
	svc    claude.Completer // nil when no API credential is configured
	logger *zap.Logger
}

// NewClaudeHandler creates a new ClaudeHandler instance
func NewClaudeHandler(svc claude.Completer, logger *zap.Logger) *ClaudeHandler {
	return &ClaudeHandler{svc: svc, logger: logger}
}

// TextProcessing handles clinical text extraction
// @Summary Extract clinical information from text
// @Tags claude
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AnalyzeRequest true "Clinical text"
// @Success 200 {object} dto.AnalysisResponse "Cleaned extraction with confidence"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Missing credential or upstream failure"
// @Router /claude/text-processing [post]
func (h *ClaudeHandler) TextProcessing(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.complete(w, r, claude.TextProcessingPrompt)
	if !ok {
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.AnalysisResponse{
		Result:     claude.StripConfidence(claude.CleanMarkup(raw)),
		Confidence: claude.ExtractConfidence(raw),
	})
}

// PatternAnalysis handles pattern/correlation analysis
// @Summary Analyze clinical text for patterns and correlations
// @Tags claude
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AnalyzeRequest true "Clinical text"
// @Success 200 {object} dto.AnalysisResponse "Cleaned analysis with confidence"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Missing credential or upstream failure"
// @Router /claude/pattern-analysis [post]
func (h *ClaudeHandler) PatternAnalysis(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.complete(w, r, claude.PatternAnalysisPrompt)
	if !ok {
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.AnalysisResponse{
		Result:     claude.StripConfidence(claude.CleanMarkup(raw)),
		Confidence: claude.ExtractConfidence(raw),
	})
}

// ReasoningGeneration handles structured decision reasoning
// @Summary Generate structured decision reasoning
// @Tags claude
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AnalyzeRequest true "Clinical scenario"
// @Success 200 {object} dto.ReasoningResponse "Sectioned reasoning with confidence"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Missing credential or upstream failure"
// @Router /claude/reasoning-generation [post]
func (h *ClaudeHandler) ReasoningGeneration(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.complete(w, r, claude.ReasoningGenerationPrompt)
	if !ok {
		return
	}

	cleaned := claude.StripConfidence(claude.CleanMarkup(raw))
	utils.WriteJSONResponse(w, http.StatusOK, dto.ReasoningResponse{
		Result:     cleaned,
		Sections:   claude.ParseSections(cleaned),
		Confidence: claude.ExtractConfidence(raw),
	})
}

// complete runs the shared request contract: method and payload checks,
// the credential gate, and the upstream call. Reports ok=false after
// writing an error response.
func (h *ClaudeHandler) complete(w http.ResponseWriter, r *http.Request, systemPrompt string) (string, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return "", false
	}

	if h.svc == nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Claude API not configured", "ANTHROPIC_API_KEY is not set")
		return "", false
	}

	var req dto.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return "", false
	}
	if req.Text == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "Text is required")
		return "", false
	}

	raw, err := h.svc.Complete(r.Context(), systemPrompt, req.Text)
	if err != nil {
		h.logger.Error("claude request failed", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Claude analysis failed", err.Error())
		return "", false
	}

	return raw, true
}
