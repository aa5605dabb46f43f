package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/t4n15hq/luminari-be/internal/claude"
	"github.com/t4n15hq/luminari-be/internal/dto"
)

type fakeCompleter struct {
	response   string
	err        error
	gotSystem  string
	gotContent string
}

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt, content string) (string, error) {
	f.gotSystem = systemPrompt
	f.gotContent = content
	return f.response, f.err
}

func analyzeRequest(t *testing.T, path, text string) *http.Request {
	t.Helper()
	body, err := json.Marshal(dto.AnalyzeRequest{Text: text})
	require.NoError(t, err)
	return httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(body)))
}

func TestTextProcessing_CleansMarkupAndExtractsConfidence(t *testing.T) {
	t.Parallel()

	fake := &fakeCompleter{response: "**Diagnosis**: flu `ICD-10 J11.1`\n\nCONFIDENCE SCORE: 82%"}
	h := NewClaudeHandler(fake, zap.NewNop())

	rec := httptest.NewRecorder()
	h.TextProcessing(rec, analyzeRequest(t, "/claude/text-processing", "patient note"))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.AnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Diagnosis: flu ICD-10 J11.1", resp.Result)
	require.NotNil(t, resp.Confidence)
	assert.InDelta(t, 0.82, *resp.Confidence, 1e-9)

	assert.Equal(t, claude.TextProcessingPrompt, fake.gotSystem)
	assert.Equal(t, "patient note", fake.gotContent)
}

func TestTextProcessing_NoConfidenceAnnotationIsNull(t *testing.T) {
	t.Parallel()

	fake := &fakeCompleter{response: "Diagnosis: flu"}
	h := NewClaudeHandler(fake, zap.NewNop())

	rec := httptest.NewRecorder()
	h.TextProcessing(rec, analyzeRequest(t, "/claude/text-processing", "patient note"))

	require.Equal(t, http.StatusOK, rec.Code)
	// unknown, not zero
	assert.Contains(t, rec.Body.String(), `"confidence":null`)
}

func TestPatternAnalysis_UsesItsOwnPrompt(t *testing.T) {
	t.Parallel()

	fake := &fakeCompleter{response: "No notable correlations.\nCONFIDENCE SCORE: 60%"}
	h := NewClaudeHandler(fake, zap.NewNop())

	rec := httptest.NewRecorder()
	h.PatternAnalysis(rec, analyzeRequest(t, "/claude/pattern-analysis", "cohort data"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, claude.PatternAnalysisPrompt, fake.gotSystem)
}

func TestReasoningGeneration_ParsesSections(t *testing.T) {
	t.Parallel()

	fake := &fakeCompleter{response: "DECISION SUMMARY\nApprove the protocol.\n\nRATIONALE\nStrong phase I data.\n\nCONFIDENCE SCORE: 75%"}
	h := NewClaudeHandler(fake, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ReasoningGeneration(rec, analyzeRequest(t, "/claude/reasoning-generation", "scenario"))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ReasoningResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Approve the protocol.", resp.Sections["decision_summary"])
	assert.Equal(t, "Strong phase I data.", resp.Sections["rationale"])
	assert.Equal(t, claude.SectionPlaceholder, resp.Sections["risk_assessment"])
	require.NotNil(t, resp.Confidence)
	assert.InDelta(t, 0.75, *resp.Confidence, 1e-9)
}

func TestClaudeEndpoints_NotConfigured(t *testing.T) {
	t.Parallel()

	h := NewClaudeHandler(nil, zap.NewNop())

	rec := httptest.NewRecorder()
	h.TextProcessing(rec, analyzeRequest(t, "/claude/text-processing", "note"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "not configured")
}

func TestClaudeEndpoints_MissingText(t *testing.T) {
	t.Parallel()

	h := NewClaudeHandler(&fakeCompleter{}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.TextProcessing(rec, analyzeRequest(t, "/claude/text-processing", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClaudeEndpoints_UpstreamFailure(t *testing.T) {
	t.Parallel()

	fake := &fakeCompleter{err: errors.New("claude API error: overloaded")}
	h := NewClaudeHandler(fake, zap.NewNop())

	rec := httptest.NewRecorder()
	h.PatternAnalysis(rec, analyzeRequest(t, "/claude/pattern-analysis", "note"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "overloaded")
}

func TestClaudeEndpoints_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	h := NewClaudeHandler(&fakeCompleter{}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.TextProcessing(rec, httptest.NewRequest(http.MethodGet, "/claude/text-processing", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
