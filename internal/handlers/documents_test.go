package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/t4n15hq/luminari-be/internal/dto"
)

func TestBuildListQuery_NoFilters(t *testing.T) {
	t.Parallel()

	query, args := buildListQuery(dto.DocumentFilter{})

	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "ORDER BY created_at DESC")
	assert.Empty(t, args)
}

func TestBuildListQuery_SingleFilter(t *testing.T) {
	t.Parallel()

	query, args := buildListQuery(dto.DocumentFilter{Type: "PROTOCOL"})

	assert.Contains(t, query, "WHERE type = $1")
	assert.Contains(t, query, "ORDER BY created_at DESC")
	assert.Equal(t, []any{"PROTOCOL"}, args)
}

func TestBuildListQuery_AllFilters(t *testing.T) {
	t.Parallel()

	query, args := buildListQuery(dto.DocumentFilter{
		Type:         "PROTOCOL",
		Country:      "DE",
		Region:       "EU",
		Disease:      "psoriasis",
		DocumentType: "IND",
	})

	assert.Contains(t, query, "type = $1")
	assert.Contains(t, query, "country = $2")
	assert.Contains(t, query, "region = $3")
	assert.Contains(t, query, "disease = $4")
	assert.Contains(t, query, "document_type = $5")
	assert.Equal(t, []any{"PROTOCOL", "DE", "EU", "psoriasis", "IND"}, args)
}

func TestBuildListQuery_EmptyValueMeansNoFilter(t *testing.T) {
	t.Parallel()

	// a query parameter present but empty must not constrain the result set
	query, args := buildListQuery(dto.DocumentFilter{Type: "", Country: "DE"})

	assert.NotContains(t, query, "type =")
	assert.Contains(t, query, "country = $1")
	assert.Equal(t, []any{"DE"}, args)
}

func TestBuildUpdateQuery_OnlyProvidedFields(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	title := "revised protocol"
	query, args := buildUpdateQuery(id, dto.DocumentRequest{Title: &title})

	assert.Contains(t, query, "title = $1")
	assert.Contains(t, query, "updated_at = $2")
	assert.Contains(t, query, "WHERE id = $3")
	assert.Contains(t, query, "RETURNING")
	assert.NotContains(t, query, "content =")
	require.Len(t, args, 3)
	assert.Equal(t, "revised protocol", args[0])
	assert.Equal(t, id, args[2])
}

func TestBuildUpdateQuery_AlwaysTouchesUpdatedAt(t *testing.T) {
	t.Parallel()

	query, args := buildUpdateQuery(uuid.New(), dto.DocumentRequest{})

	assert.Contains(t, query, "updated_at = $1")
	assert.Contains(t, query, "WHERE id = $2")
	assert.Len(t, args, 2)
}

func TestDocumentsItem_InvalidID(t *testing.T) {
	t.Parallel()

	h := NewDocumentsHandler(nil, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/documents/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	h.Item(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid document id")
}

func TestDocumentsCollection_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	h := NewDocumentsHandler(nil, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodDelete, "/documents", nil)
	rec := httptest.NewRecorder()
	h.Collection(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
