package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/t4n15hq/luminari-be/internal/db"
	"github.com/t4n15hq/luminari-be/internal/dto"
	"github.com/t4n15hq/luminari-be/internal/middleware"
	"github.com/t4n15hq/luminari-be/internal/models"
	"github.com/t4n15hq/luminari-be/internal/utils"
)

const documentColumns = "id, type, title, content, disease, country, region, protocol_id, document_type, sections, user_id, tags, created_at, updated_at"

// DocumentsHandler handles document CRUD requests
type DocumentsHandler struct {
	db     db.Querier
	cache  db.StatementCacheResetter
	logger *zap.Logger
}

// NewDocumentsHandler creates a new DocumentsHandler instance
func NewDocumentsHandler(q db.Querier, cache db.StatementCacheResetter, logger *zap.Logger) *DocumentsHandler {
	return &DocumentsHandler{db: q, cache: cache, logger: logger}
}

// Collection dispatches /documents by method
func (h *DocumentsHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Item dispatches /documents/{id} by method
func (h *DocumentsHandler) Item(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/documents/")
	id, err := uuid.Parse(idStr)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid document id", idStr)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// create handles document creation
// @Summary Create a document
// @Tags documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.DocumentRequest true "Document fields"
// @Success 201 {object} models.Document "Document created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /documents [post]
func (h *DocumentsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	docType := models.DocumentTypeOther
	if req.Type != nil && *req.Type != "" {
		docType = *req.Type
	}
	title, content := "", ""
	if req.Title != nil {
		title = *req.Title
	}
	if req.Content != nil {
		content = *req.Content
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	// jsonb wants a text literal, not bytea
	var sections any
	if req.Sections != nil {
		sections = string(req.Sections)
	}

	var owner *uuid.UUID
	if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
		owner = &userID
	}

	id := uuid.New()
	now := time.Now()

	doc, err := db.WithRetry(r.Context(), h.logger, db.DefaultPolicy, h.cache, func(ctx context.Context) (models.Document, error) {
		row := h.db.QueryRow(ctx,
			`INSERT INTO documents (id, type, title, content, disease, country, region, protocol_id, document_type, sections, user_id, tags, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			 RETURNING `+documentColumns,
			id, docType, title, content, req.Disease, req.Country, req.Region,
			req.ProtocolID, req.DocumentType, sections, owner, tags, now, now)
		return scanDocument(row)
	})
	if err != nil {
		h.logger.Error("document insert failed", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to create document", "Database error")
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, doc)
}

// list handles filtered document listing
// @Summary List documents
// @Description List documents, newest first, with optional exact-match filters
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param type query string false "Document type"
// @Param country query string false "Country"
// @Param region query string false "Region"
// @Param disease query string false "Disease"
// @Param documentType query string false "Document type string"
// @Success 200 {array} models.Document "Documents"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /documents [get]
func (h *DocumentsHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := dto.DocumentFilter{
		Type:         q.Get("type"),
		Country:      q.Get("country"),
		Region:       q.Get("region"),
		Disease:      q.Get("disease"),
		DocumentType: q.Get("documentType"),
	}

	query, args := buildListQuery(filter)

	docs, err := db.WithRetry(r.Context(), h.logger, db.DefaultPolicy, h.cache, func(ctx context.Context) ([]models.Document, error) {
		rows, err := h.db.Query(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		docs := []models.Document{}
		for rows.Next() {
			doc, err := scanDocument(rows)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
		return docs, rows.Err()
	})
	if err != nil {
		h.logger.Error("document list failed", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to fetch documents", "Database error")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, docs)
}

// get handles single-document retrieval
// @Summary Get a document
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document id"
// @Success 200 {object} models.Document "Document"
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /documents/{id} [get]
func (h *DocumentsHandler) get(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	doc, err := db.WithRetry(r.Context(), h.logger, db.DefaultPolicy, h.cache, func(ctx context.Context) (models.Document, error) {
		row := h.db.QueryRow(ctx, "SELECT "+documentColumns+" FROM documents WHERE id = $1", id)
		return scanDocument(row)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Document not found", id.String())
		return
	}
	if err != nil {
		h.logger.Error("document fetch failed", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to fetch document", "Database error")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, doc)
}

// update handles partial document updates
// @Summary Update a document
// @Tags documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document id"
// @Param request body dto.DocumentRequest true "Fields to update"
// @Success 200 {object} models.Document "Updated document"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or unknown document"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /documents/{id} [put]
func (h *DocumentsHandler) update(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req dto.DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	query, args := buildUpdateQuery(id, req)

	doc, err := db.WithRetry(r.Context(), h.logger, db.DefaultPolicy, h.cache, func(ctx context.Context) (models.Document, error) {
		return scanDocument(h.db.QueryRow(ctx, query, args...))
	})
	if errors.Is(err, pgx.ErrNoRows) {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Failed to update document", "Document does not exist")
		return
	}
	if err != nil {
		h.logger.Error("document update failed", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to update document", "Database error")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, doc)
}

// delete handles document deletion
// @Summary Delete a document
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document id"
// @Success 200 {object} map[string]string "Deleted"
// @Failure 400 {object} dto.ErrorResponse "Unknown document"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /documents/{id} [delete]
func (h *DocumentsHandler) delete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	deleted, err := db.WithRetry(r.Context(), h.logger, db.DefaultPolicy, h.cache, func(ctx context.Context) (bool, error) {
		tag, err := h.db.Exec(ctx, "DELETE FROM documents WHERE id = $1", id)
		if err != nil {
			return false, err
		}
		return tag.RowsAffected() > 0, nil
	})
	if err != nil {
		h.logger.Error("document delete failed", zap.Error(err))
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to delete document", "Database error")
		return
	}
	if !deleted {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Failed to delete document", "Document does not exist")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Document deleted"})
}

// buildListQuery assembles the filtered list statement. An empty filter
// value means "no filter": a query parameter that is present but empty
// never constrains the result set.
func buildListQuery(f dto.DocumentFilter) (string, []any) {
	query := "SELECT " + documentColumns + " FROM documents"

	var (
		clauses []string
		args    []any
	)
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("type", f.Type)
	add("country", f.Country)
	add("region", f.Region)
	add("disease", f.Disease)
	add("document_type", f.DocumentType)

	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	return query, args
}

// buildUpdateQuery assembles a partial update touching only the fields the
// caller supplied. updated_at always advances.
func buildUpdateQuery(id uuid.UUID, req dto.DocumentRequest) (string, []any) {
	sets := []string{}
	args := []any{}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Type != nil {
		set("type", *req.Type)
	}
	if req.Title != nil {
		set("title", *req.Title)
	}
	if req.Content != nil {
		set("content", *req.Content)
	}
	if req.Disease != nil {
		set("disease", *req.Disease)
	}
	if req.Country != nil {
		set("country", *req.Country)
	}
	if req.Region != nil {
		set("region", *req.Region)
	}
	if req.ProtocolID != nil {
		set("protocol_id", *req.ProtocolID)
	}
	if req.DocumentType != nil {
		set("document_type", *req.DocumentType)
	}
	if req.Sections != nil {
		set("sections", string(req.Sections))
	}
	if req.Tags != nil {
		set("tags", req.Tags)
	}
	set("updated_at", time.Now())

	args = append(args, id)
	query := fmt.Sprintf("UPDATE documents SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), documentColumns)

	return query, args
}

func scanDocument(row pgx.Row) (models.Document, error) {
	var doc models.Document
	err := row.Scan(&doc.ID, &doc.Type, &doc.Title, &doc.Content, &doc.Disease,
		&doc.Country, &doc.Region, &doc.ProtocolID, &doc.DocumentType,
		&doc.Sections, &doc.UserID, &doc.Tags, &doc.CreatedAt, &doc.UpdatedAt)
	return doc, err
}
