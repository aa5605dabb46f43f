package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Document type enumeration, enforced at the storage layer.
const (
	DocumentTypeProtocol    = "PROTOCOL"
	DocumentTypeStudyDesign = "STUDY_DESIGN"
	DocumentTypeRegulatory  = "REGULATORY"
	DocumentTypeOther       = "OTHER"
)

// Document represents a clinical document record
type Document struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Type         string          `json:"type" db:"type"`
	Title        string          `json:"title" db:"title"`
	Content      string          `json:"content" db:"content"`
	Disease      *string         `json:"disease" db:"disease"`
	Country      *string         `json:"country" db:"country"`
	Region       *string         `json:"region" db:"region"`
	ProtocolID   *string         `json:"protocol_id" db:"protocol_id"`
	DocumentType *string         `json:"document_type" db:"document_type"`
	Sections     json.RawMessage `json:"sections" db:"sections"`
	UserID       *uuid.UUID      `json:"user_id" db:"user_id"`
	Tags         []string        `json:"tags" db:"tags"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}
