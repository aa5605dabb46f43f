package dto

import "encoding/json"

// DocumentRequest represents the create/update payload for a document.
// Fields are passed through to the store; the schema is the only shape
// validation.
type DocumentRequest struct {
	Type         *string         `json:"type,omitempty"`
	Title        *string         `json:"title,omitempty"`
	Content      *string         `json:"content,omitempty"`
	Disease      *string         `json:"disease,omitempty"`
	Country      *string         `json:"country,omitempty"`
	Region       *string         `json:"region,omitempty"`
	ProtocolID   *string         `json:"protocol_id,omitempty"`
	DocumentType *string         `json:"document_type,omitempty"`
	Sections     json.RawMessage `json:"sections,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
}

// DocumentFilter carries the optional exact-match query parameters for
// listing documents. Empty values mean "no filter".
type DocumentFilter struct {
	Type         string
	Country      string
	Region       string
	Disease      string
	DocumentType string
}
