// Package assistant provides the client for the backend query endpoint.
package assistant

import (
	"errors"

	"github.com/watersight/watersight/internal/instruction"
)

// Client errors.
var (
	// ErrUnavailable means the backend could not serve the query.
	ErrUnavailable = errors.New("assistant backend unavailable")
)

// Confidence is the backend's self-reported confidence in a reply.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// QueryRequest is the payload sent to the backend for one user query.
type QueryRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id"`
}

// QueryResponse is the backend's structured reply: the chat text plus
// optional map and chart instructions and conversational extras.
type QueryResponse struct {
	TextResponse         string                   `json:"text_response"`
	Timestamp            string                   `json:"timestamp,omitempty"`
	ConfidenceLevel      Confidence               `json:"confidence_level,omitempty"`
	SpatialContext       string                   `json:"spatial_context,omitempty"`
	MapInstructions      *instruction.Instruction `json:"map_instructions,omitempty"`
	ChartInstructions    *instruction.ChartIntent `json:"chart_instructions,omitempty"`
	ProactiveSuggestions []string                 `json:"proactive_suggestions,omitempty"`
}
