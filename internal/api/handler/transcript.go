package handler

import (
	"net/http"

	"github.com/watersight/watersight/internal/api/response"
	"github.com/watersight/watersight/internal/controller"
	"github.com/watersight/watersight/internal/transcript"
)

// TranscriptHandler serves the chat transcript and the current chart.
type TranscriptHandler struct {
	controller *controller.Controller
}

// NewTranscriptHandler creates a new TranscriptHandler.
func NewTranscriptHandler(c *controller.Controller) *TranscriptHandler {
	return &TranscriptHandler{controller: c}
}

type transcriptResponse struct {
	Messages []transcript.Message `json:"messages"`
	Busy     bool                 `json:"busy"`
}

// GetTranscript handles GET /v1/transcript.
func (h *TranscriptHandler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, transcriptResponse{
		Messages: h.controller.Transcript(),
		Busy:     h.controller.Busy(),
	})
}

// GetChart handles GET /v1/chart, returning the most recently composed
// chart. Before the first chart is composed the body is null.
func (h *TranscriptHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.controller.Chart())
}
