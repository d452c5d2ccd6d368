package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxQuestionLength is the longest question, in runes, accepted by ChatRequest.Validate.
const MaxQuestionLength = 4000

// ChatRequest is a single question about the loaded document.
type ChatRequest struct {
	Question string `json:"question"`
}

// Validate trims the question and rejects blank or oversized input.
func (r *ChatRequest) Validate() error {
	r.Question = strings.TrimSpace(r.Question)
	if r.Question == "" {
		return fmt.Errorf("question cannot be empty")
	}
	if utf8.RuneCountInString(r.Question) > MaxQuestionLength {
		return fmt.Errorf("question exceeds %d characters", MaxQuestionLength)
	}
	return nil
}

// ChatResponse carries the generated answer.
type ChatResponse struct {
	Answer string `json:"answer"`
}

// UploadResponse is returned after a document has been processed.
type UploadResponse struct {
	Status   string        `json:"status"`
	Document *DocumentInfo `json:"document,omitempty"`
}

// StatusResponse describes the session state.
type StatusResponse struct {
	State      string        `json:"state"`
	Generation uint64        `json:"generation"`
	Document   *DocumentInfo `json:"document,omitempty"`
}
