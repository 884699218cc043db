package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

const (
	MsgNoData           = "No data provided"
	MsgQuestionRequired = "Question is required"
)

var (
	ErrNoData           = errors.New(MsgNoData)
	ErrQuestionRequired = errors.New(MsgQuestionRequired)
)

// ChatRequest for POST /chat
type ChatRequest struct {
	Question string `json:"question"`
}

// DecodeChatRequest reads a chat request body. Bodies that are absent, not
// JSON, not an object, or an empty object yield ErrNoData; a missing, empty or
// non-string question yields ErrQuestionRequired.
func DecodeChatRequest(r io.Reader) (*ChatRequest, error) {
	if r == nil {
		return nil, ErrNoData
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrNoData
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || !json.Valid(body) || body[0] != '{' {
		return nil, ErrNoData
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || len(fields) == 0 {
		return nil, ErrNoData
	}

	raw, ok := fields["question"]
	if !ok {
		return nil, ErrQuestionRequired
	}
	var question string
	if err := json.Unmarshal(raw, &question); err != nil || question == "" {
		return nil, ErrQuestionRequired
	}
	return &ChatRequest{Question: question}, nil
}
