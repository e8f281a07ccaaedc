// Package httpapi exposes conversations over HTTP so an external voice
// pipeline can start them, relay tool calls and narrate results.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	orchestration "github.com/koscakluka/ema-assist/core"
	"github.com/koscakluka/ema-assist/core/assistants"
	"github.com/koscakluka/ema-assist/core/tools"
	"github.com/koscakluka/ema-assist/internal/logger"
)

const (
	module          = "httpapi"
	maxRequestBytes = 1 << 20
)

type server struct {
	logger       logger.ILogger
	orchestrator *orchestration.Orchestrator
}

func NewServer(log logger.ILogger, addr string, orchestrator *orchestration.Orchestrator) *http.Server {
	s := &server{logger: log, orchestrator: orchestrator}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /v1/conversations", s.handleStartConversation)
	mux.HandleFunc("GET /v1/conversations/{id}", s.handleGetConversation)
	mux.HandleFunc("DELETE /v1/conversations/{id}", s.handleEndConversation)
	mux.HandleFunc("GET /v1/conversations/{id}/tools", s.handleTools)
	mux.HandleFunc("POST /v1/conversations/{id}/calls", s.handleCall)
	mux.HandleFunc("POST /v1/conversations/{id}/utterances", s.handleUtterance)

	return &http.Server{
		Addr: addr,
		Handler: otelhttp.NewHandler(mux, "ema-assist",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			})),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

type startRequest struct {
	Assistant string `json:"assistant"`
}

type conversationResponse struct {
	ID        string             `json:"id"`
	Assistant string             `json:"assistant"`
	Greeting  string             `json:"greeting"`
	Voice     string             `json:"voice"`
	Tools     []tools.Definition `json:"tools"`
}

type callRequest struct {
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

type callResponse struct {
	Result string `json:"result"`
	// Hangup is set once a tool has asked to end the call.
	Hangup string `json:"hangup,omitempty"`
}

type utteranceRequest struct {
	Text string `json:"text"`
}

type utteranceResponse struct {
	Seq   uint64 `json:"seq"`
	Voice string `json:"voice"`
	Text  string `json:"text"`
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":            true,
		"conversations": s.orchestrator.ConversationCount(),
	})
}

func (s *server) handleStartConversation(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decodeBody(w, r, &req) {
		return
	}
	kind, err := assistants.ParseKind(req.Assistant)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conversation, err := s.orchestrator.StartConversation(r.Context(), kind)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, orchestration.ErrOrchestratorClosed) {
			status = http.StatusServiceUnavailable
		}
		s.logger.Error(module, "failed to start conversation", map[string]any{"assistant": string(kind), "error": err})
		http.Error(w, "failed to start conversation", status)
		return
	}

	writeJSON(w, http.StatusCreated, conversationResponse{
		ID:        conversation.ID(),
		Assistant: string(conversation.Kind()),
		Greeting:  conversation.Greeting(),
		Voice:     string(conversation.Voice()),
		Tools:     conversation.Tools(),
	})
}

func (s *server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	conversation, ok := s.conversation(w, r)
	if !ok {
		return
	}
	snapshot, err := conversation.Snapshot(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusGone)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *server) handleEndConversation(w http.ResponseWriter, r *http.Request) {
	if err := s.orchestrator.EndConversation(r.PathValue("id"), "ended by client"); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleTools(w http.ResponseWriter, r *http.Request) {
	conversation, ok := s.conversation(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": conversation.Tools()})
}

// handleCall always answers 200 with the text to narrate, including for
// unknown tools and bad arguments.
func (s *server) handleCall(w http.ResponseWriter, r *http.Request) {
	conversation, ok := s.conversation(w, r)
	if !ok {
		return
	}
	var req callRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	result := conversation.CallTool(r.Context(), tools.Call{
		ID:        req.ID,
		Name:      tools.Name(req.Name),
		Arguments: req.Arguments,
	})
	hangup, _ := conversation.HangupRequested()
	writeJSON(w, http.StatusOK, callResponse{Result: result, Hangup: hangup})
}

func (s *server) handleUtterance(w http.ResponseWriter, r *http.Request) {
	conversation, ok := s.conversation(w, r)
	if !ok {
		return
	}
	var req utteranceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	utterance, err := conversation.Say(r.Context(), req.Text)
	if err != nil {
		s.logger.Warn(module, "utterance failed", map[string]any{"conversation_id": conversation.ID(), "error": err.Error()})
		http.Error(w, "failed to synthesize utterance", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, utteranceResponse{Seq: utterance.Seq, Voice: string(utterance.Voice), Text: req.Text})
}

func (s *server) conversation(w http.ResponseWriter, r *http.Request) (*orchestration.Conversation, bool) {
	conversation, err := s.orchestrator.Conversation(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	return conversation, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, into any) bool {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(into); err != nil {
		http.Error(w, fmt.Sprintf("invalid json: %v", err), http.StatusBadRequest)
		return false
	}
	if dec.More() {
		http.Error(w, "invalid json: trailing content", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
