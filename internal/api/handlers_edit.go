package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongye-zhang/public-texteditor/internal/intent"
	"github.com/hongye-zhang/public-texteditor/internal/llm"
	"github.com/hongye-zhang/public-texteditor/internal/pipeline"
)

const chatSystemPrompt = `You are a helpful writing assistant inside a document editor. Answer the user's questions clearly and concisely. Do not emit document markup or paragraph IDs; respond in plain prose.`

type editRequest struct {
	Document    map[string]any `json:"document"`
	Message     string         `json:"message"`
	SelectedIDs []string       `json:"selected_ids"`
	SessionID   string         `json:"session_id"`
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Document == nil {
		jsonError(w, "document is required", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		jsonError(w, "message is required", http.StatusBadRequest)
		return
	}

	sess := s.sessions.GetOrCreate(req.SessionID)

	result := s.pipeline.Process(r.Context(), pipeline.EditRequest{
		Document:    req.Document,
		Message:     req.Message,
		SelectedIDs: req.SelectedIDs,
		History:     sess.History(),
	})

	sess.Append("user", req.Message)
	if result.Error == "" {
		sess.Append("assistant", result.Edited)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		SessionID string `json:"session_id"`
		*pipeline.EditResult
	}{sess.ID, result})
}

type chatRequest struct {
	Message     string         `json:"message"`
	Document    map[string]any `json:"document,omitempty"`
	SelectedIDs []string       `json:"selected_ids,omitempty"`
	SessionID   string         `json:"session_id"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		jsonError(w, "message is required", http.StatusBadRequest)
		return
	}

	sess := s.sessions.GetOrCreate(req.SessionID)

	it, err := s.classifier.Classify(r.Context(), req.Message)
	if err != nil {
		jsonError(w, "intent classification failed: "+err.Error(), http.StatusBadGateway)
		return
	}
	s.log.Info("intent classified", "type", it.Type, "confidence", it.Confidence)

	// An edit intent with a document routes into the edit pipeline;
	// everything else gets a plain assistant reply.
	if it.Type == intent.ModifyExisting && req.Document != nil {
		result := s.pipeline.Process(r.Context(), pipeline.EditRequest{
			Document:    req.Document,
			Message:     req.Message,
			SelectedIDs: req.SelectedIDs,
			History:     sess.History(),
		})

		sess.Append("user", req.Message)
		if result.Error == "" {
			sess.Append("assistant", result.Edited)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(struct {
			SessionID string         `json:"session_id"`
			Intent    *intent.Intent `json:"intent"`
			*pipeline.EditResult
		}{sess.ID, it, result})
		return
	}

	reply, err := s.client.Generate(r.Context(), llm.Request{
		System:  chatSystemPrompt,
		Prompt:  req.Message,
		History: sess.History(),
	})
	if err != nil {
		jsonError(w, "generation failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	sess.Append("user", req.Message)
	sess.Append("assistant", reply)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"session_id": sess.ID,
		"intent":     it,
		"reply":      reply,
	})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	sess := s.sessions.Get(sessionID)
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"session_id": sess.ID,
		"created_at": sess.CreatedAt,
		"updated_at": sess.UpdatedAt,
		"history":    sess.History(),
	})
}
