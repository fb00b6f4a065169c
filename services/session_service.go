package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"newsrag/models"
)

// ChatMessage is one turn of a session's history.
type ChatMessage struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// SessionService issues session identifiers and keeps per-session message
// history. It adds no retrieval logic; answering is delegated verbatim to
// the RAG pipeline.
type SessionService struct {
	mu       sync.RWMutex
	rag      RAGService
	sessions map[string][]ChatMessage
}

func NewSessionService(rag RAGService) *SessionService {
	return &SessionService{rag: rag, sessions: make(map[string][]ChatMessage)}
}

// Chat answers a message within a session, creating the session when the id
// is empty or unknown (e.g. after a restart).
func (s *SessionService) Chat(ctx context.Context, message, sessionID string) *models.ChatResponse {
	s.mu.Lock()
	if sessionID == "" {
		sessionID = uuid.New().String()
		log.Printf("SESSION: created new session %s", sessionID)
	}
	if _, ok := s.sessions[sessionID]; !ok {
		s.sessions[sessionID] = []ChatMessage{}
	}
	s.mu.Unlock()

	result := s.rag.Query(ctx, message, defaultTopK, false)

	s.mu.Lock()
	s.sessions[sessionID] = append(s.sessions[sessionID],
		ChatMessage{Role: "user", Content: message, At: time.Now().UTC()},
		ChatMessage{Role: "assistant", Content: result.Answer, At: time.Now().UTC()},
	)
	s.mu.Unlock()

	return &models.ChatResponse{
		Answer:    result.Answer,
		Sources:   result.Sources,
		SessionID: sessionID,
		Debug:     result.Debug,
	}
}

// History returns a copy of the stored messages for a session.
func (s *SessionService) History(sessionID string) []ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.sessions[sessionID]
	out := make([]ChatMessage, len(history))
	copy(out, history)
	return out
}

// Count reports how many sessions exist.
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
