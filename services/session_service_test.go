package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_CreatesSessionWhenMissing(t *testing.T) {
	rag, _ := newLexicalService(nil)
	sessions := NewSessionService(rag)

	resp := sessions.Chat(context.Background(), "hello there", "")
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, 1, sessions.Count())
}

func TestChat_ReusesSession(t *testing.T) {
	rag, _ := newLexicalService(nil)
	sessions := NewSessionService(rag)

	first := sessions.Chat(context.Background(), "hello there", "")
	second := sessions.Chat(context.Background(), "and again", first.SessionID)

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, 1, sessions.Count())
}

func TestChat_RecordsHistory(t *testing.T) {
	rag, _ := newLexicalService(nil)
	rag.AddDocuments(context.Background(), petsCorpus())
	sessions := NewSessionService(rag)

	resp := sessions.Chat(context.Background(), "tell me about pets", "")
	history := sessions.History(resp.SessionID)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "tell me about pets", history[0].Content)
	assert.Equal(t, "assistant", history[1].Role)
	assert.Equal(t, resp.Answer, history[1].Content)
}

func TestChat_DelegatesAnswerToPipeline(t *testing.T) {
	rag, _ := newLexicalService(nil)
	rag.AddDocuments(context.Background(), petsCorpus())
	sessions := NewSessionService(rag)

	resp := sessions.Chat(context.Background(), "tell me about pets", "")
	require.NotEmpty(t, resp.Sources)
	assert.Equal(t, "A", resp.Sources[0].Metadata.Title)
	assert.True(t, resp.Debug.UsedFallback) // no generator configured
}

func TestChat_UnknownSessionIDIsAccepted(t *testing.T) {
	// A stale id from before a restart must create a fresh session rather
	// than fail.
	rag, _ := newLexicalService(nil)
	sessions := NewSessionService(rag)

	resp := sessions.Chat(context.Background(), "hello there", "stale-id")
	assert.Equal(t, "stale-id", resp.SessionID)
	assert.Len(t, sessions.History("stale-id"), 2)
}
