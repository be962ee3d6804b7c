package service

import (
	"context"
	"fmt"
	"log"

	"tripdesk/internal/llm"
	"tripdesk/internal/port"
)

// ChatService answers natural-language questions over a user's accumulated
// trip data and handles the bulk-clear command.
type ChatService interface {
	Answer(ctx context.Context, userID, question string) (string, error)
	Clear(ctx context.Context, userID string) error
}

type chatService struct {
	ledger port.Ledger
	text   port.TextCompleter
}

// NewChatService creates a ChatService.
func NewChatService(ledger port.Ledger, text port.TextCompleter) ChatService {
	return &chatService{ledger: ledger, text: text}
}

func (s *chatService) Answer(ctx context.Context, userID, question string) (string, error) {
	snapshot, err := s.ledger.Snapshot(ctx, userID)
	if err != nil {
		// Answer from an empty ledger rather than blocking the user.
		log.Printf("chatService.Answer: snapshot for %s failed, answering without data: %v", userID, err)
		snapshot = "{}"
	}

	answer, err := s.text.Complete(ctx, llm.QuestionPrompt(snapshot, question))
	if err != nil {
		return "", fmt.Errorf("answering question: %w", err)
	}
	return answer, nil
}

func (s *chatService) Clear(ctx context.Context, userID string) error {
	if err := s.ledger.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clearing ledger for %s: %w", userID, err)
	}
	log.Printf("chatService.Clear: cleared ledger for %s", userID)
	return nil
}
