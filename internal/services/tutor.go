package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lecturelab/lectura-backend/internal/platform/logger"
	"github.com/lecturelab/lectura-backend/internal/platform/openai"
	"github.com/lecturelab/lectura-backend/internal/repos"
	"github.com/lecturelab/lectura-backend/internal/types"
)

// TutorService runs the lecture-grounded chat. Replies come only from the
// lecture transcript; the model is told to refuse anything outside it.
type TutorService interface {
	SeedGreeting(ctx context.Context, lecture *types.Lecture) (*types.ChatMessage, error)
	ListMessages(ctx context.Context, lectureID uuid.UUID) ([]*types.ChatMessage, error)
	SendMessage(ctx context.Context, lecture *types.Lecture, text string) (*types.ChatMessage, *types.ChatMessage, error)
}

type tutorService struct {
	log      *logger.Logger
	ai       openai.Client
	chatRepo repos.ChatMessageRepo
}

func NewTutorService(log *logger.Logger, ai openai.Client, chatRepo repos.ChatMessageRepo) TutorService {
	return &tutorService{
		log:      log.With("service", "TutorService"),
		ai:       ai,
		chatRepo: chatRepo,
	}
}

// SeedGreeting writes the assistant's opening message right after a bundle
// lands, so the chat is never empty when the dashboard first renders.
func (tsvc *tutorService) SeedGreeting(ctx context.Context, lecture *types.Lecture) (*types.ChatMessage, error) {
	greeting := &types.ChatMessage{
		ID:        uuid.New(),
		LectureID: lecture.ID,
		Sender:    types.SenderAssistant,
		Text: fmt.Sprintf("Hi! I've studied \"%s\" along with you. Ask me anything about the lecture, "+
			"and when you're done, try the practice quiz.", lecture.Title),
		CreatedAt: time.Now(),
	}
	if _, err := tsvc.chatRepo.Create(ctx, nil, []*types.ChatMessage{greeting}); err != nil {
		return nil, fmt.Errorf("failed to seed greeting: %w", err)
	}
	return greeting, nil
}

func (tsvc *tutorService) ListMessages(ctx context.Context, lectureID uuid.UUID) ([]*types.ChatMessage, error) {
	return tsvc.chatRepo.ListByLectureID(ctx, nil, lectureID)
}

// SendMessage persists the user's message first (it stays visible even when
// the reply fails), then asks for a grounded reply over the prior history.
// On reply failure the assistant message is simply absent; the returned
// assistant message is nil and the caller reports a degraded send.
func (tsvc *tutorService) SendMessage(ctx context.Context, lecture *types.Lecture, text string) (*types.ChatMessage, *types.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil, fmt.Errorf("message text required")
	}

	history, hErr := tsvc.chatRepo.ListByLectureID(ctx, nil, lecture.ID)
	if hErr != nil {
		return nil, nil, fmt.Errorf("failed to load chat history: %w", hErr)
	}

	userMsg := &types.ChatMessage{
		ID:        uuid.New(),
		LectureID: lecture.ID,
		Sender:    types.SenderUser,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if _, err := tsvc.chatRepo.Create(ctx, nil, []*types.ChatMessage{userMsg}); err != nil {
		return nil, nil, fmt.Errorf("failed to persist message: %w", err)
	}

	reply, err := tsvc.ai.GenerateChat(ctx, tutorSystemPrompt(lecture.Transcript), chatTurns(history), text)
	if err != nil {
		tsvc.log.Warn("tutor reply failed", "lecture_id", lecture.ID, "error", err)
		return userMsg, nil, nil
	}

	assistantMsg := &types.ChatMessage{
		ID:        uuid.New(),
		LectureID: lecture.ID,
		Sender:    types.SenderAssistant,
		Text:      strings.TrimSpace(reply),
		CreatedAt: time.Now(),
	}
	if _, err := tsvc.chatRepo.Create(ctx, nil, []*types.ChatMessage{assistantMsg}); err != nil {
		tsvc.log.Warn("failed to persist tutor reply", "lecture_id", lecture.ID, "error", err)
		return userMsg, nil, nil
	}
	return userMsg, assistantMsg, nil
}

func chatTurns(messages []*types.ChatMessage) []openai.ChatTurn {
	turns := make([]openai.ChatTurn, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Sender == types.SenderAssistant {
			role = "assistant"
		}
		turns = append(turns, openai.ChatTurn{Role: role, Content: m.Text})
	}
	return turns
}
