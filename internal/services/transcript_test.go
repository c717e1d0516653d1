package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/lecturelab/lectura-backend/internal/platform/logger"
	"github.com/lecturelab/lectura-backend/internal/platform/openai"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

// fakeAI satisfies openai.Client with canned per-method behavior.
type fakeAI struct {
	textFn      func(system, user string) (string, error)
	jsonFn      func(system, user, schemaName string) (map[string]any, error)
	chatFn      func(system string, history []openai.ChatTurn, user string) (string, error)
	webSearchFn func(system, user string) (string, error)
}

func (f *fakeAI) GenerateText(_ context.Context, system, user string) (string, error) {
	if f.textFn == nil {
		return "", fmt.Errorf("GenerateText not stubbed")
	}
	return f.textFn(system, user)
}

func (f *fakeAI) GenerateJSON(_ context.Context, system, user, schemaName string, _ map[string]any) (map[string]any, error) {
	if f.jsonFn == nil {
		return nil, fmt.Errorf("GenerateJSON not stubbed")
	}
	return f.jsonFn(system, user, schemaName)
}

func (f *fakeAI) GenerateChat(_ context.Context, system string, history []openai.ChatTurn, user string) (string, error) {
	if f.chatFn == nil {
		return "", fmt.Errorf("GenerateChat not stubbed")
	}
	return f.chatFn(system, history, user)
}

func (f *fakeAI) GenerateTextWithWebSearch(_ context.Context, system, user string) (string, error) {
	if f.webSearchFn == nil {
		return "", fmt.Errorf("GenerateTextWithWebSearch not stubbed")
	}
	return f.webSearchFn(system, user)
}

type fakeOEmbed struct {
	title string
	err   error
}

func (f *fakeOEmbed) LookupTitle(_ context.Context, _ string) (string, error) {
	return f.title, f.err
}

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		name   string
		link   string
		wantID string
		wantOK bool
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"short url", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"embed url", "https://www.youtube.com/embed/dQw4w9WgXcQ?rel=0", "dQw4w9WgXcQ", true},
		{"shorts url", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"legacy v path", "https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"watch url with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", true},
		{"id too short", "https://youtu.be/short", "", false},
		{"invalid id characters", "https://www.youtube.com/watch?v=dQw4w9WgXc!", "", false},
		{"no marker", "https://example.com/lecture.mp4", "", false},
		{"empty", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := ExtractVideoID(tc.link)
			if ok != tc.wantOK || id != tc.wantID {
				t.Fatalf("ExtractVideoID(%q) = %q, %v; want %q, %v", tc.link, id, ok, tc.wantID, tc.wantOK)
			}
		})
	}
}

func TestResolveTextRejectsShortTranscripts(t *testing.T) {
	svc := NewTranscriptService(testLogger(t), &fakeAI{}, nil, nil)

	_, err := svc.ResolveText(context.Background(), "Short", "too short to study")
	if !errors.Is(err, ErrTranscriptTooShort) {
		t.Fatalf("err = %v, want ErrTranscriptTooShort", err)
	}

	long := strings.Repeat("lecture content ", 10)
	resolved, err := svc.ResolveText(context.Background(), "", long)
	if err != nil {
		t.Fatalf("ResolveText: %v", err)
	}
	if resolved.Title != defaultTextTitle {
		t.Fatalf("Title = %q, want default", resolved.Title)
	}
	if resolved.VideoID != "" {
		t.Fatalf("VideoID = %q for pasted text", resolved.VideoID)
	}
}

func TestResolveVideoUsesLookedUpTitle(t *testing.T) {
	transcript := strings.Repeat("reconstructed content ", 10)
	ai := &fakeAI{webSearchFn: func(system, user string) (string, error) {
		if !strings.Contains(user, "dQw4w9WgXcQ") {
			t.Fatalf("reconstruction prompt missing video id: %q", user)
		}
		return transcript, nil
	}}
	svc := NewTranscriptService(testLogger(t), ai, &fakeOEmbed{title: "Signals and Systems, Lecture 4"}, nil)

	resolved, err := svc.ResolveVideo(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("ResolveVideo: %v", err)
	}
	if resolved.Title != "Signals and Systems, Lecture 4" {
		t.Fatalf("Title = %q", resolved.Title)
	}
	if resolved.VideoID != "dQw4w9WgXcQ" {
		t.Fatalf("VideoID = %q", resolved.VideoID)
	}
}

func TestResolveVideoTitleLookupFailureIsNotFatal(t *testing.T) {
	ai := &fakeAI{webSearchFn: func(_, _ string) (string, error) {
		return strings.Repeat("reconstructed content ", 10), nil
	}}
	svc := NewTranscriptService(testLogger(t), ai, &fakeOEmbed{err: fmt.Errorf("oembed http 404")}, nil)

	resolved, err := svc.ResolveVideo(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("ResolveVideo: %v", err)
	}
	if resolved.Title != fallbackVideoTitle {
		t.Fatalf("Title = %q, want fallback", resolved.Title)
	}
}

func TestResolveVideoInvalidLink(t *testing.T) {
	svc := NewTranscriptService(testLogger(t), &fakeAI{}, nil, nil)
	_, err := svc.ResolveVideo(context.Background(), "https://example.com/not-a-video")
	if !errors.Is(err, ErrInvalidVideoLink) {
		t.Fatalf("err = %v, want ErrInvalidVideoLink", err)
	}
}

func TestResolveVideoReconstructionFailurePropagates(t *testing.T) {
	ai := &fakeAI{webSearchFn: func(_, _ string) (string, error) {
		return "", fmt.Errorf("model unavailable")
	}}
	svc := NewTranscriptService(testLogger(t), ai, &fakeOEmbed{title: "t"}, nil)
	if _, err := svc.ResolveVideo(context.Background(), "https://youtu.be/dQw4w9WgXcQ"); err == nil {
		t.Fatalf("ResolveVideo succeeded despite reconstruction failure")
	}
}

func TestResolveFileWithoutTranscriber(t *testing.T) {
	svc := NewTranscriptService(testLogger(t), &fakeAI{}, nil, nil)
	if _, err := svc.ResolveFile(context.Background(), "lecture.mp3", []byte("data")); err == nil {
		t.Fatalf("ResolveFile succeeded without a registered transcriber")
	}
}
