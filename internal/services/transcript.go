package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lecturelab/lectura-backend/internal/platform/logger"
	"github.com/lecturelab/lectura-backend/internal/platform/oembed"
	"github.com/lecturelab/lectura-backend/internal/platform/openai"
)

const (
	minTranscriptChars = 50
	videoIDLength      = 11
	fallbackVideoTitle = "Lecture Video"
	defaultTextTitle   = "Pasted Lecture"
)

var (
	ErrTranscriptTooShort = errors.New("transcript too short to study from")
	ErrInvalidVideoLink   = errors.New("unrecognized video link")
)

// ResolvedLecture is the normalized output of any intake path: a title, the
// transcript text the generators will consume, and the video id when the
// source was a link.
type ResolvedLecture struct {
	Title      string `json:"title"`
	Transcript string `json:"transcript"`
	VideoID    string `json:"video_id"`
}

// FileTranscriber converts an uploaded media or document file into transcript
// text. No implementation ships yet; the intake handler rejects file uploads
// until one is registered.
type FileTranscriber interface {
	Transcribe(ctx context.Context, filename string, content []byte) (string, error)
}

// TranscriptService normalizes the three intake paths (pasted text, video
// link, file upload) into a ResolvedLecture.
type TranscriptService interface {
	ResolveText(ctx context.Context, title, text string) (*ResolvedLecture, error)
	ResolveVideo(ctx context.Context, videoURL string) (*ResolvedLecture, error)
	ResolveFile(ctx context.Context, filename string, content []byte) (*ResolvedLecture, error)
}

type transcriptService struct {
	log         *logger.Logger
	ai          openai.Client
	oembed      oembed.Client
	transcriber FileTranscriber
}

func NewTranscriptService(log *logger.Logger, ai openai.Client, oe oembed.Client, transcriber FileTranscriber) TranscriptService {
	return &transcriptService{
		log:         log.With("service", "TranscriptService"),
		ai:          ai,
		oembed:      oe,
		transcriber: transcriber,
	}
}

func (ts *transcriptService) ResolveText(ctx context.Context, title, text string) (*ResolvedLecture, error) {
	text = strings.TrimSpace(text)
	if len(text) < minTranscriptChars {
		return nil, ErrTranscriptTooShort
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultTextTitle
	}
	return &ResolvedLecture{Title: title, Transcript: text}, nil
}

// ResolveVideo extracts the video id from the link, looks the title up
// best-effort, and reconstructs the lecture content through a web-search
// generation. Title lookup failures are swallowed; reconstruction failures
// are not.
func (ts *transcriptService) ResolveVideo(ctx context.Context, videoURL string) (*ResolvedLecture, error) {
	videoID, ok := ExtractVideoID(videoURL)
	if !ok {
		return nil, ErrInvalidVideoLink
	}

	title := fallbackVideoTitle
	if ts.oembed != nil {
		looked, err := ts.oembed.LookupTitle(ctx, videoURL)
		if err != nil {
			ts.log.Debug("video title lookup failed", "video_id", videoID, "error", err)
		} else {
			title = looked
		}
	}

	transcript, err := ts.ai.GenerateTextWithWebSearch(ctx,
		videoReconstructionSystemPrompt(),
		videoReconstructionUserPrompt(videoID, title))
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct video content: %w", err)
	}
	transcript = strings.TrimSpace(transcript)
	if len(transcript) < minTranscriptChars {
		return nil, ErrTranscriptTooShort
	}
	return &ResolvedLecture{Title: title, Transcript: transcript, VideoID: videoID}, nil
}

func (ts *transcriptService) ResolveFile(ctx context.Context, filename string, content []byte) (*ResolvedLecture, error) {
	if ts.transcriber == nil {
		return nil, fmt.Errorf("file uploads are not supported yet")
	}
	text, err := ts.transcriber.Transcribe(ctx, filename, content)
	if err != nil {
		return nil, fmt.Errorf("failed to transcribe file: %w", err)
	}
	title := strings.TrimSpace(strings.TrimSuffix(filename, fileExt(filename)))
	return ts.ResolveText(ctx, title, text)
}

func fileExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

var videoIDMarkers = []string{"watch?v=", "youtu.be/", "embed/", "shorts/", "/v/"}

// ExtractVideoID pulls the 11-character id out of the common video link
// shapes and rejects anything shorter or containing invalid id characters.
func ExtractVideoID(link string) (string, bool) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", false
	}
	for _, marker := range videoIDMarkers {
		idx := strings.Index(link, marker)
		if idx < 0 {
			continue
		}
		rest := link[idx+len(marker):]
		if len(rest) < videoIDLength {
			return "", false
		}
		id := rest[:videoIDLength]
		if !validVideoID(id) {
			return "", false
		}
		return id, true
	}
	return "", false
}

func validVideoID(id string) bool {
	if len(id) != videoIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
