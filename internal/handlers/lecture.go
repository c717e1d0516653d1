package handlers

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lecturelab/lectura-backend/internal/requestdata"
	"github.com/lecturelab/lectura-backend/internal/services"
	"github.com/lecturelab/lectura-backend/internal/types"
)

type LectureHandler struct {
	transcriptService services.TranscriptService
	lectureService    services.LectureService
	appStateService   services.AppStateService
}

func NewLectureHandler(
	transcriptService services.TranscriptService,
	lectureService services.LectureService,
	appStateService services.AppStateService,
) *LectureHandler {
	return &LectureHandler{
		transcriptService: transcriptService,
		lectureService:    lectureService,
		appStateService:   appStateService,
	}
}

// Resolve normalizes one of the intake sources into transcript text. The
// client inspects the result before committing it to processing.
func (lh *LectureHandler) Resolve(c *gin.Context) {
	var req struct {
		Source        string `json:"source"`
		Title         string `json:"title"`
		Text          string `json:"text"`
		VideoURL      string `json:"video_url"`
		Filename      string `json:"filename"`
		ContentBase64 string `json:"content_base64"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var resolved *services.ResolvedLecture
	var err error
	switch req.Source {
	case "text":
		resolved, err = lh.transcriptService.ResolveText(c.Request.Context(), req.Title, req.Text)
	case "video":
		resolved, err = lh.transcriptService.ResolveVideo(c.Request.Context(), req.VideoURL)
	case "file":
		var content []byte
		content, err = base64.StdEncoding.DecodeString(req.ContentBase64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file content encoding"})
			return
		}
		resolved, err = lh.transcriptService.ResolveFile(c.Request.Context(), req.Filename, content)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "source must be one of text, video, file"})
		return
	}
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, services.ErrTranscriptTooShort) || errors.Is(err, services.ErrInvalidVideoLink) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	RespondOK(c, resolved)
}

// Process commits a resolved transcript: the lecture row is written, the view
// flips to processing, and generation runs in the background. Clients poll
// GET /app/state for the outcome.
func (lh *LectureHandler) Process(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	var req struct {
		Title      string `json:"title"`
		Transcript string `json:"transcript"`
		VideoID    string `json:"video_id"`
		ExamType   string `json:"exam_type"`
		TimeFrame  string `json:"time_frame"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	examType, err := types.ParseExamType(req.ExamType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	timeFrame, err := types.ParseTimeFrame(req.TimeFrame)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lecture, err := lh.lectureService.Process(c.Request.Context(), rd.UserID, &services.ResolvedLecture{
		Title:      req.Title,
		Transcript: req.Transcript,
		VideoID:    req.VideoID,
	}, examType, timeFrame)
	if err != nil {
		if errors.Is(err, services.ErrTranscriptTooShort) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		RespondServiceError(c, http.StatusConflict, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"lecture_id": lecture.ID})
}

func (lh *LectureHandler) Current(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	lecture, artifacts, err := lh.lectureService.Current(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, http.StatusConflict, err)
		return
	}
	RespondOK(c, gin.H{
		"lecture": gin.H{
			"id":         lecture.ID,
			"title":      lecture.Title,
			"video_id":   lecture.VideoID,
			"exam_type":  lecture.ExamType,
			"time_frame": lecture.TimeFrame,
			"created_at": lecture.CreatedAt,
		},
		"artifacts": artifacts,
	})
}

func (lh *LectureHandler) State(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	state := lh.appStateService.State(rd.UserID)
	RespondOK(c, gin.H{
		"view":       state.View,
		"error":      state.Err,
		"lecture_id": state.LectureID,
	})
}

func (lh *LectureHandler) Reset(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	if err := lh.lectureService.Reset(c.Request.Context(), rd.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	state := lh.appStateService.State(rd.UserID)
	RespondOK(c, gin.H{"view": state.View})
}
