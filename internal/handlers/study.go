package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lecturelab/lectura-backend/internal/requestdata"
	"github.com/lecturelab/lectura-backend/internal/services"
	"github.com/lecturelab/lectura-backend/internal/study"
)

type StudyHandler struct {
	lectureService services.LectureService
}

func NewStudyHandler(lectureService services.LectureService) *StudyHandler {
	return &StudyHandler{lectureService: lectureService}
}

// SubmitQuiz grades a completed quiz against the current lecture's questions.
// Submissions with unanswered questions are rejected.
func (sh *StudyHandler) SubmitQuiz(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	var req struct {
		Answers []struct {
			QuestionID  int `json:"question_id"`
			OptionIndex int `json:"option_index"`
		} `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	_, artifacts, err := sh.lectureService.Current(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, http.StatusConflict, err)
		return
	}
	if len(artifacts.Quiz) == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "no quiz available for this lecture"})
		return
	}

	run := study.NewQuizRun(artifacts.Quiz)
	for _, a := range req.Answers {
		run.Select(a.QuestionID, a.OptionIndex)
	}
	result, err := run.Submit()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	RespondOK(c, gin.H{
		"correct": result.Correct,
		"total":   result.Total,
		"percent": result.Percent,
		"band":    result.Band,
	})
}
