package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lecturelab/lectura-backend/internal/requestdata"
	"github.com/lecturelab/lectura-backend/internal/services"
)

type TutorHandler struct {
	tutorService   services.TutorService
	lectureService services.LectureService
}

func NewTutorHandler(tutorService services.TutorService, lectureService services.LectureService) *TutorHandler {
	return &TutorHandler{tutorService: tutorService, lectureService: lectureService}
}

func (th *TutorHandler) ListMessages(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	lecture, _, err := th.lectureService.Current(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, http.StatusConflict, err)
		return
	}
	messages, err := th.tutorService.ListMessages(c.Request.Context(), lecture.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	RespondOK(c, gin.H{"messages": messages})
}

// SendMessage returns the persisted user message always; the reply is null
// when the tutor could not answer, and the client leaves the thread as-is.
func (th *TutorHandler) SendMessage(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	lecture, _, err := th.lectureService.Current(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, http.StatusConflict, err)
		return
	}
	userMsg, reply, err := th.tutorService.SendMessage(c.Request.Context(), lecture, req.Text)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	RespondOK(c, gin.H{"message": userMsg, "reply": reply})
}
