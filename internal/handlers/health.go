package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	demo bool
}

func NewHealthHandler(demo bool) *HealthHandler {
	return &HealthHandler{demo: demo}
}

func (hh *HealthHandler) Healthcheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "demo": hh.demo})
}
