package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/vulcanent/vulcanweb/internal/api/dto/common"
	"github.com/vulcanent/vulcanweb/internal/utils"
	"github.com/vulcanent/vulcanweb/internal/version"
)

type archiveStatus interface {
	ArchiveEnabled() bool
}

type HealthHandler struct {
	archive archiveStatus
}

func NewHealthHandler(archive archiveStatus) *HealthHandler {
	return &HealthHandler{archive: archive}
}

func (h *HealthHandler) Check(c *gin.Context) {
	archive := "disabled"
	if h.archive != nil && h.archive.ArchiveEnabled() {
		archive = "enabled"
	}

	utils.HandleSuccess(c, common.HealthResponse{
		Status:  "ok",
		Version: version.GetBuildInfo().Version,
		Archive: archive,
	})
}
