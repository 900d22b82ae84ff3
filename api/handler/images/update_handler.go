package images

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/noven-dev/image-vault/api/common"
	"github.com/noven-dev/image-vault/internal/services/image"
	"github.com/noven-dev/image-vault/metadata"
)

type updateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Tags        []struct {
		Label string `json:"label"`
		Color string `json:"color"`
	} `json:"tags"`
	LockFile *bool `json:"lockFile"`
}

// UpdateImage 部分更新图片元数据
func (h *Handler) UpdateImage(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	params := image.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		LockFile:    req.LockFile,
	}
	if req.Tags != nil {
		params.Tags = make([]metadata.Tag, 0, len(req.Tags))
		for _, t := range req.Tags {
			if strings.TrimSpace(t.Label) == "" {
				common.RespondError(c, http.StatusBadRequest, "Tag label must not be empty")
				return
			}
			params.Tags = append(params.Tags, metadata.NewTag(t.Label, t.Color))
		}
	}

	record, err := h.updateService.Update(c.Request.Context(), c.Param("imageId"), params)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccessMessage(c, "Image metadata updated", record)
}
