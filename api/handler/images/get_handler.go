package images

import (
	"github.com/gin-gonic/gin"
	"github.com/noven-dev/image-vault/api/common"
)

// GetImage 获取单条图片元数据
func (h *Handler) GetImage(c *gin.Context) {
	record, err := h.queryService.GetRecord(c.Request.Context(), c.Param("imageId"))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, record)
}
