package images

import (
	"github.com/gin-gonic/gin"
	"github.com/noven-dev/image-vault/api/common"
)

// DeleteImage 删除图片文件及元数据
func (h *Handler) DeleteImage(c *gin.Context) {
	if err := h.deleteService.Delete(c.Request.Context(), c.Param("imageId")); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccessMessage(c, "Image and metadata deleted successfully", nil)
}
