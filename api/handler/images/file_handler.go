package images

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/noven-dev/image-vault/api/common"
	"github.com/noven-dev/image-vault/storage"
	"github.com/noven-dev/image-vault/utils"
)

// ServeFile 输出图片文件内容
func (h *Handler) ServeFile(c *gin.Context) {
	identifier := c.Param("identifier")
	if identifier == "" {
		common.RespondError(c, http.StatusBadRequest, "Missing file identifier")
		return
	}

	stream, err := h.provider.GetWithContext(c.Request.Context(), identifier)
	if err != nil {
		if storage.IsNotFound(err) {
			common.RespondError(c, http.StatusNotFound, "File not found")
			return
		}
		log.Printf("Failed to fetch file %s from storage: %v", identifier, err)
		common.RespondError(c, http.StatusBadGateway, "Failed to fetch file from storage")
		return
	}
	if closer, ok := stream.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	c.Header("Content-Type", utils.ContentTypeForFilename(identifier))
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeContent(c.Writer, c.Request, identifier, time.Time{}, stream)
}
