package images

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/noven-dev/image-vault/api/common"
	"github.com/noven-dev/image-vault/internal/services/image"
)

// UploadImage 处理图片上传
func (h *Handler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "No image file uploaded")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.uploadService.Upload(c.Request.Context(), image.UploadParams{
		Data:             file,
		Size:             fileHeader.Size,
		OriginalFilename: fileHeader.Filename,
		Title:            c.PostForm("title"),
		Description:      c.PostForm("description"),
		RawTags:          c.PostForm("tags"),
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccessMessage(c, "Image uploaded and metadata created", result)
}
