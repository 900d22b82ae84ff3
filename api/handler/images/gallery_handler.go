package images

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/noven-dev/image-vault/api/common"
	"github.com/noven-dev/image-vault/internal/services/image"
)

// GetGallery 获取画廊视图，支持标签过滤、去重、排序与分页
func (h *Handler) GetGallery(c *gin.Context) {
	opts := image.ListOptions{
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}

	if raw := c.Query("tagIds"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				opts.TagIDs = append(opts.TagIDs, id)
			}
		}
	}

	opts.IncludeDuplicates = c.Query("includeDuplicates") == "true"

	if raw := c.Query("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			common.RespondError(c, http.StatusBadRequest, "Invalid offset parameter")
			return
		}
		opts.Offset = v
	}
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			common.RespondError(c, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		opts.Limit = v
	}

	page, err := h.queryService.ListGallery(c.Request.Context(), opts)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccessMessage(c, "Gallery fetched successfully", page)
}
