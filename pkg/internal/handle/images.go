package handle

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/listingvault/pkg/internal/service"
	"github.com/yeisme/listingvault/pkg/internal/types"
)

const (
	MsgInvalidImageID = "ID de imagen inválido"
	MsgImageNotFound  = "Imagen no encontrada"

	imageCacheControl = "public, max-age=31536000, immutable"
)

// GetImage 读取已存储的图片.
//
//	@Summary		读取图片
//	@Description	图片内容不可变，响应带长期缓存头与 ETag
//	@Tags			图片
//	@Produce		octet-stream
//	@Param			id	path	string	true	"图片 ID"
//	@Success		200
//	@Success		304
//	@Failure		400	{object}	types.MessageResponse
//	@Failure		404	{object}	types.MessageResponse
//	@Router			/api/images/{id} [get]
func (h *Handler) GetImage(c *gin.Context) {
	ctx := c.Request.Context()

	img, err := h.Images.Get(ctx, c.Param("id"))
	if err != nil {
		writeServiceError(c, err, MsgInvalidImageID, MsgImageNotFound)
		return
	}

	etag := `"` + img.Checksum + `"`
	c.Header("Cache-Control", imageCacheControl)
	c.Header("ETag", etag)

	if match := c.GetHeader("If-None-Match"); match != "" && strings.Contains(match, etag) {
		c.Status(http.StatusNotModified)
		return
	}

	_, rc, err := h.Images.Open(ctx, img.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, types.MessageResponse{Message: MsgImageNotFound})
			return
		}

		writeServiceError(c, err, MsgInvalidImageID, MsgImageNotFound)

		return
	}
	defer rc.Close()

	disposition := `inline; filename="` + strings.ReplaceAll(img.Name, `"`, "") + `"`

	c.DataFromReader(http.StatusOK, img.Size, img.ContentType, rc, map[string]string{
		"Content-Disposition": disposition,
	})
}
