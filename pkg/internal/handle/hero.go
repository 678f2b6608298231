package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/listingvault/pkg/internal/types"
	"github.com/yeisme/listingvault/pkg/middleware"
)

const (
	// HeroImageField 横幅图片的表单字段.
	HeroImageField = "image"

	MsgNoHeroImage       = "No se proporcionó ninguna imagen"
	MsgHeroImageUploaded = "Imagen subida exitosamente"
)

// GetHero 读取房源页横幅配置.
//
//	@Summary	读取横幅配置
//	@Tags		横幅
//	@Produce	json
//	@Success	200	{object}	model.HeroConfig
//	@Router		/api/hero/propiedades [get]
func (h *Handler) GetHero(c *gin.Context) {
	cfg, err := h.Hero.Get(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "", "")
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// SaveHero 保存横幅配置.
//
//	@Summary	保存横幅配置
//	@Tags		横幅
//	@Accept		json
//	@Produce	json
//	@Param		body	body		object	true	"title、description、imageUrl"
//	@Success	200		{object}	model.HeroConfig
//	@Failure	400		{object}	types.ErrorsResponse
//	@Router		/api/hero/propiedades [post]
func (h *Handler) SaveHero(c *gin.Context) {
	body, ok := bindJSONObject(c)
	if !ok {
		return
	}

	cfg, err := h.Hero.Save(c.Request.Context(), body)
	if err != nil {
		writeServiceError(c, err, "", "")
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// UploadHeroImage 上传横幅图片.
//
//	@Summary	上传横幅图片
//	@Tags		横幅
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		image	formData	file	true	"图片文件"
//	@Success	200		{object}	types.HeroImageResponse
//	@Failure	400		{object}	types.HeroImageResponse
//	@Router		/api/hero/propiedades/image [post]
func (h *Handler) UploadHeroImage(c *gin.Context) {
	fh, err := c.FormFile(HeroImageField)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			c.JSON(http.StatusRequestEntityTooLarge, types.HeroImageResponse{Message: middleware.MsgRequestTooLarge})
			return
		}

		c.JSON(http.StatusBadRequest, types.HeroImageResponse{Message: MsgNoHeroImage})

		return
	}

	out, err := h.Hero.UploadImage(c.Request.Context(), uploadedFile(fh))
	if err != nil {
		writeServiceError(c, err, "", "")
		return
	}

	if !out.OK() {
		c.JSON(http.StatusBadRequest, types.HeroImageResponse{Message: out.Rejected.Reason})
		return
	}

	c.JSON(http.StatusOK, types.HeroImageResponse{
		Success:  true,
		ImageURL: out.Accepted.PublicURL,
		Message:  MsgHeroImageUploaded,
	})
}

