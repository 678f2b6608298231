package handle

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/listingvault/pkg/internal/service"
	"github.com/yeisme/listingvault/pkg/internal/types"
	"github.com/yeisme/listingvault/pkg/middleware"
)

const (
	// UploadField 批量上传的表单字段.
	UploadField = "files"
	// MsgUploadFailed 整批都被拒绝时的提示.
	MsgUploadFailed = "No se pudieron subir imágenes"
)

// Upload 批量上传图片.
//
//	@Summary		批量上传图片
//	@Description	逐个校验扩展名、MIME、大小与文件签名，单个文件失败不影响其他文件
//	@Tags			上传
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			files	formData	file	true	"图片文件，可重复"
//	@Success		201		{object}	types.UploadResponse
//	@Failure		400		{object}	types.UploadFailedResponse
//	@Failure		413		{object}	types.MessageResponse
//	@Failure		500		{object}	types.ErrorResponse
//	@Router			/api/uploads [post]
func (h *Handler) Upload(c *gin.Context) {
	files, ok := formFiles(c, UploadField)
	if !ok {
		return
	}

	res, err := h.Uploads.ProcessBatch(c.Request.Context(), files)
	if err != nil {
		var be *service.BatchError
		if errors.As(err, &be) {
			c.JSON(http.StatusBadRequest, types.MessageResponse{Message: be.Message})
			return
		}

		writeServiceError(c, err, "", "")

		return
	}

	if res.Verdict == service.AllRejected {
		c.JSON(http.StatusBadRequest, types.UploadFailedResponse{Message: MsgUploadFailed, Errors: res.Reasons()})
		return
	}

	resp := types.UploadResponse{URLs: res.URLs()}
	if res.Verdict == service.Partial {
		resp.Warnings = res.Reasons()
	}

	c.JSON(http.StatusCreated, resp)
}

// formFiles 读取 multipart 表单中的文件，字段缺失时返回空切片.
func formFiles(c *gin.Context, field string) ([]service.UploadedFile, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return nil, true
		}

		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			c.JSON(http.StatusRequestEntityTooLarge, types.MessageResponse{Message: middleware.MsgRequestTooLarge})
			return nil, false
		}

		c.JSON(http.StatusBadRequest, types.MessageResponse{Message: err.Error()})

		return nil, false
	}

	headers := form.File[field]
	out := make([]service.UploadedFile, 0, len(headers))

	for _, fh := range headers {
		out = append(out, uploadedFile(fh))
	}

	return out, true
}

func uploadedFile(fh *multipart.FileHeader) service.UploadedFile {
	return service.UploadedFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
