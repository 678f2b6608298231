// Package handle 实现 HTTP 处理器，把请求转换为服务调用并把结果映射为状态码与响应体.
package handle

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/listingvault/pkg/context"
	"github.com/yeisme/listingvault/pkg/internal/service"
	"github.com/yeisme/listingvault/pkg/internal/types"
	"github.com/yeisme/listingvault/pkg/middleware"
)

// Handler 持有处理器依赖的服务.
type Handler struct {
	Uploads    *service.UploadService
	Images     *service.ImageService
	Properties *service.PropertyService
	Hero       *service.HeroService
	Contacts   *service.ContactService
}

// New 创建处理器.
func New(
	uploads *service.UploadService,
	images *service.ImageService,
	properties *service.PropertyService,
	hero *service.HeroService,
	contacts *service.ContactService,
) *Handler {
	return &Handler{
		Uploads:    uploads,
		Images:     images,
		Properties: properties,
		Hero:       hero,
		Contacts:   contacts,
	}
}

// errBodyTooLarge 请求体超过上限.
var errBodyTooLarge = errors.New("request body too large")

// readJSONObject 读取请求体并解码为 JSON 对象.
func readJSONObject(c *gin.Context) (map[string]any, error) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, errBodyTooLarge
		}

		return nil, err
	}

	var body map[string]any
	if err := sonic.Unmarshal(data, &body); err != nil {
		return nil, err
	}

	if body == nil {
		return nil, errors.New("se esperaba un objeto JSON")
	}

	return body, nil
}

// bindJSONObject 解码请求体，失败时写出 400 或 413 并返回 false.
func bindJSONObject(c *gin.Context) (map[string]any, bool) {
	body, err := readJSONObject(c)
	if err == nil {
		return body, true
	}

	if errors.Is(err, errBodyTooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, types.MessageResponse{Message: middleware.MsgRequestTooLarge})
		return nil, false
	}

	c.JSON(http.StatusBadRequest, types.MessageResponse{Message: fmt.Sprintf("JSON inválido: %v", err)})

	return nil, false
}

// writeServiceError 把服务层错误映射为 HTTP 响应.
func writeServiceError(c *gin.Context, err error, invalidID, notFound string) {
	var (
		input  *service.InvalidInputError
		rules  *service.RuleViolationError
		schema *service.SchemaViolationError
	)

	switch {
	case errors.As(err, &input):
		c.JSON(http.StatusBadRequest, types.MessageResponse{Message: input.Message})
	case errors.As(err, &rules):
		c.JSON(http.StatusBadRequest, types.ErrorsResponse{Errors: rules.Errors.Messages()})
	case errors.As(err, &schema):
		c.JSON(http.StatusBadRequest, types.ErrorsResponse{Errors: schema.Errors})
	case errors.Is(err, service.ErrInvalidID):
		c.JSON(http.StatusBadRequest, types.MessageResponse{Message: invalidID})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, types.MessageResponse{Message: notFound})
	default:
		l := ctxPkg.Logger(c.Request.Context())
		l.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "internal server error"})
	}
}
