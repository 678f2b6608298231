package handle

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/listingvault/pkg/internal/rules"
	"github.com/yeisme/listingvault/pkg/internal/service"
	"github.com/yeisme/listingvault/pkg/internal/types"
	"github.com/yeisme/listingvault/pkg/rule"
)

// CreateProperty 创建房源.
//
//	@Summary		创建房源
//	@Description	按类型执行必填与禁止字段校验，土地自动计算每平米价格
//	@Tags			房源
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object	true	"房源字段"
//	@Success		201		{object}	types.PropertyWriteResponse
//	@Failure		400		{object}	types.ErrorsResponse
//	@Router			/api/properties [post]
func (h *Handler) CreateProperty(c *gin.Context) {
	body, ok := bindJSONObject(c)
	if !ok {
		return
	}

	id, err := h.Properties.Create(c.Request.Context(), rules.FieldMap(body))
	if err != nil {
		writeServiceError(c, err, service.MsgInvalidID, service.MsgNotFound)
		return
	}

	c.JSON(http.StatusCreated, types.PropertyWriteResponse{ID: id, Message: "created"})
}

// GetProperty 读取房源文档.
//
//	@Summary	读取房源
//	@Tags		房源
//	@Produce	json
//	@Param		id	path		string	true	"房源 ID"
//	@Success	200	{object}	map[string]any
//	@Failure	400	{object}	types.MessageResponse
//	@Failure	404	{object}	types.MessageResponse
//	@Router		/api/properties/{id} [get]
func (h *Handler) GetProperty(c *gin.Context) {
	doc, err := h.Properties.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err, service.MsgInvalidID, service.MsgNotFound)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// ListProperties 列出房源.
//
//	@Summary		列出房源
//	@Description	按创建时间倒序，可按类型、交易类型与地理位置过滤
//	@Tags			房源
//	@Produce		json
//	@Param			type		query		string	false	"房源类型"
//	@Param			saleType	query		string	false	"交易类型"
//	@Param			near		query		string	false	"geohash 前缀或 lat,lng"
//	@Param			precision	query		int		false	"lat,lng 的 geohash 精度"
//	@Param			limit		query		int		false	"最大数量"
//	@Success		200			{array}		map[string]any
//	@Failure		400			{object}	types.ErrorsResponse
//	@Router			/api/properties [get]
func (h *Handler) ListProperties(c *gin.Context) {
	var q types.ListPropertiesQuery
	if !bindQuery(c, &q) {
		return
	}

	docs, err := h.Properties.List(c.Request.Context(), service.PropertyFilter{
		Type:      q.Type,
		SaleType:  q.SaleType,
		Near:      q.Near,
		Precision: q.Precision,
		Limit:     q.Limit,
	})
	if err != nil {
		writeServiceError(c, err, service.MsgInvalidID, service.MsgNotFound)
		return
	}

	c.JSON(http.StatusOK, docs)
}

// UpdateProperty 合并更新房源.
//
//	@Summary		更新房源
//	@Description	请求体按类型规则校验后合并进已有文档
//	@Tags			房源
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string	true	"房源 ID"
//	@Param			body	body		object	true	"要更新的字段"
//	@Success		200		{object}	types.PropertyWriteResponse
//	@Failure		400		{object}	types.ErrorsResponse
//	@Failure		404		{object}	types.MessageResponse
//	@Router			/api/properties/{id} [put]
func (h *Handler) UpdateProperty(c *gin.Context) {
	body, ok := bindJSONObject(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := h.Properties.Update(c.Request.Context(), id, rules.FieldMap(body)); err != nil {
		writeServiceError(c, err, service.MsgInvalidID, service.MsgNotFound)
		return
	}

	c.JSON(http.StatusOK, types.PropertyWriteResponse{ID: id, Message: "updated"})
}

// DeleteProperty 删除房源.
//
//	@Summary	删除房源
//	@Tags		房源
//	@Produce	json
//	@Param		id	path		string	true	"房源 ID"
//	@Success	200	{object}	types.MessageResponse
//	@Failure	400	{object}	types.MessageResponse
//	@Failure	404	{object}	types.MessageResponse
//	@Router		/api/properties/{id} [delete]
func (h *Handler) DeleteProperty(c *gin.Context) {
	if err := h.Properties.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err, service.MsgInvalidID, service.MsgNotFound)
		return
	}

	c.JSON(http.StatusOK, types.MessageResponse{Message: "deleted"})
}

// bindQuery 绑定并校验查询参数，失败时写出 400 与 字段: 规则 列表.
func bindQuery(c *gin.Context, q any) bool {
	err := c.ShouldBindQuery(q)
	if err == nil {
		err = rule.ValidateStruct(q)
	}

	if err == nil {
		return true
	}

	ves := rule.Errors(err)
	if len(ves) == 0 {
		c.JSON(http.StatusBadRequest, types.ErrorsResponse{Errors: []string{err.Error()}})
		return false
	}

	msgs := make([]string, 0, len(ves))
	for field, tag := range ves {
		msgs = append(msgs, field+": "+tag)
	}

	sort.Strings(msgs)
	c.JSON(http.StatusBadRequest, types.ErrorsResponse{Errors: msgs})

	return false
}
