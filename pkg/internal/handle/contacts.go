package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/listingvault/pkg/internal/types"
)

// CreateContact 保存联系请求.
//
//	@Summary	提交联系请求
//	@Tags		联系
//	@Accept		json
//	@Produce	json
//	@Param		body	body		object	true	"name、email 或 phone、message、propertyId"
//	@Success	201		{object}	model.Contact
//	@Failure	400		{object}	types.ErrorsResponse
//	@Router		/api/contacts [post]
func (h *Handler) CreateContact(c *gin.Context) {
	body, ok := bindJSONObject(c)
	if !ok {
		return
	}

	contact, err := h.Contacts.Create(c.Request.Context(), body)
	if err != nil {
		writeServiceError(c, err, "", "")
		return
	}

	c.JSON(http.StatusCreated, contact)
}

// ListContacts 列出联系请求.
//
//	@Summary	列出联系请求
//	@Tags		联系
//	@Produce	json
//	@Param		limit	query		int	false	"最大数量"
//	@Success	200		{array}		model.Contact
//	@Router		/api/contacts [get]
func (h *Handler) ListContacts(c *gin.Context) {
	var q types.ListContactsQuery
	if !bindQuery(c, &q) {
		return
	}

	contacts, err := h.Contacts.List(c.Request.Context(), q.Limit)
	if err != nil {
		writeServiceError(c, err, "", "")
		return
	}

	c.JSON(http.StatusOK, contacts)
}
