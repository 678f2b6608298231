package types

// PropertyWriteResponse 房源创建或更新的结果.
type PropertyWriteResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// ListPropertiesQuery 房源列表的查询参数.
type ListPropertiesQuery struct {
	Type      string `form:"type"      rule:"omitempty,max=64"`
	SaleType  string `form:"saleType"  rule:"omitempty,max=64"`
	Near      string `form:"near"      rule:"omitempty,max=64"`
	Precision uint   `form:"precision" rule:"omitempty,min=1,max=9"`
	Limit     int    `form:"limit"     rule:"omitempty,min=1,max=1000"`
}

// ListContactsQuery 联系请求列表的查询参数.
type ListContactsQuery struct {
	Limit int `form:"limit" rule:"omitempty,min=1,max=1000"`
}
