package entity

// Meta carries pagination metadata for list responses.
type Meta struct {
	Total    int64 `json:"total"`
	Page     int64 `json:"page"`
	PageSize int64 `json:"page_size"`
}

// BaseParams are the common pagination query parameters.
type BaseParams struct {
	Page     int64 `json:"page" form:"page" query:"page"`
	PageSize int64 `json:"page_size" form:"page_size" query:"page_size"`
}
