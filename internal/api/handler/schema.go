package handler

// problemResponse documents the application/problem+json body every failing
// request carries.
type problemResponse struct {
	Type     string `json:"type"     example:"about:blank"`
	Title    string `json:"title"    example:"Not Found"`
	Status   int    `json:"status"   example:"404"`
	Detail   string `json:"detail"   example:"cliente not found"`
	Instance string `json:"instance" example:"/api/clientes/C001"`
}

type paginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}
