package common

// PaginationResponse represents pagination metadata
type PaginationResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ListResponse represents a list response with its item count
type ListResponse struct {
	Data       interface{}         `json:"data"`
	Count      int                 `json:"count"`
	Pagination *PaginationResponse `json:"pagination,omitempty"`
}
