package dto

// ErrorDetail is the inner error object of every non-2xx response.
type ErrorDetail struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// PagedResponse wraps every list endpoint's payload.
type PagedResponse struct {
	Items any `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// NewPagedResponse reports at least one page even for an empty result set.
func NewPagedResponse(items any, total, page, limit int) PagedResponse {
	pages := 1
	if limit > 0 {
		pages = (total + limit - 1) / limit
		if pages < 1 {
			pages = 1
		}
	}
	return PagedResponse{
		Items: items,
		Total: total,
		Page:  page,
		Pages: pages,
	}
}
