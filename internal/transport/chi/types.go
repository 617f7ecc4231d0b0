package chi

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest   ErrorCode = "bad_request"
	ErrorCodeUnauthorized ErrorCode = "unauthorized"
	ErrorCodeInternal     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ClassifyRequest is the POST /api/search/classify body.
type ClassifyRequest struct {
	Query  string `json:"query"`
	Filter string `json:"filter,omitempty"`
}

// ClassifyResponse is the classification outcome.
type ClassifyResponse struct {
	Type        string `json:"type"`
	URL         string `json:"url"`
	MatchedName string `json:"matchedName,omitempty"`
}

// SlugResponse describes how a slug maps between retail and repair pages.
type SlugResponse struct {
	Slug         string `json:"slug"`
	IsRepair     bool   `json:"isRepair"`
	CategorySlug string `json:"categorySlug"`
	RepairSlug   string `json:"repairSlug"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}
