// Package dto provides Data Transfer Objects for API requests/responses.
package dto

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// NewListResponse maps a typed result slice into a ListResponse.
func NewListResponse[T any](items []T, totalCount int64, limit, offset int) ListResponse {
	mapped := make([]any, len(items))
	for i, item := range items {
		mapped[i] = item
	}
	return ListResponse{
		Items:      mapped,
		TotalCount: totalCount,
		Limit:      limit,
		Offset:     offset,
	}
}

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// CommentRequest adds a comment to a document.
type CommentRequest struct {
	Body string `json:"body" binding:"required"`
}

// AttachmentRequest registers an uploaded file against a document.
// The file itself is stored out of band; StorageKey points at it.
type AttachmentRequest struct {
	FileName   string `json:"fileName" binding:"required"`
	FileSize   int64  `json:"fileSize"`
	StorageKey string `json:"storageKey" binding:"required"`
}

// EmailRequest sends a document to the given recipients.
type EmailRequest struct {
	To []string `json:"to" binding:"required,min=1"`
}

// AcknowledgeRequest records customer acknowledgement of a delivery.
type AcknowledgeRequest struct {
	Name string `json:"name" binding:"required"`
	Note string `json:"note"`
}
