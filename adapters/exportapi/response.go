package exportapi

import "time"

// Response provides a minimal response interface for transport adapters.
type Response interface {
	SetHeader(name, value string)
	DelHeader(name string)
	WriteHeader(status int)
	Write(data []byte) (int, error)
	WriteJSON(status int, payload any) error
}

// HistoryResponse lists served exports.
type HistoryResponse struct {
	Exports []HistoryEntry `json:"exports"`
}

// HistoryEntry describes one served export.
type HistoryEntry struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Format      string    `json:"format"`
	ContentType string    `json:"content_type"`
	Sheets      int       `json:"sheets"`
	Rows        int64     `json:"rows"`
	Bytes       int64     `json:"bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// ErrorResponse describes JSON error responses.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains error details.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}
