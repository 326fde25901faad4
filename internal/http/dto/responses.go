package dto

// Notice categories
const (
	CategorySuccess = "success"
	CategoryDanger  = "danger"
	CategoryInfo    = "info"
)

// Notice is the human readable outcome shown next to the returned data.
type Notice struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

type SuccessResponse struct {
	OK     bool    `json:"ok"`
	Data   any     `json:"data,omitempty"`
	Notice *Notice `json:"notice,omitempty"`
}

type ErrorResponse struct {
	Error     string            `json:"error"`
	Category  string            `json:"category"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

type ListResponse struct {
	Items  any `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func OK(data any) SuccessResponse {
	return SuccessResponse{OK: true, Data: data}
}

func Success(data any, text string) SuccessResponse {
	return SuccessResponse{OK: true, Data: data, Notice: &Notice{Text: text, Category: CategorySuccess}}
}

func Info(data any, text string) SuccessResponse {
	return SuccessResponse{OK: true, Data: data, Notice: &Notice{Text: text, Category: CategoryInfo}}
}
