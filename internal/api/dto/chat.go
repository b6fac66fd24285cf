package dto

type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	SessionID string `json:"session_id"`
	Stage     string `json:"stage"`
	Reply     string `json:"reply"`
}
