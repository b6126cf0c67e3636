package sms

type SendMessageInput struct {
	PhoneNumber string // Ex: "+4522334455"
	Message     string
}

type sendRequest struct {
	Sender     string   `json:"sender"`
	Recipients []string `json:"recipients"`
	Message    string   `json:"message"`
}

type SendMessageResponse struct {
	ID    string         `json:"id"`
	Error *ErrorResponse `json:"error,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
