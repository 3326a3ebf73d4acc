package types

// ErrorBody is the JSON shape of every failed API response.
type ErrorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// MessageBody carries a human readable outcome, optionally with the affected order.
type MessageBody struct {
	Message string `json:"message"`
	Order   any    `json:"order,omitempty"`
}
