package transport

import "encoding/json"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope wraps every JSON response of the console API.
type Envelope struct {
	Status string `json:"status"`
	Code   string `json:"code,omitempty"`
	Data   any    `json:"data,omitempty"`
	Error  any    `json:"error,omitempty"`
	Meta   any    `json:"meta,omitempty"`
}

// ListMeta describes a page of a filtered list.
type ListMeta struct {
	Count  int    `json:"count"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Status string `json:"status,omitempty"`
}

func NewSuccess(data any, meta any) Envelope {
	return Envelope{Status: StatusSuccess, Data: data, Meta: meta}
}

// NewError returns an error envelope. detail is usually a message string.
func NewError(code string, detail any, meta any) Envelope {
	return Envelope{Status: StatusError, Code: code, Error: detail, Meta: meta}
}

// String is the JSON form, or "{}" when it cannot be encoded.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
