package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion identifies the wire format so clients can detect
// incompatible changes without guessing from the payload shape.
const envelopeVersion = 1

// envelope is the JSON wrapper around every API response.
type envelope struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
	Error   any  `json:"error,omitempty"`
}

// EnvelopeTransformer wraps all responses in the standard envelope.
// Successful payloads land under "data"; errors (anything implementing
// huma.StatusError) land under "error" with success=false.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	// Already wrapped.
	if _, ok := v.(*envelope); ok {
		return v, nil
	}

	if statusErr, ok := v.(huma.StatusError); ok {
		return &envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   statusErr,
		}, nil
	}

	// 4xx/5xx payloads that aren't StatusError still read as failures.
	success := len(status) == 0 || (status[0] != '4' && status[0] != '5')

	return &envelope{
		V:       envelopeVersion,
		Success: success,
		Data:    v,
	}, nil
}
