package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion identifies the response envelope format for clients.
const envelopeVersion = 1

// successEnvelope wraps successful response bodies. Data is always
// present, null when the operation has no body.
type successEnvelope struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// errorEnvelope wraps error response bodies.
type errorEnvelope struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Error   any  `json:"error"`
}

// EnvelopeTransformer wraps every response in the versioned envelope so
// clients can dispatch on success before inspecting the payload.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if len(status) > 0 && status[0] >= '4' {
		return &errorEnvelope{V: envelopeVersion, Success: false, Error: v}, nil
	}
	return &successEnvelope{V: envelopeVersion, Success: true, Data: v}, nil
}
