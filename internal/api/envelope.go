package api

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/cinesphere/cinesphere-server/internal/errors"
)

// EnvelopeVersion is bumped when the envelope shape changes.
const EnvelopeVersion = 1

// APIEnvelope wraps every successful response and simple errors.
type APIEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// APIErrorEnvelope wraps errors that carry a machine-readable code.
type APIErrorEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer is a huma transformer that wraps response bodies in
// the CineSphere envelope: {v, success, data} on success and
// {v, success:false, error, code} on failure.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	switch body := v.(type) {
	case APIEnvelope, APIErrorEnvelope:
		return body, nil
	case *APIError:
		return errorEnvelope(body.Code, body.Message, body.Details), nil
	case *domainerrors.Error:
		return errorEnvelope(string(body.Code), body.Message, body.Details), nil
	case error:
		var apiErr *APIError
		if errors.As(body, &apiErr) {
			return errorEnvelope(apiErr.Code, apiErr.Message, apiErr.Details), nil
		}
		return APIEnvelope{Version: EnvelopeVersion, Success: false, Error: body.Error()}, nil
	default:
		return APIEnvelope{Version: EnvelopeVersion, Success: true, Data: v}, nil
	}
}

func errorEnvelope(code, message string, details any) APIErrorEnvelope {
	if code == "" {
		code = string(domainerrors.CodeInternal)
	}
	return APIErrorEnvelope{
		Version: EnvelopeVersion,
		Success: false,
		Error:   message,
		Code:    code,
		Message: message,
		Details: details,
	}
}
