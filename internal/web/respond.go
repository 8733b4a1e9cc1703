// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/samber/oops"

	"github.com/holomush/coursegate/internal/apperr"
	"github.com/holomush/coursegate/pkg/errutil"
)

// Public codes that do not correspond to a single kind.
const (
	codeForbidden = "FORBIDDEN"
)

type errorDetail struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Issues  []Issue `json:"issues,omitempty"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

// statusFor maps a kind to its HTTP status.
func statusFor(k apperr.Kind) int {
	switch k {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindDuplicateEmail:
		return http.StatusConflict
	case apperr.KindInvalidCredentials:
		return http.StatusForbidden
	case apperr.KindMissingToken, apperr.KindMalformedToken, apperr.KindBadSignature, apperr.KindExpiredToken:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// bodyFor builds the public error body. Internal details and the reason a
// token was rejected never reach the client.
func bodyFor(k apperr.Kind, err error) errorBody {
	switch {
	case k == apperr.KindInternal:
		return errorBody{Error: errorDetail{Code: string(k), Message: "internal server error"}}
	case k.IsToken():
		return errorBody{Error: errorDetail{Code: codeForbidden, Message: "access denied"}}
	}

	detail := errorDetail{Code: string(k), Message: publicMessage(err)}
	if k == apperr.KindValidation {
		if oopsErr, ok := oops.AsOops(err); ok {
			if field, ok := oopsErr.Context()["field"].(string); ok {
				detail.Issues = []Issue{{Field: field, Message: detail.Message}}
			}
		}
	}
	return errorBody{Error: detail}
}

func publicMessage(err error) string {
	if oopsErr, ok := oops.AsOops(err); ok {
		return oopsErr.Error()
	}
	return err.Error()
}

// writeError writes the response for a failed request. Internal failures are
// logged here and nowhere else.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
			Code:    string(apperr.KindValidation),
			Message: "request validation failed",
			Issues:  ve.Issues,
		}})
		return
	}

	k := apperr.KindOf(err)
	if k == apperr.KindInternal {
		errutil.LogErrorContext(r.Context(), logger, "request failed", err, "method", r.Method, "path", r.URL.Path)
	}
	writeJSON(w, statusFor(k), bodyFor(k, err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // client may have disconnected
	json.NewEncoder(w).Encode(v)
}
