package handlers

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"cluster-facade-go/internal/errkind"
	"cluster-facade-go/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondWithError sends an error JSON response
func respondWithError(w http.ResponseWriter, status int, detail string) {
	respondWithJSON(w, status, models.ErrorResponse{Detail: detail})
}

// statusFor maps a classified failure to its HTTP status code. Unclassified
// errors are server errors.
func statusFor(err error) int {
	e, ok := errkind.As(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch e.Kind {
	case errkind.InvalidArgument:
		return http.StatusBadRequest
	case errkind.ClusterRejected:
		if e.Code >= http.StatusBadRequest && e.Code < http.StatusInternalServerError {
			return e.Code
		}
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
