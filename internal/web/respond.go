package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vladislavdragonenkov/wholesalebox/internal/domain"
	"github.com/vladislavdragonenkov/wholesalebox/internal/gateway"
)

// genericFailure показывается, когда причина отказа пользователю
// ничего не скажет (сеть, кривой ответ бэкенда).
const genericFailure = "Something went wrong. Please try again."

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError переводит ошибку в HTTP-ответ.
// Валидационные ошибки показываются как есть (400), отказ бэкенда
// сохраняет свой статус и сообщение, остальное прячется за generic.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		writeMessage(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, domain.ErrCartLineNotFound),
		errors.Is(err, domain.ErrMissingItems):
		writeMessage(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrProductNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())

	default:
		if be, ok := gateway.AsBackendError(err); ok {
			status := be.StatusCode
			if status < 400 || status > 499 {
				status = http.StatusBadGateway
			}
			writeMessage(w, status, be.Message)
			return
		}
		s.logger.WithError(err).Error("request failed")
		writeMessage(w, http.StatusBadGateway, genericFailure)
	}
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
