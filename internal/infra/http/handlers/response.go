package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/rendetalje-leads/internal/usecase"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

var domainStatus = map[string]int{
	usecase.CodeValidation:        http.StatusBadRequest,
	usecase.CodeLeadNotFound:      http.StatusNotFound,
	usecase.CodeBookingNotFound:   http.StatusNotFound,
	usecase.CodeBookingConflict:   http.StatusConflict,
	usecase.CodeVersionConflict:   http.StatusConflict,
	usecase.CodeInvalidTransition: http.StatusUnprocessableEntity,
	usecase.CodeEventNotAllowed:   http.StatusUnprocessableEntity,
	usecase.CodeNoSlots:           http.StatusUnprocessableEntity,
}

// writeUseCaseError traduz DomainError/TechnicalError para HTTP.
// Detalhes de erros técnicos ficam só no log.
func writeUseCaseError(w http.ResponseWriter, r *http.Request, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status, ok := domainStatus[de.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		writeError(w, status, de.Code, de.Message)
		return
	}

	var te *usecase.TechnicalError
	code := "INTERNAL_ERROR"
	if errors.As(err, &te) {
		code = te.Code
	}
	log.WithFields(log.Fields{"path": r.URL.Path, "code": code, "error": err}).Error("❌ Erro interno")
	writeError(w, http.StatusInternalServerError, code, "erro interno, tente novamente")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, usecase.CodeValidation, "JSON inválido: "+err.Error())
		return false
	}
	return true
}
