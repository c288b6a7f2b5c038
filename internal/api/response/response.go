// Package response padroniza o envio de respostas JSON e o mapeamento de erros
// de serviço para status HTTP, compartilhado por todos os handlers.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"shoemarket/internal/domain"
	apperror "shoemarket/internal/errors"
	"shoemarket/internal/pkg/logger"
)

// maxBodyBytes limita o corpo aceito nas requisições JSON.
const maxBodyBytes = 1 << 20

// Handle processa erros de serviço e envia respostas padronizadas ao cliente.
func Handle(log logger.Logger, w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		JSON(log, w, successStatus, data)
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)
	if status >= 500 {
		log.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		})
	}

	JSON(log, w, status, domain.ErrorResponse{Code: status, Category: category, Message: message})
}

// JSON escreve o status e codifica data (se houver).
func JSON(log logger.Logger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("Falha ao codificar JSON de resposta", err)
	}
}

// Decode lê o corpo JSON em v. Corpo malformado vira ValidationError.
func Decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperror.NewValidationError("Payload JSON inválido.")
	}
	return nil
}
