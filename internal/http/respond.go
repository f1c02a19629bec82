package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fjod/go_shop/internal/checkout"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	OrderID string `json:"order_id,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// respondCheckoutError maps the closed checkout error taxonomy to HTTP
// statuses. When a write already landed before the failure, the order ID
// rides along so the client can surface it for reconciliation.
func respondCheckoutError(w http.ResponseWriter, err error) {
	var ce *checkout.Error
	if !errors.As(err, &ce) {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	var status int
	switch ce.Code {
	case checkout.CodeUnauthenticated:
		status = http.StatusUnauthorized
	case checkout.CodeCreateFailed, checkout.CodeItemsCreateFailed,
		checkout.CodeUpdateFailed, checkout.CodeDeleteFailed:
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}

	respondJSON(w, status, ErrorResponse{
		Error:   ce.Message,
		Code:    string(ce.Code),
		OrderID: ce.OrderID,
	})
}
