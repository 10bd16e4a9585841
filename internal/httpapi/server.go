package httpapi

import (
	"net/http"

	"github.com/gorilla/handlers"

	"github.com/Alkran93/Project-BICPV-sub001/internal/config"
)

func NewServer(cfg config.Monitor, mux *http.ServeMux) *http.Server {
	var h http.Handler = mux
	h = handlers.CompressHandler(h)
	h = requestLogger(h)
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: h,
	}
}
