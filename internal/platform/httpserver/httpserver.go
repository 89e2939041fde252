package httpserver

import (
	"net/http"
	"time"
)

// New builds the HTTP server. Write timeout stays generous because document
// registration and submission responses carry full aggregate payloads.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
