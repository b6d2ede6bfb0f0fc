package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"text2phenotype.com/postagger/logger"
)

var apiLogger = logger.NewLogger("API")

// makeRequestLogger tags every line logged for a request with its origin.
func makeRequestLogger(request *http.Request) zerolog.Logger {
	ctx := apiLogger.With().
		Str("method", request.Method).
		Str("url", request.URL.String())
	if request.RemoteAddr != "" {
		ctx = ctx.Str("remote", request.RemoteAddr)
	}
	if id := request.Header.Get("X-Request-Id"); id != "" {
		ctx = ctx.Str("request_id", id)
	}
	return ctx.Logger()
}
