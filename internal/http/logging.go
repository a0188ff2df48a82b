package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/application"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func handlerLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	logger := LoggerFromContext(ctx)
	if logger == nil {
		logger = defaultLogger(fallback)
	}

	pairs := []any{"handler", handlerName}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	pairs = append(pairs, attrs...)
	return logger.With(pairs...)
}

// handlerBase carries what every resource handler needs to log and respond.
type handlerBase struct {
	name      string
	responder responder
	logger    *slog.Logger
}

func newHandlerBase(name string, logger *slog.Logger) handlerBase {
	base := defaultLogger(logger)
	return handlerBase{name: name, responder: newResponder(base), logger: base}
}

func (h handlerBase) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, h.name, operation, attrs...)
}

// badRequest logs and writes a 400 for malformed input.
func (h handlerBase) badRequest(ctx context.Context, w http.ResponseWriter, operation string, public, cause error) {
	h.log(ctx, operation, "error_kind", "bad_request").WarnContext(ctx, "rejected malformed request", "error", cause)
	h.responder.writeError(ctx, w, http.StatusBadRequest, public)
}

// serviceFailed logs a service error with its kind and writes the mapped response.
func (h handlerBase) serviceFailed(ctx context.Context, w http.ResponseWriter, operation string, err error, attrs ...any) {
	h.log(ctx, operation, attrs...).ErrorContext(ctx, "request failed", "error", err, "error_kind", application.ErrorKind(err))
	h.responder.handleServiceError(ctx, w, err)
}
