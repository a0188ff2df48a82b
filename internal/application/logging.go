package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = defaultLogger(base)
	}

	pairs := []any{"service", serviceName}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	pairs = append(pairs, attrs...)
	return logger.With(pairs...)
}

// logOutcome logs err at Error with its kind, or msg at Info on success.
func logOutcome(ctx context.Context, logger *slog.Logger, err error, msg string, attrs ...any) {
	if err != nil {
		logger.ErrorContext(ctx, msg+" failed", "error", err, "error_kind", ErrorKind(err))
		return
	}
	logger.InfoContext(ctx, msg, attrs...)
}

// ErrorKind maps sentinel and validation errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrDataIntegrity):
		return "data_integrity"
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}

	return "unexpected"
}
