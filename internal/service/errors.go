package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/debty-app/debty/internal/ledger"
)

// toConnectError maps ledger errors onto Connect codes and logs the failure.
// Client mistakes log at warn, anything else at error.
func toConnectError(logger *slog.Logger, msg string, err error, attrs ...any) error {
	var (
		validation *ledger.ValidationError
		notFound   *ledger.NotFoundError
		connectErr *connect.Error
	)
	attrs = append(attrs, "error", err)

	switch {
	case errors.As(err, &validation):
		logger.Warn(msg, attrs...)
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.As(err, &notFound):
		logger.Warn(msg, attrs...)
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ledger.ErrClosed):
		logger.Warn(msg, attrs...)
		return connect.NewError(connect.CodeAborted, err)
	case errors.As(err, &connectErr):
		logger.Warn(msg, attrs...)
		return connectErr
	default:
		logger.Error(msg, attrs...)
		return connect.NewError(connect.CodeInternal, err)
	}
}
