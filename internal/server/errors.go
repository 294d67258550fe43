package server

import (
	"context"
	"errors"

	"skatebook/internal/domain"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

func connectCode(err error) connect.Code {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, domain.ErrValidation):
		return connect.CodeInvalidArgument
	case errors.Is(err, domain.ErrConflict):
		return connect.CodeAlreadyExists
	case errors.Is(err, domain.ErrInvalidState):
		return connect.CodeFailedPrecondition
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	case errors.Is(err, context.Canceled):
		return connect.CodeCanceled
	}
	return connect.CodeInternal
}

// toConnectError maps domain errors to connect codes. Internal errors are
// logged and replaced so storage details do not leak to clients.
func toConnectError(ctx context.Context, err error) error {
	code := connectCode(err)
	if code == connect.CodeInternal {
		zerolog.Ctx(ctx).Error().Err(err).Msg("internal error")
		return connect.NewError(code, errors.New("internal error"))
	}
	return connect.NewError(code, err)
}

func invalidArgument(err error) error {
	return connect.NewError(connect.CodeInvalidArgument, err)
}
