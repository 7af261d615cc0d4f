package service

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/wanderplan/internal/auth"
	"github.com/mmynk/wanderplan/internal/settlement"
	"github.com/mmynk/wanderplan/internal/storage"
	"github.com/mmynk/wanderplan/internal/suggest"
)

// toConnectError maps domain errors to Connect codes. Errors that already
// carry a code are returned unchanged.
func toConnectError(err error) error {
	if err == nil {
		return nil
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrConflict):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, settlement.ErrUnknownParticipant):
		// Stored data references someone who is no longer a member.
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, settlement.ErrInvalidExpense),
		errors.Is(err, settlement.ErrSplitMismatch),
		errors.Is(err, settlement.ErrInvalidPayment),
		errors.Is(err, auth.ErrInvalidInvitation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, suggest.ErrDisabled):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidArgument(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

func permissionDenied(format string, args ...any) error {
	return connect.NewError(connect.CodePermissionDenied, fmt.Errorf(format, args...))
}

func failedPrecondition(format string, args ...any) error {
	return connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf(format, args...))
}
