package grpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/logger"
	"skirent-backend/internal/reservation"
)

// toStatus converts service errors into gRPC status errors. A rejected draft is
// FailedPrecondition with the reason code as message; a failing collaborator is
// Unavailable with its own message.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var reason reservation.RejectionReason
	if errors.As(err, &reason) {
		return status.Error(codes.FailedPrecondition, string(reason))
	}
	var ext *reservation.ExternalFailure
	if errors.As(err, &ext) {
		return status.Error(codes.Unavailable, ext.Message)
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, domain.ErrInvalid):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		logger.Error("rpc failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
