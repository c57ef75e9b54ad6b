package grpc

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"skirent-backend/internal/service"
)

type ReservationHandler struct {
	UnimplementedReservationServiceServer
	reservationSvc service.ReservationService
}

func NewReservationHandler(reservationSvc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationSvc: reservationSvc}
}

func (h *ReservationHandler) Quote(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	draft, err := DraftFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	outcome, err := h.reservationSvc.Quote(ctx, actor, draft)
	if err != nil {
		return nil, toStatus(err)
	}
	return OutcomeToStruct(outcome)
}

func (h *ReservationHandler) Submit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	actor, err := GetActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	submit, err := SubmitRequestFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	res, err := h.reservationSvc.Submit(ctx, actor, submit)
	if err != nil {
		return nil, toStatus(err)
	}
	return ReservationToStruct(res)
}
