package grpc

import (
	"fmt"
	"math"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/reservation"
)

func stringField(s *structpb.Struct, name string) string {
	v, ok := s.GetFields()[name]
	if !ok {
		return ""
	}
	return strings.TrimSpace(v.GetStringValue())
}

// int32Field returns nil when the field is absent or null. JSON numbers arrive as
// doubles and must be whole.
func int32Field(s *structpb.Struct, name string) (*int32, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return nil, nil
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return nil, nil
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n != math.Trunc(n) || n < math.MinInt32 || n > math.MaxInt32 {
			return nil, fmt.Errorf("%s must be an integer", name)
		}
		id := int32(n)
		return &id, nil
	default:
		return nil, fmt.Errorf("%s must be a number", name)
	}
}

// DraftFromStruct reads the reservation form fields.
func DraftFromStruct(s *structpb.Struct) (reservation.Draft, error) {
	materialID, err := int32Field(s, "material_id")
	if err != nil {
		return reservation.Draft{}, err
	}
	return reservation.Draft{
		MaterialID:   materialID,
		MaterialName: stringField(s, "material_name"),
		StartDate:    stringField(s, "start_date"),
		EndDate:      stringField(s, "end_date"),
		Status:       domain.ReservationStatus(stringField(s, "status")),
	}, nil
}

// SubmitRequestFromStruct reads a draft plus client_id and reservation_id.
func SubmitRequestFromStruct(s *structpb.Struct) (reservation.SubmitRequest, error) {
	draft, err := DraftFromStruct(s)
	if err != nil {
		return reservation.SubmitRequest{}, err
	}
	id, err := int32Field(s, "reservation_id")
	if err != nil {
		return reservation.SubmitRequest{}, err
	}
	return reservation.SubmitRequest{
		ClientID:      stringField(s, "client_id"),
		ReservationID: id,
		Draft:         draft,
	}, nil
}

func OutcomeToStruct(outcome reservation.Outcome) (*structpb.Struct, error) {
	switch o := outcome.(type) {
	case reservation.Validated:
		v := o.Reservation
		return structpb.NewStruct(map[string]any{
			"valid": true,
			"quote": map[string]any{
				"material_id":   v.MaterialID,
				"material_name": v.MaterialName,
				"status":        string(v.Status),
				"start_date":    reservation.Format(v.StartDate),
				"end_date":      reservation.Format(v.EndDate),
				"unit_price":    v.UnitPrice,
				"days":          v.Days,
				"total":         v.Total,
			},
		})
	case reservation.Rejected:
		return structpb.NewStruct(map[string]any{
			"valid":   false,
			"reason":  string(o.Reason),
			"message": o.Reason.Message(),
		})
	default:
		return nil, fmt.Errorf("unknown outcome %T", outcome)
	}
}

func ReservationToStruct(r *domain.Reservation) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"id":         r.ID,
		"client_id":  r.ClientID,
		"status":     string(r.Status),
		"start_date": r.StartDate,
		"end_date":   r.EndDate,
		"days":       r.Days,
		"total":      r.Total,
		"notes":      r.Notes,
		"created_on": r.CreatedOn.UTC().Format(time.RFC3339),
	})
}
