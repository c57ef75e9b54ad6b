package grpc

import (
	promgrpc "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"skirent-backend/internal/api/grpc/interceptor"
	"skirent-backend/internal/security"
	"skirent-backend/internal/service"
)

// NewServer assembles the gRPC server: request metrics, authentication, the
// reservation service, health checks and reflection for grpcurl. registerer may be
// nil to skip metrics.
func NewServer(reservationSvc service.ReservationService, tokens security.TokenManager, registerer prometheus.Registerer) (*grpc.Server, *health.Server) {
	auth := interceptor.NewAuthInterceptor(tokens)

	unary := []grpc.UnaryServerInterceptor{auth.Unary()}
	stream := []grpc.StreamServerInterceptor{auth.Stream()}
	var serverMetrics *promgrpc.ServerMetrics
	if registerer != nil {
		serverMetrics = promgrpc.NewServerMetrics()
		registerer.MustRegister(serverMetrics)
		unary = append([]grpc.UnaryServerInterceptor{serverMetrics.UnaryServerInterceptor()}, unary...)
		stream = append([]grpc.StreamServerInterceptor{serverMetrics.StreamServerInterceptor()}, stream...)
	}

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(unary...),
		grpc.ChainStreamInterceptor(stream...),
	)

	RegisterReservationServiceServer(s, NewReservationHandler(reservationSvc))

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(s, healthSrv)
	healthSrv.SetServingStatus(ReservationServiceName, healthpb.HealthCheckResponse_SERVING)

	// Register reflection service for grpcurl
	reflection.Register(s)

	if serverMetrics != nil {
		serverMetrics.InitializeMetrics(s)
	}
	return s, healthSrv
}
