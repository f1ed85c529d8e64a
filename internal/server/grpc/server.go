package grpc

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"

	"ledgerauth/internal/logging"
	"ledgerauth/internal/rpcapi"
	"ledgerauth/internal/server/config"
)

// GRPCServer hosts the Authentication service on a TCP listener and stops
// gracefully when its context is cancelled.
type GRPCServer struct {
	config  *config.Config
	service AuthService
	logger  logging.Logger
}

func NewGRPCServer(cfg *config.Config, service AuthService, logger logging.Logger) *GRPCServer {
	return &GRPCServer{config: cfg, service: service, logger: logger.With("module", "grpcserver")}
}

// Run listens on the configured address and serves until ctx is cancelled.
// In-flight RPCs are drained before Run returns.
func (s *GRPCServer) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.EndpointAddrGRPC)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.config.EndpointAddrGRPC, err)
	}

	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(AccessTokenInterceptor()),
	)
	rpcapi.RegisterAuthenticationServer(server, NewAuthenticationHandler(s.service, s.logger))

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping grpc server")
		server.GracefulStop()
	}()

	s.logger.Info(ctx, "starting grpc server", "addr", s.config.EndpointAddrGRPC)
	if err := server.Serve(listener); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
