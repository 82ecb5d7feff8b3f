package server

import (
	"context"
	"errors"
	"fmt"
	"log"

	"google.golang.org/grpc"
)

// New creates a configured game server listening on the provided port.
func New(ctx context.Context, port int) (*Server, error) {
	return NewWithAddr(ctx, fmt.Sprintf(":%d", port))
}

// NewWithAddr creates a configured game server listening on addr.
func NewWithAddr(ctx context.Context, addr string) (*Server, error) {
	return newServerBootstrap().NewWithAddr(ctx, addr)
}

// Addr returns the listener address for the game server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a game server until the context ends.
func Run(ctx context.Context, port int) error {
	return RunWithAddr(ctx, fmt.Sprintf(":%d", port))
}

// RunWithAddr creates and serves a game server on addr until the context ends.
func RunWithAddr(ctx context.Context, addr string) error {
	grpcServer, err := NewWithAddr(ctx, addr)
	if err != nil {
		return err
	}
	return grpcServer.Serve(ctx)
}

// Serve starts the game server and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.closeStores()

	log.Printf("game server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	handleErr := func(err error) error {
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}

	select {
	case <-ctx.Done():
		if s.health != nil {
			s.health.Shutdown()
		}
		s.grpcServer.GracefulStop()
		err := <-serveErr
		return handleErr(err)
	case err := <-serveErr:
		return handleErr(err)
	}
}
