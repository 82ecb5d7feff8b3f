package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	"github.com/louisbranch/minefield/internal/platform/config"
	platformgrpc "github.com/louisbranch/minefield/internal/platform/grpc"
	gamegrpc "github.com/louisbranch/minefield/internal/services/game/api/grpc/game"
	"github.com/louisbranch/minefield/internal/services/game/api/grpc/interceptors"
	grpcmeta "github.com/louisbranch/minefield/internal/services/game/api/grpc/metadata"
	"github.com/louisbranch/minefield/internal/services/game/domain/grant"
	storagesqlite "github.com/louisbranch/minefield/internal/services/game/storage/sqlite"
)

// serverBootstrap configures each startup phase for the game server.
type serverBootstrap struct {
	config serverBootstrapConfig
}

// serverBootstrapConfig defines per-phase seams and is intentionally internal.
type serverBootstrapConfig struct {
	loadEnv        func() (serverEnv, error)
	loadGrants     func() (grant.Config, error)
	listen         func(network, address string) (net.Listener, error)
	openAuditStore func(context.Context, string) (*storagesqlite.Store, error)
	newGRPCServer  func(*storagesqlite.Store) *grpc.Server
}

func newServerBootstrap() *serverBootstrap {
	return newServerBootstrapWithConfig(serverBootstrapConfig{})
}

func newServerBootstrapWithConfig(cfg serverBootstrapConfig) *serverBootstrap {
	return &serverBootstrap{config: normalizeServerBootstrapConfig(cfg)}
}

func normalizeServerBootstrapConfig(cfg serverBootstrapConfig) serverBootstrapConfig {
	if cfg.loadEnv == nil {
		cfg.loadEnv = loadServerEnv
	}
	if cfg.loadGrants == nil {
		cfg.loadGrants = func() (grant.Config, error) {
			return grant.LoadConfigFromEnv(time.Now)
		}
	}
	if cfg.listen == nil {
		cfg.listen = net.Listen
	}
	if cfg.openAuditStore == nil {
		cfg.openAuditStore = storagesqlite.Open
	}
	if cfg.newGRPCServer == nil {
		cfg.newGRPCServer = func(store *storagesqlite.Store) *grpc.Server {
			return grpc.NewServer(
				grpc.StatsHandler(otelgrpc.NewServerHandler()),
				grpc.ChainUnaryInterceptor(
					grpcmeta.UnaryServerInterceptor(nil),
					interceptors.AuditInterceptor(store),
				),
			)
		}
	}
	return cfg
}

func loadServerEnv() (serverEnv, error) {
	var env serverEnv
	if err := config.ParseEnv(&env); err != nil {
		return serverEnv{}, err
	}
	return env, nil
}

// NewWithAddr builds a game server using named startup phases.
func (b *serverBootstrap) NewWithAddr(ctx context.Context, addr string) (server *Server, err error) {
	srvEnv, err := b.config.loadEnv()
	if err != nil {
		return nil, fmt.Errorf("load server env: %w", err)
	}
	grants, err := b.config.loadGrants()
	if err != nil {
		return nil, fmt.Errorf("load player grant config: %w", err)
	}
	if !grants.Enabled() {
		log.Printf("player grants disabled: %s is not set", grant.EnvPrivateKey)
	}

	listener, err := b.config.listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	defer func() {
		if err == nil {
			return
		}
		_ = listener.Close()
	}()

	store, err := b.config.openAuditStore(ctx, srvEnv.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open audit store: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		_ = store.Close()
	}()

	grpcServer := b.config.newGRPCServer(store)
	gamegrpc.RegisterGameServiceServer(grpcServer, gamegrpc.NewGameService(gamegrpc.Deps{
		Audit:        store,
		Grants:       grants,
		MaxDimension: srvEnv.MaxDimension,
	}))
	healthServer := platformgrpc.RegisterHealth(grpcServer, gamegrpc.ServiceName)

	return &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		audit:      store,
	}, nil
}
