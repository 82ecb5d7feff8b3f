package server

import (
	"log"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	storagesqlite "github.com/louisbranch/minefield/internal/services/game/storage/sqlite"
)

// Server hosts the minefield game server.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	audit      *storagesqlite.Store
}

// serverEnv holds game server settings read from the environment.
type serverEnv struct {
	DBPath       string `env:"MINEFIELD_GAME_DB_PATH" envDefault:"data/game-audit.db"`
	MaxDimension int    `env:"MINEFIELD_GAME_MAX_DIMENSION" envDefault:"64"`
}

func (s *Server) closeStores() {
	if s == nil || s.audit == nil {
		return
	}
	if err := s.audit.Close(); err != nil {
		log.Printf("close audit store: %v", err)
	}
}
