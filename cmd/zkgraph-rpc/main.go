package main

import (
	"log"
	"net"
	"os"

	"google.golang.org/grpc"

	"github.com/psidex/zkgraph/internal/config"
	"github.com/psidex/zkgraph/internal/lib"
	"github.com/psidex/zkgraph/internal/rpc"
	"github.com/psidex/zkgraph/internal/view"
)

func main() {
	cfg, err := config.Load(os.Getenv("ZKGRAPH_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %s", err)
	}

	address := cfg.RPC.Addr
	if addr := os.Getenv("ZKGRAPH_RPC_BIND_ADDRESS"); addr != "" {
		address = addr
	}

	levelName := os.Getenv("ZKGRAPH_LOG_LEVEL")
	if levelName == "" {
		levelName = "info"
	}
	level, err := lib.ParseSLogLevel(levelName)
	if err != nil {
		log.Fatalf("Bad ZKGRAPH_LOG_LEVEL: %s", err)
	}
	logger := lib.NiceLogger(os.Stderr, level)

	registry, err := cfg.Registry()
	if err != nil {
		log.Fatalf("Failed to build presets: %s", err)
	}

	log.Printf("Starting zkgraph rpc, listening on address: %s", address)

	lis, err := net.Listen("tcp", address)
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}

	s := grpc.NewServer()
	rpc.Register(s, rpc.NewServer(logger, registry, view.NewContainers(cfg.RPC.Containers...)))

	if err := s.Serve(lis); err != nil {
		log.Fatalf("Failed to serve: %v", err)
	}
}
