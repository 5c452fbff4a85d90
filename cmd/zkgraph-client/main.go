package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/psidex/zkgraph/internal/graph"
	"github.com/psidex/zkgraph/internal/rpc"
)

const (
	defaultAddress  = "127.0.0.1:50051"
	gRPCCallTimeout = 10 * time.Second
)

func main() {
	elementsPath := flag.String("e", "elements.json", "the elements file to send")
	preset := flag.String("p", "", "the preset to configure the view with")
	container := flag.String("c", "", "the container id to mount the view on")
	flag.Parse()

	address := defaultAddress
	if addr := os.Getenv("ZKGRAPH_RPC_ADDRESS"); addr != "" {
		address = addr
	}

	elements, err := graph.ImportJSON(*elementsPath)
	if err != nil {
		log.Fatalf("Could not read elements: %s", err)
	}

	log.Printf("Connecting to zkgraph rpc at address: %s", address)
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("Could not connect: %s", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), gRPCCallTimeout)
	defer cancel()

	summary, err := rpc.NewClient(conn).Configure(ctx, rpc.ConfigureRequest{
		Preset:    *preset,
		Container: *container,
		Elements:  elements,
	})
	if err != nil {
		log.Fatalf("Configure failed: %s", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		log.Fatalf("Could not print summary: %s", err)
	}
}
