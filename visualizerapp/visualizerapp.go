package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sandeepkv93/mergesort-visualizer/visualizationserver"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	historyPath := flag.String("history", "mergesort_runs.db", "run history database path (empty disables history)")
	maxInput := flag.Int("max-input", 1000, "maximum input array length")
	flag.Parse()

	config := visualizationserver.DefaultServerConfig()
	config.Address = *addr
	config.MaxInputSize = *maxInput
	config.HistoryPath = *historyPath
	config.EnableHistory = *historyPath != ""

	server, err := visualizationserver.NewVisualizationServer(config)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
