package main

import (
	"log"
	"os"

	"go.uber.org/zap"
)

func main() {
	logger := zap.NewNop().Sugar()
	if err := run(); err != nil {
		logger.Fatalw("agent failed", "error", err)
	}
	os.Exit(0)
}

func run() error {
	logger := zap.NewNop()
	logger.Info("running")
	logger.Fatal("stop") // want "found usage of zap Fatal outside of main function"

	log.Fatal("stop") // want "found usage of log.Fatal outside of main function"

	os.Exit(1) // want "found usage of os.Exit outside of main function"

	panic("stop") // want "found usage of panic"
}
