package worker

import (
	"errors"

	"go.uber.org/zap"
)

type service struct{}

// main is a method here, not the program entry point.
func (service) main(logger *zap.SugaredLogger) {
	logger.Fatalf("bad %d", 1) // want "found usage of zap Fatalf outside of main function"
}

func Do(logger *zap.SugaredLogger) error {
	logger.Errorf("recoverable")
	return errors.New("failed")
}
