package main

import (
	"os"

	"go.uber.org/zap"

	circuitlings "github.com/circuitlings/circuitlings/cmd/circuitlings"
)

func main() {
	logger := zap.Must(zap.NewProduction())

	executionErr := circuitlings.Execute()
	if executionErr != nil {
		logger.Error("command execution failed", zap.Error(executionErr))
		_ = logger.Sync()
		os.Exit(1)
	}

	syncErr := logger.Sync()
	if syncErr != nil {
		os.Exit(1)
	}
}
