package app

import (
	"fmt"
	"io"
	"os"

	"service-cleaning-booking/internal/config"
	"service-cleaning-booking/internal/logx"
)

var logOutput io.Writer = os.Stdout

// NewLogger builds the JSON logger at the configured level.
func NewLogger(cfg *config.Config) (logx.Logger, error) {
	level, err := logx.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return logx.NewJSON(logOutput, level), nil
}
