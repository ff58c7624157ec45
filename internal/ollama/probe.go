package ollama

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/valet-org/valet/internal/logger"
)

const (
	binaryName   = "ollama"
	probeTimeout = 8 * time.Second
)

// Installed reports whether the inference runtime can be invoked on this
// host. A missing binary or a failed probe means unavailable, never an error.
func Installed(ctx context.Context) bool {
	if _, err := exec.LookPath(binaryName); err != nil {
		logger.Debug(ctx, "Inference runtime not found", "binary", binaryName, "err", err)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, binaryName, "--version").Output()
	if err != nil {
		logger.Warn(ctx, "Inference runtime probe failed", "binary", binaryName, "err", err)
		return false
	}

	logger.Info(ctx, "Inference runtime detected", "version", strings.TrimSpace(string(out)))
	return true
}
