package test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/valet-org/valet/internal/config"
	"github.com/valet-org/valet/internal/logger"
)

// setupLock serializes Setup calls because the config loader shares one
// global viper instance.
var setupLock sync.Mutex

// Helper provides an isolated configuration and logger context for tests.
type Helper struct {
	Context context.Context
	Config  *config.Config

	tmpDir string
}

// HelperOption defines functional options for Helper.
type HelperOption func(*Options)

type Options struct {
	ConfigMutators []func(*config.Config)
}

// WithConfigMutator applies mutations to the loaded configuration after
// defaults are set.
func WithConfigMutator(mutator func(*config.Config)) HelperOption {
	return func(opts *Options) {
		opts.ConfigMutators = append(opts.ConfigMutators, mutator)
	}
}

// Setup creates a new Helper instance for testing. All paths resolve under
// a per-test temporary home directory.
func Setup(t *testing.T, opts ...HelperOption) Helper {
	t.Helper()
	setupLock.Lock()
	defer setupLock.Unlock()

	var options Options
	for _, opt := range opts {
		opt(&options)
	}

	tmpDir := t.TempDir()
	t.Setenv("VALET_HOME", tmpDir)

	// Reset viper state to avoid leaking config file paths across tests.
	viper.Reset()

	cfg, err := config.Load()
	require.NoError(t, err)

	cfg.Paths.DataDir = filepath.Join(tmpDir, "data")
	cfg.Paths.MemoryFile = filepath.Join(tmpDir, "data", "memory.log")
	for _, mutate := range options.ConfigMutators {
		mutate(cfg)
	}

	ctx := logger.WithLogger(context.Background(),
		logger.NewLogger(logger.WithDebug(), logger.WithFormat("text")))

	return Helper{
		Context: ctx,
		Config:  cfg,
		tmpDir:  tmpDir,
	}
}

// TmpDir returns the per-test home directory.
func (h Helper) TmpDir() string {
	return h.tmpDir
}
