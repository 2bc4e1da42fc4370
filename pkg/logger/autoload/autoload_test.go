package autoload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	configx "github.com/tanpawarit/agentic-workflow/pkg/config"
)

// Mutates process env, the env file path and the global logger.
func TestLoadAppliesEnvFileSetAfterInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.env")
	if err := os.WriteFile(path, []byte("LOG_DEBUG=true\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("LOG_DEBUG", "false")
	Load()
	if got := log.Logger.GetLevel(); got != zerolog.InfoLevel {
		t.Fatalf("level before env file = %v, want info", got)
	}

	configx.SetEnvFile(path)
	t.Cleanup(func() {
		configx.SetEnvFile("")
		os.Setenv("LOG_DEBUG", "false")
		Load()
	})

	Load()
	if got := log.Logger.GetLevel(); got != zerolog.DebugLevel {
		t.Fatalf("level after env file = %v, want debug", got)
	}
}
