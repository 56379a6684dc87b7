package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sonucs12/pdf-weaver/internal/config"
	"github.com/Sonucs12/pdf-weaver/internal/home"
	"github.com/Sonucs12/pdf-weaver/internal/store"
	"github.com/Sonucs12/pdf-weaver/version"
)

var (
	cfgFile string
	homeDir string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pdfweaver",
	Short: "Turn PDF pages into markdown with LLM-powered OCR",
	Long: `pdfweaver converts ranges of PDF pages into clean markdown using a
vision model for OCR.

A run renders the requested pages to images, sends them to the model in
small concurrent batches, and assembles the per-page markdown into one
document. Interrupted runs keep their partial text as a draft, and
fallback API keys take over when the primary key is rate limited or out
of quota.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.pdfweaver/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "pdfweaver home directory (default: ~/.pdfweaver)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the process logger honoring --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// openHome resolves and creates the home directory.
func openHome() (*home.Dir, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, err
	}
	return h, nil
}

// loadConfig loads configuration, preferring --config when given.
func loadConfig() (*config.Config, error) {
	cm, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, err
	}
	return cm.Get(), nil
}

// openState opens the embedded state database under the home directory.
func openState(h *home.Dir) (*store.BoltStore, error) {
	return store.OpenBolt(h.StateDBPath())
}
