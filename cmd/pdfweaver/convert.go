package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sonucs12/pdf-weaver/internal/drafts"
	"github.com/Sonucs12/pdf-weaver/internal/errclass"
	"github.com/Sonucs12/pdf-weaver/internal/extract"
	"github.com/Sonucs12/pdf-weaver/internal/format"
	"github.com/Sonucs12/pdf-weaver/internal/home"
	"github.com/Sonucs12/pdf-weaver/internal/metrics"
	"github.com/Sonucs12/pdf-weaver/internal/pipeline"
	"github.com/Sonucs12/pdf-weaver/internal/providers"
	"github.com/Sonucs12/pdf-weaver/internal/render"
	"github.com/Sonucs12/pdf-weaver/internal/usage"
)

var (
	convertPages  string
	convertOutput string
	convertNoFmt  bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.pdf>",
	Short: "Convert a range of PDF pages to markdown",
	Long: `Convert a range of PDF pages to markdown.

The page range is either a single page ("12") or an inclusive span
("3-7"), bounded by the configured maximum span. Pages are processed in
chunks; Ctrl+C stops the run at the next chunk boundary and saves the
text extracted so far as a draft.

Examples:
  pdfweaver convert book.pdf --pages 3-7
  pdfweaver convert book.pdf --pages 12 --output page12.md
  pdfweaver convert book.pdf --pages 1-5 --no-format`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		h, err := openHome()
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		creds := cfg.Credentials()
		if creds.Empty() {
			return errors.New("no API key configured: set extraction.api_key or OPENAI_API_KEY")
		}

		state, err := openState(h)
		if err != nil {
			return err
		}
		defer state.Close()

		doc, err := render.Open(args[0], render.OpenOptions{
			DPI:         cfg.Render.DPI,
			JPEGQuality: cfg.Render.JPEGQuality,
			MaxSizeMB:   cfg.Pipeline.MaxFileSizeMB,
		})
		if err != nil {
			return err
		}
		defer doc.Close()

		failover := extract.NewFailover(creds, func(key string) providers.Extractor {
			return providers.NewOpenAIExtractor(providers.OpenAIConfig{
				APIKey:     key,
				Model:      cfg.Extraction.Model,
				BaseURL:    cfg.Extraction.BaseURL,
				Timeout:    time.Duration(cfg.Extraction.TimeoutSeconds) * time.Second,
				MaxRetries: cfg.Extraction.MaxRetries,
				RateLimit:  cfg.Extraction.RateLimit,
				Structured: cfg.Extraction.Structured,
			})
		}, logger)

		var formatter format.Formatter = format.Passthrough{}
		if cfg.Format.Enabled && !convertNoFmt {
			formatter = format.NewOpenAIFormatter(format.OpenAIConfig{
				APIKey:  creds.All()[0].Key,
				Model:   cfg.Format.Model,
				BaseURL: cfg.Extraction.BaseURL,
				Timeout: time.Duration(cfg.Extraction.TimeoutSeconds) * time.Second,
			})
		}

		tracker := usage.NewTracker(state,
			cfg.Usage.MaxGenerations,
			time.Duration(cfg.Usage.WindowHours)*time.Hour)
		draftStore := drafts.NewStore(state)

		p := pipeline.New(failover, formatter, tracker, draftStore, pipeline.Options{
			MaxPages:      cfg.Pipeline.MaxPages,
			ChunkSize:     cfg.Pipeline.ChunkSize,
			RenderWorkers: cfg.Render.Workers,
		}, logger, printProgress)
		p.Metrics = metrics.NewRecorder(state)

		// A signal cancels the token, not the run context, so the
		// chunk in flight finishes and its text is kept.
		token := pipeline.NewToken()
		runCtx := context.WithoutCancel(ctx)
		go func() {
			<-ctx.Done()
			token.Cancel()
		}()

		result, err := p.Run(runCtx, doc, convertPages, token)
		if err == nil {
			return writeOutput(h, doc.Path(), result)
		}
		if cat := errclass.Classify(err); cat != errclass.CategoryUnknown {
			fmt.Fprintln(os.Stderr, cat.UserMessage())
		}
		if result != nil && result.Partial() {
			fmt.Fprintf(os.Stderr, "run %s: %v\n", result.Status, err)
			if result.DraftSaved {
				fmt.Fprintf(os.Stderr, "partial text saved as draft %s\n", result.RunID)
			}
		}
		return err
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertPages, "pages", "p", "", `page range, e.g. "3-7" or "12" (required)`)
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file (default: <home>/output/)")
	convertCmd.Flags().BoolVar(&convertNoFmt, "no-format", false, "skip the markdown cleanup pass")
	convertCmd.MarkFlagRequired("pages")

	rootCmd.AddCommand(convertCmd)
}

// printProgress streams run progress to stderr.
func printProgress(ev pipeline.Event) {
	switch {
	case ev.Page > 0 && ev.Preview != "":
		fmt.Fprintf(os.Stderr, "[%s] page %d: %s\n", ev.Phase, ev.Page, firstLine(ev.Preview))
	case ev.Page > 0:
		fmt.Fprintf(os.Stderr, "[%s] page %d\n", ev.Phase, ev.Page)
	default:
		fmt.Fprintf(os.Stderr, "[%s] %s\n", ev.Phase, ev.Message)
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}

func writeOutput(h *home.Dir, sourcePath string, result *pipeline.Result) error {
	path := convertOutput
	if path == "" {
		if err := os.MkdirAll(h.OutputDir(), 0o755); err != nil {
			return err
		}
		path = h.OutputPath(filepath.Base(sourcePath), result.RunID[:8])
	}
	if err := os.WriteFile(path, []byte(result.Markdown+"\n"), 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
