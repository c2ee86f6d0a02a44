// Package main provides the logo-cli admin tool. Uses Cobra for command parsing.
//
// Run with: go run ./cmd/cli generate --text "Acme Corp"
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleveque/logo-generator/internal/config"
	"github.com/fleveque/logo-generator/internal/model"
	"github.com/fleveque/logo-generator/internal/service"
	"github.com/fleveque/logo-generator/internal/storage"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCmd builds the command tree:
//
//	logo-cli generate --text "Acme Corp"
//	logo-cli history --limit 20
//	logo-cli stats
//	logo-cli config
func rootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "logo-cli",
		Short:        "Logo generator CLI tools",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("LOGO_CONFIG_PATH"), "Path to a YAML config file")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}

	root.AddCommand(generateCmd())
	root.AddCommand(historyCmd(load))
	root.AddCommand(statsCmd(load))
	root.AddCommand(configCmd(load))
	return root
}

func generateCmd() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the generator in-process and print the JSON the server would return",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := model.LogoRequest{}
			// An omitted flag is a missing field, not an empty string.
			if cmd.Flags().Changed("text") {
				req.Text = &text
			}
			return runGenerate(cmd.Context(), cmd.OutOrStdout(), req)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to generate a logo for")
	return cmd
}

func runGenerate(ctx context.Context, out io.Writer, req model.LogoRequest) error {
	gen := service.NewGenerator(nil, nil, zap.NewNop())
	resp, err := gen.Generate(ctx, req, service.RequestMeta{ClientIP: "cli"})
	if errors.Is(err, service.ErrTextRequired) {
		if encErr := writeJSON(out, model.ErrorResponse{Detail: err.Error()}); encErr != nil {
			return encErr
		}
		return err
	}
	if err != nil {
		return err
	}
	return writeJSON(out, resp)
}

func historyCmd(load func() (*config.Config, error)) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently recorded /generate calls",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, load, func(repo storage.GenerationRepository) error {
				gens, err := repo.ListRecent(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return printHistory(cmd.OutOrStdout(), gens)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of records to show")
	return cmd
}

func printHistory(out io.Writer, gens []model.Generation) error {
	if len(gens) == 0 {
		_, err := fmt.Fprintln(out, "no generations recorded")
		return err
	}

	// tabwriter aligns columns; it buffers until Flush.
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tOUTCOME\tTEXT_LEN\tCLIENT_IP\tREQUEST_ID")
	for _, g := range gens {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
			g.ID, g.CreatedAt.Format(time.RFC3339), g.Outcome, g.TextLen, g.ClientIP, g.RequestID)
	}
	return w.Flush()
}

func statsCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print /generate counts from the history database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, load, func(repo storage.GenerationRepository) error {
				ctx := cmd.Context()

				total, err := repo.Count(ctx)
				if err != nil {
					return err
				}
				ok, err := repo.CountByOutcome(ctx, model.OutcomeOK)
				if err != nil {
					return err
				}
				rejected, err := repo.CountByOutcome(ctx, model.OutcomeRejected)
				if err != nil {
					return err
				}

				return writeJSON(cmd.OutOrStdout(), map[string]int64{
					"total":    total,
					"ok":       ok,
					"rejected": rejected,
				})
			})
		},
	}
}

func configCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), cfg)
		},
	}
}

// withHistory opens the history database for the duration of fn. A database
// that does not exist yet is reported, not created.
func withHistory(cmd *cobra.Command, load func() (*config.Config, error), fn func(repo storage.GenerationRepository) error) error {
	cfg, err := load()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: history is disabled (LOGO_HISTORY_ENABLED=false); showing whatever was recorded before")
	}

	path := cfg.History.DatabasePath
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "no history database at %s\n", path)
			return err
		}
		return fmt.Errorf("checking history database: %w", err)
	}

	db, err := storage.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer db.Close()

	return fn(storage.NewGenerationRepository(db))
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
