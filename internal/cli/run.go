package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/me/goblocks/internal/bar"
	"github.com/me/goblocks/internal/config"
	"github.com/me/goblocks/internal/executor"
	"github.com/me/goblocks/internal/sched"
	"github.com/me/goblocks/internal/server"
	"github.com/me/goblocks/internal/store"
)

func newRunCmd() *cobra.Command {
	var (
		flagListen   string
		flagJournal  string
		flagInterval int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scheduler and emit the status line on stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			if flagListen != "" {
				cfg.Listen = flagListen
			}
			if flagJournal != "" {
				cfg.Journal = flagJournal
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg := executor.NewRegistry(logger)
			reg.Register(executor.NewProcessExecutor("", logger))
			reg.Register(executor.NewJSExecutor(logger))

			opts := []sched.Option{}
			if cfg.Journal != "" {
				journal, err := store.NewSQLiteJournal(cfg.Journal, logger)
				if err != nil {
					return fmt.Errorf("open journal: %w", err)
				}
				defer journal.Close()
				if err := journal.Migrate(ctx); err != nil {
					return fmt.Errorf("migrate journal: %w", err)
				}
				opts = append(opts, sched.WithJournal(journal))
			}

			schedCfg := sched.DefaultConfig()
			schedCfg.Interval = flagInterval
			for i, n := range cfg.RefreshSignals {
				if i < len(schedCfg.RefreshSignals) {
					schedCfg.RefreshSignals[i] = n
				}
			}

			bw := bar.NewWriter(os.Stdout, logger)
			s := sched.New(cfg.BlockList(), reg, bw, schedCfg, logger, opts...)

			if cfg.Listen != "" {
				api := server.New(s, logger)
				go func() {
					if err := api.ListenAndServe(ctx, cfg.Listen); err != nil {
						logger.Error("control api stopped", "error", err)
					}
				}()
			}

			if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagListen, "listen", "", "Control API address (overrides config)")
	cmd.Flags().StringVar(&flagJournal, "journal", "", "Update journal database path (overrides config)")
	cmd.Flags().IntVar(&flagInterval, "interval", 0, "Sleep period in seconds (0 derives it from the block intervals)")

	return cmd
}
