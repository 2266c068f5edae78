package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/goblocks/internal/config"
	"github.com/me/goblocks/internal/sched"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}

			static := 0
			for _, b := range cfg.Blocks {
				if b.Command == "" {
					static++
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d blocks, %d static, sleep %ds)\n",
				flagConfig, len(cfg.Blocks), static, sched.ReconcileInterval(cfg.BlockList()))
			return nil
		},
	}
}
