package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	errorsmod "cosmossdk.io/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"katwalk/app/metrics"
	"katwalk/kat/registry"
	"katwalk/kat/runner"
	"katwalk/kat/types"
)

// Process exit statuses.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, types.ErrUsage), errors.Is(err, types.ErrUnknownScheme):
		return ExitUsage
	default:
		return ExitFailure
	}
}

func noArgs(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return errorsmod.Wrapf(types.ErrUsage, "unexpected argument %q", args[0])
	}
	return nil
}

func usageError(_ *cobra.Command, err error) error {
	return errorsmod.Wrap(types.ErrUsage, err.Error())
}

func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "cavptool",
		Short:         "Check the linked primitives against published known-answer vectors",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v, cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}
	addFlags(rootCmd.Flags())
	rootCmd.SetFlagErrorFunc(usageError)
	rootCmd.AddCommand(listCmd())

	return rootCmd
}

func run(cmd *cobra.Command, cfg Config) error {
	logger := newLogger(cfg, cmd.ErrOrStderr())

	reg, err := registry.Default().Select(cfg.Schemes...)
	if err != nil {
		return err
	}

	rec := metrics.NewRecorder()
	sum, err := runner.New(cfg.KatDir, reg,
		runner.WithLogger(logger),
		runner.WithMetrics(rec),
	).Run(cmd.Context())

	if cfg.MetricsFile != "" {
		if werr := rec.WriteTextfile(cfg.MetricsFile); werr != nil {
			logger.Error("failed to write metrics", "path", cfg.MetricsFile, "err", werr)
			if err == nil {
				err = werr
			}
		}
	}
	if err != nil {
		return err
	}

	logger.Info("all vector files verified", "files", len(sum.Files), "vectors", sum.Vectors)
	fmt.Fprintf(cmd.OutOrStdout(), "OK: %d files, %d vectors\n", len(sum.Files), sum.Vectors)
	return nil
}

func listCmd() *cobra.Command {
	var family string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the registered schemes and their vector files",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var only types.Family
			if family != "" {
				f, err := types.ParseFamily(family)
				if err != nil {
					return errorsmod.Wrapf(types.ErrUsage, "--%s: %v", flagFamily, err)
				}
				only = f
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SCHEME\tFAMILY\tPATH\tSELECTOR")
			for _, e := range registry.Default().Entries() {
				if only != types.FamilyUnknown && e.Family != only {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Scheme, e.Family, e.Path, describeSelector(e.Selector))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&family, flagFamily, "", "only list schemes of this family (signature|kem|aead)")
	cmd.SetFlagErrorFunc(usageError)
	return cmd
}

func describeSelector(raw string) string {
	sel, err := types.ParseSelector(raw)
	if err != nil {
		return "invalid: " + raw
	}
	if sel.IsZero() {
		return "all blocks"
	}
	return sel.String()
}
