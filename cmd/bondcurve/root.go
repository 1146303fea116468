package main

import (
	"bufio"
	"fmt"

	"github.com/damon-houk/bond-curve-interpolation/internal/config"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/logger"
	"github.com/damon-houk/bond-curve-interpolation/internal/infrastructure/middleware"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		cfg  *config.Config
		opts lookupOptions
	)

	root := &cobra.Command{
		Use:   "bondcurve",
		Short: "Interpolate a bond curve rate for a date",
		Long: `bondcurve reads a bond curve file (local path or http(s) URL) with
Date, Num Days and Bid/Ask/Mid Rate columns and prints the linearly
interpolated rate of the chosen type for a date. Missing values are
prompted for.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			configFile, _ := cmd.Flags().GetString("config")
			if configFile != "" {
				cfg, err = config.LoadFromFile(configFile)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if override, _ := cmd.Flags().GetString("log-level"); override != "" {
				cfg.Log.Level = override
			}
			level, err := logger.ParseLevel(cfg.Log.Level)
			if err != nil {
				return err
			}
			logger.SetDefaultLogger(logger.NewJSONLogger(cmd.ErrOrStderr(), level))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			resolved, err := resolveOptions(in, cmd.OutOrStdout(), opts, cfg.Curve.DefaultFile)
			if err != nil {
				return err
			}

			ctx := middleware.WithRequestID(cmd.Context(), "")
			svc := newRateService(cfg, logger.GetDefaultLogger())
			return runLookup(ctx, svc, resolved, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	root.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	root.Flags().StringVarP(&opts.date, "date", "d", "", "target date, YYYY-MM-DD")
	root.Flags().StringVarP(&opts.rateType, "type", "t", "", "rate type: Bid, Ask or Mid")
	root.Flags().StringVarP(&opts.file, "file", "f", "", "curve file path or http(s) URL")

	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "bondcurve %s\n", version)
			fmt.Fprintf(out, "  commit:  %s\n", commit)
			fmt.Fprintf(out, "  built:   %s\n", date)
		},
	}
}
