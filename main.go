// main.go
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Slade66/number-generator/internal/config"
	"github.com/Slade66/number-generator/internal/generator"
	"github.com/Slade66/number-generator/internal/logging"
	"github.com/Slade66/number-generator/internal/report"
	"github.com/Slade66/number-generator/internal/session"
)

var (
	flagConfig   string
	flagNoColor  bool
	flagProgress bool
	flagReport   string
)

var rootCmd = &cobra.Command{
	Use:   "numgen",
	Short: "generate random numbers until every observer has seen enough",
	Long: `numgen draws random numbers between 1 and 999 and hands each of them to a set
of observers: a counter, a statistics observer, a range hit counter and a quick
tipp collector. It stops as soon as the last observer has detached.`,
	SilenceUsage: true,
	RunE:         runLocal,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&flagConfig, "config", "c", "", "config file with the observer list")
	flags.Int("delay", int(generator.DefaultDelay.Milliseconds()), "pause between two numbers in milliseconds")
	flags.Int32("seed", 0, "seed of the random source (default: time derived)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.BoolVar(&flagNoColor, "no-color", false, "disable coloured output")
	flags.BoolVar(&flagProgress, "progress", false, "show a spinner instead of every number")
	flags.StringVar(&flagReport, "report", "", "write the JSON run report to this file")
}

func runLocal(cmd *cobra.Command, _ []string) error {
	v, err := config.NewViper(flagConfig)
	if err != nil {
		return err
	}
	for key, name := range map[string]string{"delay_ms": "delay", "seed": "seed", "log_level": "log-level"} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, true)
	if err != nil {
		return err
	}

	console := report.NewConsole(cmd.OutOrStdout(), !flagNoColor, flagProgress)
	sinks := []generator.Sink{console}
	if log.GetLevel() <= zerolog.DebugLevel {
		sinks = append(sinks, report.NewLogSink(log))
	}
	s, err := session.New(cfg.Request(), sinks...)
	if err != nil {
		return err
	}
	log.Debug().
		Int32("seed", s.Generator().Seed()).
		Dur("delay", s.Generator().Delay()).
		Int("observers", len(s.Observers())).
		Msg("starting number generation")

	rep, err := s.Run()
	console.Finish()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout())
	for _, o := range s.Observers() {
		console.Final(o)
	}

	if flagReport != "" {
		data, err := rep.JSON()
		if err != nil {
			return err
		}
		if err := os.WriteFile(flagReport, data, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		log.Info().Str("file", flagReport).Int("rounds", rep.Rounds).Msg("report written")
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
