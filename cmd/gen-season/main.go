// Package main generates a synthetic season on disk, plus a matching
// inputs file, for exercising the pipeline without upstream data.
package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/okian/stint/internal/seasongen"
	"github.com/okian/stint/pkg/logger"
)

const (
	defaultSeason = 2025
	defaultRounds = 10
	defaultSeed   = 7
)

var (
	flagSeason  int
	flagRounds  int
	flagSeed    int64
	flagDataDir string
	flagInputs  string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gen-season",
		Short:         "Generate a synthetic season for the stint pipeline",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runGenerateCmd,
	}

	rootCmd.Flags().IntVar(&flagSeason, "season", defaultSeason, "season year to generate")
	rootCmd.Flags().IntVar(&flagRounds, "rounds", defaultRounds, "number of rounds")
	rootCmd.Flags().Int64Var(&flagSeed, "seed", defaultSeed, "random seed; same seed, same season")
	rootCmd.Flags().StringVar(&flagDataDir, "data-dir", "data", "output directory for event tables")
	rootCmd.Flags().StringVar(&flagInputs, "inputs", "", "also write an inputs file here (default <data-dir>/inputs.yaml)")

	return rootCmd
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return err
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to flush logs: " + err.Error() + "\n")
		}
	}()

	gen := seasongen.New(seasongen.Config{
		Season:  flagSeason,
		Rounds:  flagRounds,
		Seed:    flagSeed,
		DataDir: flagDataDir,
	})
	if err := gen.Generate(cmd.Context()); err != nil {
		return err
	}

	inputsPath := flagInputs
	if inputsPath == "" {
		inputsPath = filepath.Join(flagDataDir, "inputs.yaml")
	}
	return seasongen.WriteInputs(inputsPath)
}
