// Package main provides the profile_agent CLI for scoring professional profiles
// and tracking gamified progress.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&rootOptions{})
}

// newRootCmdWith builds the command tree around opts.
func newRootCmdWith(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "profile_agent",
		Short: "Profile scoring and progress tracker",
		Long: `profile_agent scores professional networking profiles section by section against a target role,
suggests improvements and tracks experience, levels, achievements and daily challenges.

Configuration can be loaded from a JSON file using --config. Command-line flags override config file values.`,
		SilenceUsage: true,
	}
	opts.bind(rootCmd)

	rootCmd.AddCommand(
		newScoreCmd(opts),
		newScoreBatchCmd(opts),
		newProgressCmd(opts),
		newChallengeCmd(opts),
		newValidateCmd(),
		newTokenCmd(),
		newServeCmd(opts),
	)
	return rootCmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
