package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-optimizer/internal/gamification"
	"github.com/jonathan/profile-optimizer/internal/observability"
)

type challengeOptions struct {
	date       string
	id         string
	check      bool
	beforePath string
	afterPath  string
	list       bool
	asJSON     bool
}

// challengeOutput is the --json form of the challenge command.
type challengeOutput struct {
	Challenge gamification.Challenge `json:"challenge"`
	Completed *bool                  `json:"completed,omitempty"`
}

func newChallengeCmd(root *rootOptions) *cobra.Command {
	opts := &challengeOptions{}
	cmd := &cobra.Command{
		Use:   "challenge",
		Short: "Show the daily challenge, or check it against two profile versions",
		Long: `Shows the challenge for today (or --date YYYY-MM-DD). With --check, scores the --before and --after
profiles and reports whether the change completes the challenge.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChallenge(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.date, "date", "", "Challenge date, YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringVar(&opts.id, "id", "", "Use this challenge instead of the daily one")
	cmd.Flags().BoolVar(&opts.check, "check", false, "Check completion using --before and --after")
	cmd.Flags().StringVar(&opts.beforePath, "before", "", "Profile JSON before the edit")
	cmd.Flags().StringVar(&opts.afterPath, "after", "", "Profile JSON after the edit")
	cmd.Flags().BoolVar(&opts.list, "list", false, "List every challenge in rotation order")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print JSON instead of a report")
	cmd.MarkFlagsRequiredTogether("check", "before", "after")
	return cmd
}

func runChallenge(cmd *cobra.Command, root *rootOptions, opts *challengeOptions) error {
	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)

	if opts.list {
		all := gamification.Challenges()
		if opts.asJSON {
			return writeJSON(out, all)
		}
		for _, c := range all {
			printer.PrintChallenge(c, nil)
		}
		return nil
	}

	challenge, err := selectChallenge(root, opts)
	if err != nil {
		return err
	}

	var completed *bool
	if opts.check {
		cfg, err := root.loadConfig(cmd)
		if err != nil {
			return err
		}
		scorer, err := newScorer(cfg)
		if err != nil {
			return err
		}
		jobCtx := root.jobContext(cfg)

		before, err := readProfile(opts.beforePath)
		if err != nil {
			return err
		}
		after, err := readProfile(opts.afterPath)
		if err != nil {
			return err
		}
		beforeScore := scorer.ScoreAll(before, jobCtx)
		afterScore := scorer.ScoreAll(after, jobCtx)
		done := gamification.CheckChallengeComplete(challenge,
			scorer.BuildStats(before, jobCtx, beforeScore),
			scorer.BuildStats(after, jobCtx, afterScore),
		)
		completed = &done
	}

	if opts.asJSON {
		return writeJSON(out, challengeOutput{Challenge: challenge, Completed: completed})
	}
	printer.PrintChallenge(challenge, completed)
	return nil
}

func selectChallenge(root *rootOptions, opts *challengeOptions) (gamification.Challenge, error) {
	if opts.id != "" {
		challenge, ok := gamification.ChallengeByID(opts.id)
		if !ok {
			return gamification.Challenge{}, fmt.Errorf("unknown challenge %q", opts.id)
		}
		return challenge, nil
	}
	if opts.date == "" {
		return gamification.Today(root.now()), nil
	}
	date, err := time.Parse("2006-01-02", opts.date)
	if err != nil {
		return gamification.Challenge{}, fmt.Errorf("invalid date %q: must be YYYY-MM-DD", opts.date)
	}
	return gamification.DailyChallenge(date), nil
}
