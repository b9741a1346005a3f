package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-optimizer/internal/observability"
	"github.com/jonathan/profile-optimizer/internal/suggest"
	"github.com/jonathan/profile-optimizer/internal/types"
)

type scoreOptions struct {
	profilePath string
	section     string
	suggest     bool
	asJSON      bool
}

// scoreOutput is the --json form of the score command.
type scoreOutput struct {
	Score       *types.ProfileScore                    `json:"score,omitempty"`
	Section     *types.ScoreResult                     `json:"section,omitempty"`
	Stats       *types.Stats                           `json:"stats,omitempty"`
	Suggestions map[types.Section][]suggest.Suggestion `json:"suggestions,omitempty"`
}

func newScoreCmd(root *rootOptions) *cobra.Command {
	opts := &scoreOptions{}
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a profile against a target role",
		Long:  "Scores every section of a profile JSON file (or a single --section) and prints the weighted overall score, per-factor breakdown and issues.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.profilePath, "profile", "p", "", "Path to profile JSON file (required)")
	cmd.Flags().StringVarP(&opts.section, "section", "s", "", "Score only this section")
	cmd.Flags().BoolVar(&opts.suggest, "suggest", false, "Include improvement suggestions")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print JSON instead of a report")

	if err := cmd.MarkFlagRequired("profile"); err != nil {
		panic(fmt.Sprintf("failed to mark profile flag as required: %v", err))
	}
	return cmd
}

func runScore(cmd *cobra.Command, root *rootOptions, opts *scoreOptions) error {
	ctx := cmd.Context()

	cfg, err := root.loadConfig(cmd)
	if err != nil {
		return err
	}
	scorer, err := newScorer(cfg)
	if err != nil {
		return err
	}
	profile, err := readProfile(opts.profilePath)
	if err != nil {
		return err
	}
	jobCtx := root.jobContext(cfg)

	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)

	if opts.section != "" {
		section := types.Section(opts.section)
		result, err := scorer.ScoreSection(section, profile, jobCtx)
		if err != nil {
			return fmt.Errorf("failed to score section %q: %w", section, err)
		}

		var suggestions map[types.Section][]suggest.Suggestion
		if opts.suggest {
			suggester, cleanup, err := newSuggester(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()
			items, err := suggester.Suggest(ctx, suggest.Request{Section: section, Profile: profile, Context: jobCtx, Result: result})
			if err != nil {
				return fmt.Errorf("failed to generate suggestions: %w", err)
			}
			if len(items) > 0 {
				suggestions = map[types.Section][]suggest.Suggestion{section: items}
			}
		}

		if opts.asJSON {
			return writeJSON(out, scoreOutput{Section: &result, Suggestions: suggestions})
		}
		printer.PrintSection(section, result)
		printer.PrintSuggestions(suggestions)
		return nil
	}

	score := scorer.ScoreAll(profile, jobCtx)
	stats := scorer.BuildStats(profile, jobCtx, score)

	var suggestions map[types.Section][]suggest.Suggestion
	if opts.suggest {
		suggester, cleanup, err := newSuggester(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()
		suggestions, err = suggest.SuggestAll(ctx, suggester, profile, jobCtx, score)
		if err != nil {
			return fmt.Errorf("failed to generate suggestions: %w", err)
		}
	}

	if opts.asJSON {
		return writeJSON(out, scoreOutput{Score: &score, Stats: &stats, Suggestions: suggestions})
	}
	printer.PrintScore(score)
	printer.PrintSuggestions(suggestions)
	return nil
}
