package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-optimizer/internal/gamification"
	"github.com/jonathan/profile-optimizer/internal/observability"
	"github.com/jonathan/profile-optimizer/internal/schemas"
	"github.com/jonathan/profile-optimizer/internal/store"
	"github.com/jonathan/profile-optimizer/internal/types"
)

type progressOptions struct {
	profilePath string
	eventPath   string
	limit       int
	asJSON      bool
}

func newProgressCmd(root *rootOptions) *cobra.Command {
	opts := &progressOptions{}
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show or update gamified progress",
	}
	cmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print JSON instead of a report")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show level, XP and achievements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProgressShow(cmd, root, opts)
		},
	}

	apply := &cobra.Command{
		Use:   "apply",
		Short: "Record an optimization from a profile or a scoring event",
		Long: `Scores --profile and records the result as an optimization, or applies a raw scoring event from --event.
XP, achievements and counters are persisted in the configured store.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProgressApply(cmd, root, opts)
		},
	}
	apply.Flags().StringVarP(&opts.profilePath, "profile", "p", "", "Path to profile JSON file")
	apply.Flags().StringVarP(&opts.eventPath, "event", "e", "", "Path to scoring event JSON file")
	apply.MarkFlagsMutuallyExclusive("profile", "event")
	apply.MarkFlagsOneRequired("profile", "event")

	history := &cobra.Command{
		Use:   "history",
		Short: "List analyzed scores, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProgressHistory(cmd, root, opts)
		},
	}
	history.Flags().IntVar(&opts.limit, "limit", store.DefaultHistoryLimit, "Maximum records to show")

	cmd.AddCommand(show, apply, history)
	return cmd
}

func runProgressShow(cmd *cobra.Command, root *rootOptions, opts *progressOptions) error {
	ctx := cmd.Context()
	cfg, err := root.loadConfig(cmd)
	if err != nil {
		return err
	}
	uid, err := userID(cfg)
	if err != nil {
		return err
	}

	backend, _, err := openGateway(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close() //nolint:errcheck

	state, err := store.LoadOrNew(ctx, backend, uid)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}

	if opts.asJSON {
		return writeJSON(cmd.OutOrStdout(), state)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintProgress(state)
	return nil
}

func runProgressApply(cmd *cobra.Command, root *rootOptions, opts *progressOptions) error {
	ctx := cmd.Context()
	cfg, err := root.loadConfig(cmd)
	if err != nil {
		return err
	}
	uid, err := userID(cfg)
	if err != nil {
		return err
	}

	backend, history, err := openGateway(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close() //nolint:errcheck

	state, err := store.LoadOrNew(ctx, backend, uid)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}

	var (
		event types.ScoringEvent
		score *types.ProfileScore
	)
	if opts.eventPath != "" {
		event, err = readEvent(opts.eventPath)
		if err != nil {
			return err
		}
	} else {
		scorer, err := newScorer(cfg)
		if err != nil {
			return err
		}
		profile, err := readProfile(opts.profilePath)
		if err != nil {
			return err
		}
		jobCtx := root.jobContext(cfg)
		result := scorer.ScoreAll(profile, jobCtx)
		score = &result

		event = types.ScoringEvent{
			OverallScore:    result.Overall,
			IsFirstAnalysis: state.OptimizationsCompleted == 0,
			Stats:           scorer.BuildStats(profile, jobCtx, result),
		}
		records, err := history.ListScoreHistory(ctx, uid, 1)
		if err != nil {
			return fmt.Errorf("failed to load score history: %w", err)
		}
		if len(records) > 0 {
			previous := records[0].Overall
			event.PreviousOverall = &previous
		}
	}

	outcome := gamification.Evaluate(state, event)
	if err := backend.Save(ctx, uid, outcome.State); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	if score != nil {
		if _, err := history.RecordScore(ctx, uid, *score, outcome.XPAwarded); err != nil {
			return fmt.Errorf("failed to record score history: %w", err)
		}
	}

	if opts.asJSON {
		return writeJSON(cmd.OutOrStdout(), outcome)
	}
	printer := observability.NewPrinter(cmd.OutOrStdout())
	if score != nil {
		printer.PrintScore(*score)
	}
	printer.PrintOutcome(outcome)
	return nil
}

func runProgressHistory(cmd *cobra.Command, root *rootOptions, opts *progressOptions) error {
	ctx := cmd.Context()
	cfg, err := root.loadConfig(cmd)
	if err != nil {
		return err
	}
	uid, err := userID(cfg)
	if err != nil {
		return err
	}
	if opts.limit <= 0 {
		return fmt.Errorf("limit must be greater than 0, got %d", opts.limit)
	}

	backend, history, err := openGateway(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close() //nolint:errcheck

	records, err := history.ListScoreHistory(ctx, uid, opts.limit)
	if err != nil {
		return fmt.Errorf("failed to list score history: %w", err)
	}
	if records == nil {
		records = []types.ScoreRecord{}
	}

	if opts.asJSON {
		return writeJSON(cmd.OutOrStdout(), records)
	}
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No analyses recorded yet.") //nolint:errcheck
		return nil
	}
	for _, r := range records {
		fmt.Fprintf(out, "%s  overall %3d  +%d XP\n", r.CreatedAt.Format("2006-01-02 15:04"), r.Overall, r.XPAwarded) //nolint:errcheck
	}
	return nil
}

// readEvent validates a scoring event file and decodes it.
func readEvent(path string) (types.ScoringEvent, error) {
	var event types.ScoringEvent
	if err := schemas.ValidateFile(schemas.KindScoringEvent, path); err != nil {
		return event, fmt.Errorf("invalid scoring event %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return event, fmt.Errorf("failed to read scoring event %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &event); err != nil {
		return event, fmt.Errorf("failed to parse scoring event %s: %w", path, err)
	}
	return event, nil
}
