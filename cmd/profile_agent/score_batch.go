package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/profile-optimizer/internal/types"
)

// defaultBatchParallelism bounds concurrent scoring in score-batch.
const defaultBatchParallelism = 4

type scoreBatchOptions struct {
	dir         string
	parallelism int
	asJSON      bool
}

// batchResult is one scored profile file.
type batchResult struct {
	Path  string             `json:"path"`
	Score types.ProfileScore `json:"score"`
}

func newScoreBatchCmd(root *rootOptions) *cobra.Command {
	opts := &scoreBatchOptions{}
	cmd := &cobra.Command{
		Use:   "score-batch [profile.json...]",
		Short: "Score many profiles in parallel",
		Long:  "Scores every profile given as an argument or found as *.json in --dir against the same target role. Results are printed in input order.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScoreBatch(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "Directory of profile JSON files")
	cmd.Flags().IntVar(&opts.parallelism, "parallel", defaultBatchParallelism, "Maximum profiles scored at once")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func runScoreBatch(cmd *cobra.Command, root *rootOptions, opts *scoreBatchOptions, args []string) error {
	paths := append([]string(nil), args...)
	if opts.dir != "" {
		matches, err := filepath.Glob(filepath.Join(opts.dir, "*.json"))
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", opts.dir, err)
		}
		sort.Strings(matches)
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no profiles given: pass files as arguments or use --dir")
	}
	if opts.parallelism <= 0 {
		return fmt.Errorf("parallel must be greater than 0, got %d", opts.parallelism)
	}

	cfg, err := root.loadConfig(cmd)
	if err != nil {
		return err
	}
	scorer, err := newScorer(cfg)
	if err != nil {
		return err
	}
	jobCtx := root.jobContext(cfg)

	results := make([]batchResult, len(paths))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(opts.parallelism)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			profile, err := readProfile(path)
			if err != nil {
				return err
			}
			results[i] = batchResult{Path: path, Score: scorer.ScoreAll(profile, jobCtx)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		return writeJSON(out, results)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROFILE\tOVERALL\tHEADLINE\tABOUT\tEXPERIENCE\tSKILLS\tEDUCATION\tPHOTO") //nolint:errcheck
	for _, r := range results {
		s := r.Score.SectionScores()
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n", //nolint:errcheck
			filepath.Base(r.Path), r.Score.Overall,
			s[types.SectionHeadline], s[types.SectionAbout], s[types.SectionExperience],
			s[types.SectionSkills], s[types.SectionEducation], s[types.SectionPhoto])
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	if cfg.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Scored %d profiles\n", len(results))
	}
	return nil
}
