// Package observability provides formatted reports for the CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/profile-optimizer/internal/gamification"
	"github.com/jonathan/profile-optimizer/internal/suggest"
	"github.com/jonathan/profile-optimizer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// barWidth is the width of score bars
	barWidth = 20
)

// Printer writes boxed reports
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, inner), inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to max runes, ending with "..." when cut.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}

// pad right-pads s with spaces to width runes.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// bar renders a 0-100 score as a fixed-width bar.
func bar(score int) string {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	filled := score * barWidth / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// PrintScore outputs the overall score and every section with its weakest factors.
func (p *Printer) PrintScore(score types.ProfileScore) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall:  %3d/100  %s\n\n", score.Overall, bar(score.Overall)))

	for _, section := range types.AllSections {
		result, ok := score.Sections[section]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("%-16s %3d  %s\n", section, result.Score, bar(result.Score)))
	}

	var issues []string
	for _, section := range types.AllSections {
		for _, issue := range score.Sections[section].Issues {
			issues = append(issues, fmt.Sprintf("[%s] %s", section, issue))
		}
	}
	if len(issues) > 0 {
		sb.WriteString("\nTop issues:\n")
		count := min(len(issues), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", issues[i]))
		}
		if len(issues) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(issues)-maxItemsToShow))
		}
	}

	p.printBox("PROFILE SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSection outputs one section's breakdown and issues.
func (p *Printer) PrintSection(section types.Section, result types.ScoreResult) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score: %d/100  %s\n", result.Score, bar(result.Score)))

	if len(result.Breakdown) > 0 {
		sb.WriteString("\nBreakdown:\n")
		names := make([]string, 0, len(result.Breakdown))
		for name := range result.Breakdown {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sb.WriteString(fmt.Sprintf("  %-18s %5.1f\n", name, result.Breakdown[name]))
		}
	}

	if len(result.Issues) > 0 {
		sb.WriteString("\nIssues:\n")
		for _, issue := range result.Issues {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", issue))
		}
	}

	p.printBox(strings.ToUpper(string(section)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSuggestions outputs suggestions grouped by section in display order.
func (p *Printer) PrintSuggestions(suggestions map[types.Section][]suggest.Suggestion) {
	if len(suggestions) == 0 {
		return
	}

	var sb strings.Builder
	first := true
	for _, section := range types.AllSections {
		items := suggestions[section]
		if len(items) == 0 {
			continue
		}
		if !first {
			sb.WriteString("\n")
		}
		first = false
		sb.WriteString(fmt.Sprintf("%s:\n", section))
		for _, s := range items {
			sb.WriteString(fmt.Sprintf("  • %s\n", s.Text))
		}
	}

	p.printBox("SUGGESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProgress outputs a user's level, XP and achievements.
func (p *Printer) PrintProgress(state types.GamificationState) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Level:    %d\n", gamification.Level(state.XP)))
	sb.WriteString(fmt.Sprintf("XP:       %d (%d to next level)\n", state.XP, gamification.XPToNextLevel(state.XP)))
	sb.WriteString(fmt.Sprintf("Progress: %s %d%%\n", bar(gamification.LevelProgress(state.XP)), gamification.LevelProgress(state.XP)))
	sb.WriteString(fmt.Sprintf("Optimizations: %d  Suggestions accepted: %d\n", state.OptimizationsCompleted, state.SuggestionsAccepted))
	sb.WriteString(fmt.Sprintf("Total improvement: +%d\n", state.TotalScoreImprovement))

	sb.WriteString("\nAchievements:\n")
	for _, a := range gamification.Achievements() {
		mark := "○"
		if state.HasAchievement(a.ID) {
			mark = "●"
		}
		sb.WriteString(fmt.Sprintf("  %s %s\n", mark, a.Name))
	}

	p.printBox("PROGRESS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintOutcome outputs what a scoring event changed.
func (p *Printer) PrintOutcome(outcome gamification.Outcome) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("XP awarded: +%d (total %d)\n", outcome.XPAwarded, outcome.State.XP))
	if outcome.LeveledUp {
		sb.WriteString(fmt.Sprintf("Level up! %d → %d\n", outcome.PreviousLevel, outcome.State.Level()))
	}
	if len(outcome.NewlyUnlocked) > 0 {
		sb.WriteString("\nUnlocked:\n")
		for _, a := range outcome.NewlyUnlocked {
			sb.WriteString(fmt.Sprintf("  🏆 %s: %s\n", a.Name, a.Description))
		}
	}

	p.printBox("OPTIMIZATION RECORDED", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintChallenge outputs a daily challenge. completed is nil when it was not checked.
func (p *Printer) PrintChallenge(challenge gamification.Challenge, completed *bool) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s\n", challenge.Title))
	sb.WriteString(fmt.Sprintf("%s\n", challenge.Description))
	sb.WriteString(fmt.Sprintf("Reward: %d XP", challenge.XPReward))
	if completed != nil {
		if *completed {
			sb.WriteString("\n\n✅ Completed")
		} else {
			sb.WriteString("\n\n⏳ Not yet completed")
		}
	}

	p.printBox("DAILY CHALLENGE", sb.String())
}
