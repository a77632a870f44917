package cli

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/hoops-reconciler/internal/usecase"
)

type reportOutput struct {
	Coverage usecase.CoverageReport `json:"coverage"`
	Failures []usecase.FailureRow   `json:"failures"`
}

func (c *CLI) reportCommand() *cobra.Command {
	var (
		flags     windowFlags
		checkName string
		status    string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show validation coverage and failing checks for a window",
		Example: `  reconciler report --from 2025-11-01 --to 2025-11-07
  reconciler report --from 2025-11-01 --check points_formula --status fail --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := flags.resolve()
			if err != nil {
				return err
			}
			container, err := c.containerFor(cmd.Context())
			if err != nil {
				return err
			}
			input := usecase.ReportInput{
				WindowStart: w.Start,
				WindowEnd:   w.End,
				TeamID:      w.TeamID,
				CheckName:   strings.TrimSpace(checkName),
				Status:      strings.TrimSpace(status),
			}
			coverage, err := container.Reports.Coverage(cmd.Context(), input)
			if err != nil {
				return err
			}
			failures, err := container.Reports.Failures(cmd.Context(), input)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(out(cmd), reportOutput{Coverage: coverage, Failures: failures})
			}

			if err := writeSummary(out(cmd), "coverage", coverage); err != nil {
				return err
			}
			rows := make([][]string, 0, len(failures))
			for _, f := range failures {
				rows = append(rows, []string{f.GameDate, f.Matchup, f.CheckName, f.Status, f.Severity, f.GameID})
			}
			return writeTable(out(cmd), []string{"DATE", "MATCHUP", "CHECK", "STATUS", "SEVERITY", "GAME"}, rows)
		},
	}
	cmd.Flags().StringVar(&flags.From, "from", "", "first ET date of the window (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.To, "to", "", "last ET date of the window, defaults to --from")
	cmd.Flags().StringVar(&flags.Team, "team", "", "restrict to games involving this team id")
	cmd.Flags().StringVar(&checkName, "check", "", "restrict to one check")
	cmd.Flags().StringVar(&status, "status", "", "restrict to one status: pass, warn or fail")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func (c *CLI) issuesCommand() *cobra.Command {
	var (
		limit  int
		offset int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "issues",
		Short: "List open player identity issues",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.check(listParams{Limit: limit, Offset: offset}); err != nil {
				return err
			}
			container, err := c.containerFor(cmd.Context())
			if err != nil {
				return err
			}
			issues, err := container.Reports.OpenIssues(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(out(cmd), issues)
			}
			rows := make([][]string, 0, len(issues))
			for _, issue := range issues {
				rows = append(rows, []string{
					string(issue.Provider),
					issue.ProviderRef,
					issue.PlayerName,
					issue.TeamID,
					string(issue.Status),
					strings.Join(issue.Candidates, ","),
					issue.GameID,
				})
			}
			return writeTable(out(cmd), []string{"PROVIDER", "REF", "NAME", "TEAM", "STATUS", "CANDIDATES", "GAME"}, rows)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of issues")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of issues to skip")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print issues as JSON")
	return cmd
}

func (c *CLI) runsCommand() *cobra.Command {
	var (
		kind   string
		limit  int
		offset int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent batch runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.check(listParams{Kind: kind, Limit: limit, Offset: offset}); err != nil {
				return err
			}
			container, err := c.containerFor(cmd.Context())
			if err != nil {
				return err
			}
			runs, err := container.Reports.RecentRuns(cmd.Context(), kind, limit, offset)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(out(cmd), runs)
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.StartedAt.UTC().Format(time.RFC3339),
					string(run.Kind),
					string(run.Status),
					strconv.FormatBool(run.DryRun),
					run.Duration().Round(time.Millisecond).String(),
					run.ID,
					run.ErrorMessage,
				})
			}
			return writeTable(out(cmd), []string{"STARTED", "KIND", "STATUS", "DRY_RUN", "DURATION", "ID", "ERROR"}, rows)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "restrict to reconcile, link or validate")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of runs to skip")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print runs as JSON")
	return cmd
}
