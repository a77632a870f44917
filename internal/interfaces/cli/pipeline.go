package cli

import (
	"github.com/spf13/cobra"

	"github.com/riskibarqy/hoops-reconciler/internal/usecase"
)

func bindWindow(cmd *cobra.Command, f *windowFlags, gameHelp string) {
	cmd.Flags().StringVar(&f.From, "from", "", "first ET date of the window (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.To, "to", "", "last ET date of the window, defaults to --from")
	cmd.Flags().StringVar(&f.Team, "team", "", "restrict to games involving this team id")
	cmd.Flags().StringVar(&f.Game, "game", "", gameHelp)
}

func (c *CLI) reconcileCommand() *cobra.Command {
	var (
		flags  windowFlags
		dryRun bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:     "reconcile",
		Short:   "Group provider records into canonical games",
		Example: `  reconciler reconcile --from 2025-11-01 --to 2025-11-02 --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := flags.resolve()
			if err != nil {
				return err
			}
			container, err := c.containerFor(cmd.Context())
			if err != nil {
				return err
			}
			summary, err := container.Canonicalization.Reconcile(cmd.Context(), usecase.ReconcileInput{
				WindowStart:    w.Start,
				WindowEnd:      w.End,
				TeamID:         w.TeamID,
				ProviderGameID: w.GameID,
				DryRun:         dryRun,
			})
			if err != nil {
				return err
			}
			return emit(out(cmd), asJSON, "reconcile", summary)
		},
	}
	bindWindow(cmd, &flags, "restrict to the group containing this provider game id (id or provider:id)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute groups without writing")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

func (c *CLI) linkCommand() *cobra.Command {
	var (
		flags  windowFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:     "link",
		Short:   "Attach provider box-score lines to canonical games and players",
		Example: `  reconciler link --from 2025-11-01`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := flags.resolve()
			if err != nil {
				return err
			}
			container, err := c.containerFor(cmd.Context())
			if err != nil {
				return err
			}
			summary, err := container.BoxScores.Link(cmd.Context(), usecase.LinkInput{
				WindowStart: w.Start,
				WindowEnd:   w.End,
				TeamID:      w.TeamID,
				CanonicalID: w.GameID,
			})
			if err != nil {
				return err
			}
			return emit(out(cmd), asJSON, "link", summary)
		},
	}
	bindWindow(cmd, &flags, "link a single canonical game id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

func (c *CLI) validateCommand() *cobra.Command {
	var (
		flags           windowFlags
		unvalidatedOnly bool
		asJSON          bool
	)
	cmd := &cobra.Command{
		Use:     "validate",
		Short:   "Run the statistical checks over canonical games",
		Example: `  reconciler validate --from 2025-11-01 --unvalidated-only`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := flags.resolve()
			if err != nil {
				return err
			}
			container, err := c.containerFor(cmd.Context())
			if err != nil {
				return err
			}
			summary, err := container.Validation.Run(cmd.Context(), usecase.ValidateInput{
				WindowStart:     w.Start,
				WindowEnd:       w.End,
				TeamID:          w.TeamID,
				CanonicalID:     w.GameID,
				UnvalidatedOnly: unvalidatedOnly,
			})
			if err != nil {
				return err
			}
			return emit(out(cmd), asJSON, "validate", summary)
		},
	}
	bindWindow(cmd, &flags, "validate a single canonical game id")
	cmd.Flags().BoolVar(&unvalidatedOnly, "unvalidated-only", false, "skip games that already have results")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}
