package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/hoops-reconciler/internal/usecase"
)

func (c *CLI) resolvePlayerCommand() *cobra.Command {
	var params resolvePlayerParams
	cmd := &cobra.Command{
		Use:   "resolve-player",
		Short: "Pin a provider player reference to an internal player",
		Long: `Stores a manual mapping and closes the open identity issues for the
reference. Run link again to attach the affected stat lines.`,
		Example: `  reconciler resolve-player --provider balldontlie --ref 666786 --player det-02`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.check(params); err != nil {
				return err
			}
			container, err := c.containerFor(cmd.Context())
			if err != nil {
				return err
			}
			closed, err := container.Identity.ResolveIssue(cmd.Context(), usecase.ResolveIssueInput{
				Provider:    params.Provider,
				ProviderRef: params.Ref,
				PlayerID:    params.Player,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out(cmd), "mapped %s:%s -> %s, closed %d issue(s)\n", params.Provider, params.Ref, params.Player, closed)
			return err
		},
	}
	cmd.Flags().StringVar(&params.Provider, "provider", "", "provider name")
	cmd.Flags().StringVar(&params.Ref, "ref", "", "provider player id")
	cmd.Flags().StringVar(&params.Player, "player", "", "internal player id")
	return cmd
}

func (c *CLI) seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the embedded team catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := c.containerFor(cmd.Context())
			if err != nil {
				return err
			}
			n, err := container.Identity.SeedTeams(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out(cmd), "seeded %d teams\n", n)
			return err
		},
	}
}
