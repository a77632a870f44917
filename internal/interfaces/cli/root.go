package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/hoops-reconciler/internal/app"
)

// Loader builds the service container on first use. Commands that only
// print help never touch storage.
type Loader func(ctx context.Context) (*app.Container, error)

// CLI owns the container across every command executed in one process.
type CLI struct {
	load      Loader
	container *app.Container
	validate  *validator.Validate
}

func New(load Loader) *CLI {
	return &CLI{load: load, validate: validator.New()}
}

// Root builds a fresh command tree. Flag state lives on the tree, so callers
// that execute more than once should build a new root each time.
func (c *CLI) Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "reconciler",
		Short: "Reconcile basketball games, identities and box scores across providers",
		Long: `Operator tool for the multi-provider game reconciler.

Typical daily flow:
  ingest -> reconcile -> link -> validate -> report`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		traced(c.ingestCommand()),
		traced(c.reconcileCommand()),
		traced(c.linkCommand()),
		traced(c.validateCommand()),
		traced(c.reportCommand()),
		traced(c.issuesCommand()),
		traced(c.resolvePlayerCommand()),
		traced(c.runsCommand()),
		traced(c.seedCommand()),
		c.scheduleCommand(),
	)
	return root
}

func (c *CLI) containerFor(ctx context.Context) (*app.Container, error) {
	if c.container != nil {
		return c.container, nil
	}
	container, err := c.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("build container: %w", err)
	}
	c.container = container
	return container, nil
}

// Close pushes run metrics gathered by this process and releases the
// container. It is safe to call when no command built one.
func (c *CLI) Close(ctx context.Context, job string) error {
	if c.container == nil {
		return nil
	}
	pushErr := c.container.PushMetrics(ctx, job)
	if pushErr != nil {
		c.container.Logger.Warn("push run metrics failed", "error", pushErr)
	}
	err := c.container.Close(ctx)
	c.container = nil
	return err
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
