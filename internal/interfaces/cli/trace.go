package cli

import (
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var cliTracer = otel.Tracer("hoops-reconciler/internal/interfaces/cli")

// traced gives a one-shot command a root span so usecase spans have a parent.
func traced(cmd *cobra.Command) *cobra.Command {
	run := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx, span := cliTracer.Start(cmd.Context(), "cli."+cmd.Name())
		defer span.End()
		span.SetAttributes(attribute.String("cli.command", cmd.CommandPath()))
		cmd.SetContext(ctx)

		err := run(cmd, args)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return err
	}
	return cmd
}
