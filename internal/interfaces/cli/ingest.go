package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/hoops-reconciler/internal/usecase"
)

func (c *CLI) ingestCommand() *cobra.Command {
	var (
		params ingestParams
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Normalize and store one provider document",
		Long: `Reads a provider document (scoreboard, box score or roster), archives it
verbatim and stores the normalized rows. Use --file - to read stdin.`,
		Example: `  reconciler ingest --provider nba --kind games --file scoreboard.json
  reconciler ingest --provider balldontlie --kind stats --file stats.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.check(params); err != nil {
				return err
			}
			payload, err := readPayload(cmd, params.File)
			if err != nil {
				return err
			}

			container, err := c.containerFor(cmd.Context())
			if err != nil {
				return err
			}
			summary, err := container.Ingestion.Ingest(cmd.Context(), usecase.IngestInput{
				Provider:  params.Provider,
				Kind:      params.Kind,
				Payload:   payload,
				EntityKey: params.EntityKey,
			})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(out(cmd), summary)
			}
			if err := writeSummary(out(cmd), "ingest", summary); err != nil {
				return err
			}
			if len(summary.Rejections) == 0 {
				return nil
			}
			rows := make([][]string, 0, len(summary.Rejections))
			for _, r := range summary.Rejections {
				rows = append(rows, []string{string(r.Provider), r.RawID, r.Reason})
			}
			return writeTable(out(cmd), []string{"PROVIDER", "RAW_ID", "REASON"}, rows)
		},
	}

	cmd.Flags().StringVar(&params.Provider, "provider", "", "provider name (nba, balldontlie, bbref, oddsfeed)")
	cmd.Flags().StringVar(&params.Kind, "kind", "games", "payload kind: games, stats or players")
	cmd.Flags().StringVar(&params.File, "file", "", "path to the provider document, - for stdin")
	cmd.Flags().StringVar(&params.EntityKey, "key", "", "archive key, defaults to a content hash prefix")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

func readPayload(cmd *cobra.Command, path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return raw, nil
}
