// Package commands implements the rptedit CLI: offline structural editing
// of report document snapshots. Instructions are parsed with the
// deterministic parser only, so results are reproducible without network
// access.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rptedit/internal/report"
)

var docPath string

func Execute() error {
	root := &cobra.Command{
		Use:           "rptedit",
		Short:         "Edit report layout documents from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&docPath, "doc", "", "document snapshot (.json) or RptToXml export (.xml)")

	root.AddCommand(convertCmd(), parseCmd(), previewCmd(), applyCmd())
	return root.Execute()
}

func loadDocument() (*report.Document, error) {
	if docPath == "" {
		return nil, fmt.Errorf("--doc is required")
	}
	f, err := os.Open(docPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return report.Decode(f, docPath)
}
