package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func convertCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a RptToXml export to a JSON document snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument()
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			if outPath == "" {
				fmt.Println(string(out))
				return nil
			}
			return os.WriteFile(outPath, append(out, '\n'), 0o644)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}
