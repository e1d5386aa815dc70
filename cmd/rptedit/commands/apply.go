package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"rptedit/internal/command"
	"rptedit/internal/edit"
	"rptedit/internal/preview"
)

func applyCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "apply <instruction>",
		Short: "Apply an instruction and write the modified snapshot",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument()
			if err != nil {
				return err
			}
			parsed, err := command.Fallback(strings.Join(args, " "), doc)
			if err != nil {
				return err
			}
			modified, err := edit.Apply(doc, parsed)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(modified, "", "  ")
			if err != nil {
				return err
			}
			if outPath == "" {
				fmt.Println(string(out))
				return nil
			}
			if err := os.WriteFile(outPath, append(out, '\n'), 0o644); err != nil {
				return err
			}
			fmt.Println(preview.Diff(doc, modified).Summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}
