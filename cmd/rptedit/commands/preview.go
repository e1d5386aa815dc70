package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rptedit/internal/command"
	"rptedit/internal/edit"
	"rptedit/internal/preview"
)

func previewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview <instruction>",
		Short: "Show what an instruction would change without writing anything",
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
			p := preview.Diff(doc, modified)
			fmt.Println(p.Summary)
			for _, c := range p.Changes {
				fmt.Printf("  - %s\n", c.Description)
			}
			return nil
		},
	}
}
