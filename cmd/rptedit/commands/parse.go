package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rptedit/internal/command"
)

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <instruction>",
		Short: "Show the command the deterministic parser extracts",
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
			out, err := json.MarshalIndent(parsed, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
