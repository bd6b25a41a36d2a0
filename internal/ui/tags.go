package ui

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) tagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			tags, err := a.repo.ListTags(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing tags: %w", err)
			}
			if len(tags) == 0 {
				fmt.Fprintln(a.out, "No tags defined.")
				return nil
			}
			for _, t := range tags {
				fmt.Fprintf(a.out, "  %s  %s\n", pad(t.ID, 6), formatTag(t, tagLabel(tags, t.ID)))
			}
			return nil
		},
	}
}
