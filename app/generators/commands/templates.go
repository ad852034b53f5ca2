package commands

import (
	"github.com/spf13/cobra"
)

func (a *app) templatesCommand() *cobra.Command {
	dir := a.cfg.TemplatesDir

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List artifact kinds and their output path patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.loadTemplates(dir)
			if err != nil {
				return err
			}
			a.out.Section("Artifact kinds")
			a.out.Entries(set.Entries())
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "templates", dir, "Directory overriding the embedded templates")
	return cmd
}
