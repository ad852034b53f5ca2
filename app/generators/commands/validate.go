package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jrazmi/crudgen/app/generators/orchestrator"
)

func (a *app) validateCommand() *cobra.Command {
	var descriptors []string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check descriptors without rendering",
		Long: `Run the pre-flight consistency checks and print every violation.

Examples:
  crudgen validate -d product.yaml -d order.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			descs, err := loadDescriptors(descriptors)
			if err != nil {
				return err
			}

			var failed int
			for _, desc := range descs {
				violations := orchestrator.Validate(desc)
				if len(violations) == 0 {
					a.out.Success("%s: ok", desc.CanonicalName)
					continue
				}
				failed++
				a.out.Conflicts(desc.CanonicalName, &orchestrator.DescriptorConflictError{
					Entity:     desc.CanonicalName,
					Violations: violations,
				})
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d descriptor(s) have violations", failed, len(descs))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&descriptors, "descriptor", "d", nil, "Descriptor file (YAML or JSON), repeatable")
	_ = cmd.MarkFlagRequired("descriptor")
	return cmd
}
