// Package commands wires the crudgen command-line interface.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jrazmi/crudgen/app/generators/config"
	"github.com/jrazmi/crudgen/app/generators/output"
	"github.com/jrazmi/crudgen/app/generators/schema"
	"github.com/jrazmi/crudgen/app/generators/stencil"
	"github.com/jrazmi/crudgen/app/generators/templateset"
	"github.com/jrazmi/crudgen/sdk/logger"
)

// Build is stamped at link time.
var Build = "develop"

// app carries the dependencies shared by every subcommand.
type app struct {
	log   *logger.Logger
	cfg   config.Config
	out   *output.Printer
	cache *stencil.Cache
}

// NewRoot builds the crudgen command tree. cfg supplies flag defaults.
func NewRoot(log *logger.Logger, cfg config.Config) *cobra.Command {
	a := &app{log: log, cfg: cfg}

	root := &cobra.Command{
		Use:   "crudgen",
		Short: "Generate CRUD source files from entity descriptors",
		Long: `crudgen renders a complete CRUD layer for each entity descriptor:
entity, DTOs, repository, service, controller, exception and tests.

Descriptors are YAML or JSON files holding one entity or an "entities" list.
Templates are embedded; --templates points at a directory that overrides
bodies, path patterns (paths.yaml) and partials per artifact kind.

Environment variables prefixed CRUDGEN_ provide defaults for every flag.`,
		Version:       Build,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.log = a.log.WithRun(uuid.NewString())
			a.out = output.New(cmd.OutOrStdout())

			cache, err := stencil.NewCache(a.cfg.CacheSize)
			if err != nil {
				return fmt.Errorf("create template cache: %w", err)
			}
			a.cache = cache
			return nil
		},
	}

	root.AddCommand(
		a.generateCommand(),
		a.validateCommand(),
		a.reflectCommand(),
		a.templatesCommand(),
	)
	return root
}

// Execute runs the command tree against the process arguments.
func Execute(ctx context.Context, log *logger.Logger, cfg config.Config) error {
	root := NewRoot(log, cfg)
	root.SetArgs(os.Args[1:])
	return root.ExecuteContext(ctx)
}

// loadDescriptors reads and builds every descriptor in paths, in order.
func loadDescriptors(paths []string) ([]*schema.EntityDescriptor, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("at least one --descriptor is required")
	}

	var descs []*schema.EntityDescriptor
	for _, p := range paths {
		defs, err := schema.LoadFile(p)
		if err != nil {
			return nil, err
		}
		built, err := schema.Build(defs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		descs = append(descs, built...)
	}
	return descs, nil
}

// loadTemplates returns the embedded set, overlaid with dir when set.
func (a *app) loadTemplates(dir string) (*templateset.Set, error) {
	if dir == "" {
		return templateset.Default(a.cache)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("templates directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("templates directory: %s is not a directory", dir)
	}
	return templateset.FromFS(os.DirFS(dir), a.cache)
}
