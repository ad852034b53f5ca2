package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jrazmi/crudgen/app/generators/config"
	"github.com/jrazmi/crudgen/app/generators/schema"
	"github.com/jrazmi/crudgen/infrastructure/postgresdb"
	schemareflector "github.com/jrazmi/crudgen/schema/reflector"
)

type reflectFlags struct {
	dbURL      string
	schemaName string
	table      string
	name       string
	outFile    string
	format     string
}

func (a *app) reflectCommand() *cobra.Command {
	var f reflectFlags

	cmd := &cobra.Command{
		Use:   "reflect",
		Short: "Write a descriptor from a live PostgreSQL table",
		Long: `Read table metadata from PostgreSQL and emit an entity descriptor.

The connection URL comes from --db or CRUDGEN_PG_DATABASE_URL. Without
--table every base table of the schema is reflected into an "entities" list.

Examples:
  crudgen reflect --table products -o product.yaml
  crudgen reflect --table order_items --name LineItem --format json
  crudgen reflect --schema inventory -o inventory.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReflect(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.dbURL, "db", "", "Database connection URL")
	cmd.Flags().StringVar(&f.schemaName, "schema", "public", "Schema to read")
	cmd.Flags().StringVarP(&f.table, "table", "t", "", "Table to reflect (default: all tables)")
	cmd.Flags().StringVar(&f.name, "name", "", "Canonical entity name (default: derived from the table)")
	cmd.Flags().StringVarP(&f.outFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&f.format, "format", "", "yaml or json (default: from the output extension, else yaml)")

	return cmd
}

func (a *app) runReflect(cmd *cobra.Command, f reflectFlags) error {
	ctx := cmd.Context()

	if f.name != "" && f.table == "" {
		return fmt.Errorf("--name requires --table")
	}

	format, err := reflectFormat(f.format, f.outFile)
	if err != nil {
		return err
	}

	var opts []postgresdb.Option
	if f.dbURL != "" {
		opts = append(opts, postgresdb.WithDatabaseURL(f.dbURL))
	}
	pool, err := postgresdb.NewFromEnv(ctx, config.Prefix, a.log, opts...)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	r := schemareflector.NewReflector(schemareflector.NewPostgresStore(pool), a.log)

	var defs []schema.Definition
	if f.table != "" {
		def, err := r.ReflectTable(ctx, f.schemaName, f.table, f.name)
		if err != nil {
			return err
		}
		defs = append(defs, def)
	} else {
		defs, err = r.ReflectSchema(ctx, f.schemaName)
		if err != nil {
			return err
		}
		if len(defs) == 0 {
			a.out.Warning("no tables found in schema %s", f.schemaName)
			return nil
		}
	}

	if f.outFile == "" {
		if err := schema.Encode(cmd.OutOrStdout(), format, defs...); err != nil {
			return fmt.Errorf("encode descriptor: %w", err)
		}
		return nil
	}

	if err := writeDefinitions(f.outFile, format, defs); err != nil {
		return err
	}
	a.out.Success("wrote %d entit(ies) to %s", len(defs), f.outFile)
	return nil
}

// writeDefinitions encodes defs into a new file at path. A failed close is
// returned as the error.
func writeDefinitions(path string, format schema.Format, defs []schema.Definition) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if err := schema.Encode(file, format, defs...); err != nil {
		return fmt.Errorf("encode descriptor: %w", err)
	}
	return nil
}

// reflectFormat resolves the output format from the flag or the file name.
func reflectFormat(flag, outFile string) (schema.Format, error) {
	switch flag {
	case "yaml", "yml":
		return schema.FormatYAML, nil
	case "json":
		return schema.FormatJSON, nil
	case "":
		if outFile == "" {
			return schema.FormatYAML, nil
		}
		return schema.FormatFromPath(outFile)
	}
	return "", fmt.Errorf("unsupported format %q", flag)
}
