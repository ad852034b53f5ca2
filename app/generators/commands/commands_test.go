package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrazmi/crudgen/app/generators/config"
	"github.com/jrazmi/crudgen/app/generators/schema"
	"github.com/jrazmi/crudgen/app/generators/writer"
	"github.com/jrazmi/crudgen/sdk/logger"
)

const productDescriptor = `
name: Product
fields:
  - name: title
    type: String
    validation: [NotBlank]
  - name: price
    type: BigDecimal
subsets:
  create: [title, price]
  update: [title, price]
  response: [title, price]
`

const brokenDescriptor = `
name: Order
fields:
  - name: total
    type: BigDecimal
subsets:
  create: [total, missing]
`

func writeDescriptor(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, cfg config.Config, args ...string) (string, error) {
	t.Helper()
	root := NewRoot(logger.NewDiscard(), cfg)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func testConfig(outputDir string) config.Config {
	return config.Config{
		BasePackage: "com.example",
		OutputDir:   outputDir,
		Workers:     2,
		CacheSize:   32,
	}
}

func TestGenerateWritesArtifacts(t *testing.T) {
	outDir := t.TempDir()
	desc := writeDescriptor(t, "product.yaml", productDescriptor)

	out, err := execute(t, testConfig(outDir), "generate", "-d", desc)
	require.NoError(t, err)
	assert.Contains(t, out, "Product")

	entity, err := os.ReadFile(filepath.Join(outDir, "src/main/java/com/example/domain/product/entity/Product.java"))
	require.NoError(t, err)
	assert.Contains(t, string(entity), "class Product")

	_, err = os.Stat(filepath.Join(outDir, "src/main/java/com/example/domain/product/dto/ProductResponse.java"))
	assert.NoError(t, err)
}

func TestGenerateBasePackageFlag(t *testing.T) {
	outDir := t.TempDir()
	desc := writeDescriptor(t, "product.yaml", productDescriptor)

	_, err := execute(t, testConfig(outDir), "generate", "-d", desc, "--base-package", "com.acme.shop")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(outDir, "src/main/java/com/acme/shop/domain/product/entity/Product.java"))
	assert.NoError(t, err)
}

func TestGenerateRefusesExistingFiles(t *testing.T) {
	outDir := t.TempDir()
	desc := writeDescriptor(t, "product.yaml", productDescriptor)

	_, err := execute(t, testConfig(outDir), "generate", "-d", desc)
	require.NoError(t, err)

	_, err = execute(t, testConfig(outDir), "generate", "-d", desc)
	var existing *writer.ExistingFilesError
	require.True(t, errors.As(err, &existing), "got %v", err)
	assert.NotEmpty(t, existing.Paths)

	out, err := execute(t, testConfig(outDir), "generate", "-d", desc, "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "overwrote")
}

func TestGenerateDryRunWritesNothing(t *testing.T) {
	outDir := t.TempDir()
	desc := writeDescriptor(t, "product.yaml", productDescriptor)

	out, err := execute(t, testConfig(outDir), "generate", "-d", desc, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "ProductController.java")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerateFailedDescriptorWritesNothing(t *testing.T) {
	outDir := t.TempDir()
	good := writeDescriptor(t, "product.yaml", productDescriptor)
	bad := writeDescriptor(t, "order.yaml", brokenDescriptor)

	out, err := execute(t, testConfig(outDir), "generate", "-d", good, "-d", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing was written")
	assert.Contains(t, out, "unknown-subset-field")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerateRequiresDescriptor(t *testing.T) {
	_, err := execute(t, testConfig(t.TempDir()), "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "descriptor")
}

func TestGenerateTemplateOverrides(t *testing.T) {
	outDir := t.TempDir()
	tmplDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmplDir, "entity.tmpl"), []byte("entity {{EntityName}}\n"), 0o644))
	desc := writeDescriptor(t, "product.yaml", productDescriptor)

	_, err := execute(t, testConfig(outDir), "generate", "-d", desc, "--templates", tmplDir)
	require.NoError(t, err)

	entity, err := os.ReadFile(filepath.Join(outDir, "src/main/java/com/example/domain/product/entity/Product.java"))
	require.NoError(t, err)
	assert.Equal(t, "entity Product\n", string(entity))
}

func TestValidateCommand(t *testing.T) {
	good := writeDescriptor(t, "product.yaml", productDescriptor)
	bad := writeDescriptor(t, "order.yaml", brokenDescriptor)

	out, err := execute(t, testConfig(t.TempDir()), "validate", "-d", good)
	require.NoError(t, err)
	assert.Contains(t, out, "Product: ok")

	out, err = execute(t, testConfig(t.TempDir()), "validate", "-d", good, "-d", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, out, "unknown-subset-field")
}

func TestValidateUnreadableDescriptor(t *testing.T) {
	_, err := execute(t, testConfig(t.TempDir()), "validate", "-d", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestTemplatesCommand(t *testing.T) {
	out, err := execute(t, testConfig(t.TempDir()), "templates")
	require.NoError(t, err)
	assert.Contains(t, out, "entity")
	assert.Contains(t, out, "hasBaseEntity")
}

func TestTemplatesCommandMissingDir(t *testing.T) {
	_, err := execute(t, testConfig(t.TempDir()), "templates", "--templates", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestReflectRejectsNameWithoutTable(t *testing.T) {
	_, err := execute(t, testConfig(t.TempDir()), "reflect", "--name", "Thing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--name requires --table")
}

func TestReflectFormat(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		outFile string
		want    schema.Format
		wantErr bool
	}{
		{name: "default", want: schema.FormatYAML},
		{name: "flag json", flag: "json", want: schema.FormatJSON},
		{name: "flag yml", flag: "yml", want: schema.FormatYAML},
		{name: "from extension", outFile: "out.json", want: schema.FormatJSON},
		{name: "flag wins", flag: "yaml", outFile: "out.json", want: schema.FormatYAML},
		{name: "unknown flag", flag: "toml", wantErr: true},
		{name: "unknown extension", outFile: "out.txt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reflectFormat(tt.flag, tt.outFile)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateSharesAuditingSupportFiles(t *testing.T) {
	outDir := t.TempDir()
	desc := writeDescriptor(t, "shop.yaml", `
entities:
  - name: Product
    flags:
      auditing: true
    fields:
      - {name: title, type: String}
  - name: Customer
    flags:
      auditing: true
    fields:
      - {name: email, type: String}
`)

	_, err := execute(t, testConfig(outDir), "generate", "-d", desc)
	require.NoError(t, err)

	config, err := os.ReadFile(filepath.Join(outDir, "src/main/java/com/example/common/config/JpaAuditingConfig.java"))
	require.NoError(t, err)
	assert.Contains(t, string(config), "@EnableJpaAuditing")

	_, err = os.Stat(filepath.Join(outDir, "src/main/java/com/example/common/domain/BaseEntity.java"))
	assert.NoError(t, err)
}

func TestWriteDefinitions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.json")
	defs := []schema.Definition{
		{Name: "Product", Fields: []schema.FieldSpec{{Name: "title", Type: "String"}}},
		{Name: "Customer", Fields: []schema.FieldSpec{{Name: "email", Type: "String"}}},
	}

	require.NoError(t, writeDefinitions(path, schema.FormatJSON, defs))

	loaded, err := schema.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Product", loaded[0].Name)
	assert.Equal(t, "email", loaded[1].Fields[0].Name)

	err = writeDefinitions(filepath.Join(t.TempDir(), "missing", "out.yaml"), schema.FormatYAML, defs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create")
}
