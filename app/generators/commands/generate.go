package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jrazmi/crudgen/app/generators/orchestrator"
	"github.com/jrazmi/crudgen/app/generators/writer"
)

type generateFlags struct {
	descriptors  []string
	outputDir    string
	basePackage  string
	templatesDir string
	force        bool
	dryRun       bool
	workers      int
}

func (a *app) generateCommand() *cobra.Command {
	f := generateFlags{
		outputDir:    a.cfg.OutputDir,
		basePackage:  a.cfg.BasePackage,
		templatesDir: a.cfg.TemplatesDir,
		force:        a.cfg.Force,
		dryRun:       a.cfg.DryRun,
		workers:      a.cfg.Workers,
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render every artifact for the given descriptors",
		Long: `Validate each descriptor, render every artifact kind and write the files.

A descriptor with any violation produces no files, and nothing is written
for the run. Existing files are left untouched unless --force is given.

Examples:
  crudgen generate -d product.yaml
  crudgen generate -d shop.yaml -o ../shop --base-package com.acme.shop
  crudgen generate -d product.yaml --templates ./my-templates --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd, f)
		},
	}

	cmd.Flags().StringSliceVarP(&f.descriptors, "descriptor", "d", nil, "Descriptor file (YAML or JSON), repeatable")
	cmd.Flags().StringVarP(&f.outputDir, "output", "o", f.outputDir, "Output root directory")
	cmd.Flags().StringVar(&f.basePackage, "base-package", f.basePackage, "Root package of the generated sources")
	cmd.Flags().StringVar(&f.templatesDir, "templates", f.templatesDir, "Directory overriding the embedded templates")
	cmd.Flags().BoolVar(&f.force, "force", f.force, "Overwrite existing files")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", f.dryRun, "Report files without writing them")
	cmd.Flags().IntVar(&f.workers, "workers", f.workers, "Descriptors rendered in parallel")
	_ = cmd.MarkFlagRequired("descriptor")

	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, f generateFlags) error {
	ctx := cmd.Context()
	started := time.Now()

	descs, err := loadDescriptors(f.descriptors)
	if err != nil {
		return err
	}

	set, err := a.loadTemplates(f.templatesDir)
	if err != nil {
		return err
	}

	a.log.InfoContext(ctx, "generating", "entities", len(descs), "workers", f.workers, "output", f.outputDir)
	runs := orchestrator.GenerateAll(ctx, descs, set, orchestrator.Options{BasePackage: f.basePackage}, f.workers)

	var (
		artifacts []orchestrator.Artifact
		failed    int
	)
	for _, run := range runs {
		if run.Err != nil {
			failed++
			a.out.Conflicts(run.Entity, run.Err)
			continue
		}
		a.out.Success("%s: %d artifact(s)", run.Entity, len(run.Artifacts))
		artifacts = append(artifacts, run.Artifacts...)
	}
	if failed > 0 {
		a.out.Summary(runs, 0, f.dryRun, time.Since(started))
		return fmt.Errorf("%d of %d descriptor(s) failed; nothing was written", failed, len(runs))
	}

	w := writer.New(a.log, writer.Config{OutputDir: f.outputDir, Force: f.force, DryRun: f.dryRun})
	result, err := w.Write(ctx, artifacts)
	if err != nil {
		return err
	}

	for _, warning := range result.Warnings {
		a.out.Warning("%s", warning)
	}
	if f.dryRun {
		for _, p := range result.Written {
			a.out.Muted("  %s", p)
		}
	}

	a.out.Summary(runs, len(result.Written), f.dryRun, time.Since(started))
	a.log.InfoContext(ctx, "generation complete", "files", len(result.Written), "dry_run", f.dryRun)
	return nil
}
