// Package orchestrator validates entity descriptors and renders every artifact
// kind of a template set against them. It performs no I/O; the caller hands
// the returned artifacts to a writer.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jrazmi/crudgen/app/generators/schema"
	"github.com/jrazmi/crudgen/app/generators/templateset"
)

// Options holds the generation settings shared by every descriptor.
type Options struct {
	// BasePackage is the dotted root package of the generated sources.
	BasePackage string
}

// Artifact is one rendered output file.
type Artifact struct {
	Kind    templateset.Kind
	Path    string
	Content string
}

// Generate validates desc and, when it is consistent, renders one artifact
// per entry of set in kind order. Entries whose condition is not met are
// skipped. On a validation failure no artifact is returned.
func Generate(desc *schema.EntityDescriptor, set *templateset.Set, opts Options) ([]Artifact, error) {
	if desc == nil {
		return nil, errors.New("generate: nil descriptor")
	}
	if set == nil {
		return nil, errors.New("generate: nil template set")
	}

	if violations := Validate(desc); len(violations) > 0 {
		return nil, &DescriptorConflictError{
			Entity:     desc.CanonicalName,
			Violations: violations,
		}
	}

	entries := set.Entries()
	partials := set.Partials()
	artifacts := make([]Artifact, 0, len(entries))

	for _, e := range entries {
		// Contexts are single-use; each render gets its own projection.
		ctx := schema.BuildContext(desc, opts.BasePackage)
		if e.Condition != "" && !ctx.Truthy(e.Condition) {
			continue
		}

		artifacts = append(artifacts, Artifact{
			Kind:    e.Kind,
			Path:    e.Path.Execute(ctx, nil),
			Content: e.Body.Execute(ctx, partials),
		})
	}

	return artifacts, nil
}

// Run is the outcome of generating one descriptor within GenerateAll.
type Run struct {
	Entity    string
	Artifacts []Artifact
	Err       error
}

// GenerateAll renders independent descriptors concurrently with at most
// workers goroutines. Results keep the order of descs. A failing descriptor
// records its error in its Run and does not affect the others. When ctx is
// cancelled, descriptors not yet started report ctx.Err().
func GenerateAll(ctx context.Context, descs []*schema.EntityDescriptor, set *templateset.Set, opts Options, workers int) []Run {
	runs := make([]Run, len(descs))
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)

	for i, desc := range descs {
		if desc != nil {
			runs[i].Entity = desc.CanonicalName
		}

		if err := ctx.Err(); err != nil {
			runs[i].Err = err
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				runs[i].Err = err
				return nil
			}
			artifacts, err := Generate(desc, set, opts)
			if err != nil {
				runs[i].Err = fmt.Errorf("generate %s: %w", runs[i].Entity, err)
				return nil
			}
			runs[i].Artifacts = artifacts
			return nil
		})
	}

	// Failures are carried per Run; the group itself never errors.
	_ = g.Wait()
	return runs
}
