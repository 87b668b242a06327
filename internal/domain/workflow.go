package domain

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"gridpatch.dev/pkg/gridpatch/internal/adapter"
	"gridpatch.dev/pkg/gridpatch/internal/controller"
	m "gridpatch.dev/pkg/gridpatch/internal/model"
)

// Workflow ties the pipeline together: parse inputs, merge, expand the grid
// and write one output document per combination.
type Workflow interface {
	// Patch applies a patch document to a base document, expands grid axes
	// and writes the outputs. Returns the written filenames in combination
	// order.
	Patch(ctx context.Context, args PatchArgs) ([]string, error)

	// Expand expands grid-marked keys found inline in a single document.
	Expand(ctx context.Context, args ExpandArgs) ([]string, error)

	// Plan reports the grid axes and combination count without writing
	// anything.
	Plan(ctx context.Context, args PlanArgs) error
}

// PatchArgs holds the inputs for Workflow.Patch.
type PatchArgs struct {
	Base       m.FilePath
	Patch      m.FilePath
	Output     m.FilePath
	GridTag    string
	ShortNames bool
	Indexed    bool
	Threads    int
}

// ExpandArgs holds the inputs for Workflow.Expand.
type ExpandArgs struct {
	Base       m.FilePath
	Output     m.FilePath
	GridTag    string
	ShortNames bool
	Indexed    bool
	Threads    int
}

// PlanArgs holds the inputs for Workflow.Plan.
type PlanArgs struct {
	Base    m.FilePath
	Patch   m.FilePath
	GridTag string
}

type workflow struct {
	codec adapter.Codec
	store adapter.OutputStore
	ui    controller.UI
}

// NewWorkflow creates a Workflow backed by the given codec, store and UI.
func NewWorkflow(codec adapter.Codec, store adapter.OutputStore, ui controller.UI) Workflow {
	return &workflow{codec: codec, store: store, ui: ui}
}

func (w *workflow) Patch(ctx context.Context, args PatchArgs) ([]string, error) {
	base, err := w.loadDocument(args.Base)
	if err != nil {
		return nil, err
	}

	patch, err := w.loadDocument(args.Patch)
	if err != nil {
		return nil, err
	}

	merged := base.DeepCopy()

	axes, err := NewMerger(args.GridTag).Merge(merged, patch)
	if err != nil {
		return nil, err
	}

	return w.writeVariants(ctx, merged, axes, baseValuesAt(base, axes), variantArgs{
		Output:     args.Output,
		Stem:       w.store.Stem(args.Base),
		Ext:        w.outputExtension(args.Base),
		ShortNames: args.ShortNames,
		Indexed:    args.Indexed,
		Threads:    args.Threads,
	})
}

func (w *workflow) Expand(ctx context.Context, args ExpandArgs) ([]string, error) {
	base, err := w.loadDocument(args.Base)
	if err != nil {
		return nil, err
	}

	axes, err := NewMerger(args.GridTag).ExtractGrids(base)
	if err != nil {
		return nil, err
	}

	return w.writeVariants(ctx, base, axes, baseValuesAt(base, axes), variantArgs{
		Output:     args.Output,
		Stem:       w.store.Stem(args.Base),
		Ext:        w.outputExtension(args.Base),
		ShortNames: args.ShortNames,
		Indexed:    args.Indexed,
		Threads:    args.Threads,
	})
}

func (w *workflow) Plan(ctx context.Context, args PlanArgs) error {
	base, err := w.loadDocument(args.Base)
	if err != nil {
		return err
	}

	patch, err := w.loadDocument(args.Patch)
	if err != nil {
		return err
	}

	merged := base.DeepCopy()

	axes, err := NewMerger(args.GridTag).Merge(merged, patch)
	if err != nil {
		return err
	}

	return w.ui.DisplayPlan(ctx, axes, NewCombinations(axes).Len())
}

// variantArgs carries the output naming and writing knobs shared by Patch
// and Expand.
type variantArgs struct {
	Output     m.FilePath
	Stem       string
	Ext        string
	ShortNames bool
	Indexed    bool
	Threads    int
}

// writeVariants materializes, names and writes one document per assignment.
// The merged base is read-only from here on; every worker deep-copies it.
// Writing is fail-fast: the first write error cancels the remaining
// combinations so the exit status stays deterministic.
func (w *workflow) writeVariants(ctx context.Context, merged m.Document, axes []m.GridAxis, baseValues map[string]*yaml.Node, args variantArgs) ([]string, error) {
	if err := w.store.EnsureDir(args.Output); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", args.Output, err)
	}

	combos := NewCombinations(axes)
	assignments := combos.All()
	names := make([]string, len(assignments))

	for i, assignment := range assignments {
		opts := NameOptions{ShortNames: args.ShortNames, Index: -1}
		if args.Indexed {
			opts.Index = i
		}

		names[i] = EncodeName(assignment, args.Stem, baseValues, opts) + args.Ext
	}

	slog.Info("expanding grid", "axes", len(axes), "combinations", len(assignments), "output", args.Output)

	if err := w.ui.Start(ctx, len(assignments)); err != nil {
		return nil, err
	}

	threads := args.Threads
	if threads < 1 {
		threads = 1
	}

	var written atomic.Int64

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for i := range assignments {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			variant := Materialize(merged, assignments[i])

			data, err := w.codec.Serialize(variant)
			if err != nil {
				return fmt.Errorf("serialize %s: %w", names[i], err)
			}

			target := w.store.JoinPath(string(args.Output), names[i])
			if err := w.store.WriteFile(target, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}

			slog.Debug("wrote variant", "name", names[i])
			w.ui.FileWritten(groupCtx, names[i], int(written.Add(1)), len(assignments))

			return nil
		})
	}

	err := group.Wait()

	w.ui.Close(ctx)
	w.ui.Wait(ctx)

	if err != nil {
		return nil, err
	}

	w.ui.DisplayWritten(ctx, names)

	return names, nil
}

func (w *workflow) loadDocument(path m.FilePath) (m.Document, error) {
	data, err := w.store.ReadFile(path)
	if err != nil {
		return m.Document{}, fmt.Errorf("read %s: %w", path, err)
	}

	doc, err := w.codec.Parse(data)
	if err != nil {
		return m.Document{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return doc, nil
}

// baseValuesAt captures the base document's original values at the axis
// paths, keyed by dotted path. Missing paths are simply absent; the namer
// falls back to rendering the raw value.
func baseValuesAt(base m.Document, axes []m.GridAxis) map[string]*yaml.Node {
	values := make(map[string]*yaml.Node, len(axes))

	for _, axis := range axes {
		if node, ok := base.Get(axis.Path); ok {
			values[axis.Path.Dotted()] = node
		}
	}

	return values
}

// outputExtension matches the output files to the input format, falling back
// to the codec default for extensionless inputs.
func (w *workflow) outputExtension(input m.FilePath) string {
	if ext := w.store.Extension(input); ext != "" {
		return ext
	}

	return w.codec.Extension()
}
