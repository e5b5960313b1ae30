package convert

import (
	"context"
	stderrors "errors"
	"io"
	"path"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nugetnpm/pkg/errors"
	"github.com/matzehuels/nugetnpm/pkg/integrations"
	"github.com/matzehuels/nugetnpm/pkg/npm"
	"github.com/matzehuels/nugetnpm/pkg/nuget"
	"github.com/matzehuels/nugetnpm/pkg/observability"
)

// Converter turns a NuGet package and its dependencies into npm packages.
type Converter struct {
	reg         Registry
	opts        Options
	logger      *log.Logger
	main        *Store
	placeholder *Store
}

// New validates opts and returns a converter. A nil logger discards output.
func New(reg Registry, opts Options, logger *log.Logger) (*Converter, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	c := &Converter{
		reg:    reg,
		opts:   opts,
		logger: logger,
		main:   NewStore(opts.PackageDir),
	}
	if opts.GeneratePlaceholders {
		c.placeholder = NewStore(opts.PlaceholderDir)
	}
	return c, nil
}

// Options returns the effective options.
func (c *Converter) Options() Options { return c.opts }

// Generate converts root and, when Options.Recursive is set, everything it
// depends on. The returned error is non-nil only if the root could not be
// converted or ctx was cancelled; the Result is always returned and holds
// whatever was done so far.
func (c *Converter) Generate(ctx context.Context, root nuget.Identity) (*Result, error) {
	w := &walk{
		Converter: c,
		visited:   make(map[string]bool),
		onStack:   make(map[string]bool),
		res:       &Result{Root: root},
	}
	w.builder = &npm.Builder{
		Names:  c.opts.Names,
		Ranges: c.opts.Ranges,
		OnDuplicate: func(name string, first, second nuget.Dependency) {
			c.logger.Warn("duplicate npm name, later dependency wins",
				"name", name, "first", first.ID, "second", second.ID)
		},
	}

	start := time.Now()
	err := w.visit(ctx, root, 0)
	observability.Convert().OnRunComplete(ctx, root.String(), len(w.res.Nodes), time.Since(start), err)
	return w.res, err
}

// walk is the state of one Generate call.
type walk struct {
	*Converter
	builder *npm.Builder
	visited map[string]bool
	onStack map[string]bool
	res     *Result
}

func (w *walk) visit(ctx context.Context, id nuget.Identity, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := id.Key()
	if w.visited[key] {
		return nil
	}
	w.visited[key] = true
	w.onStack[key] = true
	defer delete(w.onStack, key)

	node, deps, err := w.convert(ctx, id, depth)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		w.res.Failures = append(w.res.Failures, Failure{Identity: id, Err: err})
		if depth == 0 {
			return err
		}
		w.logger.Error("package skipped", "package", id, "err", err)
		return nil
	}

	if !w.opts.Recursive || len(deps) == 0 {
		return nil
	}
	if depth+1 > w.opts.MaxDepth {
		w.logger.Warn("max depth reached, dependencies not walked", "package", node.Identity, "depth", depth)
		w.res.Truncated = append(w.res.Truncated, node.Identity)
		return nil
	}

	for _, dep := range deps {
		if !dep.Range.HasLowerBound() {
			ub := UnboundedEdge{From: node.Identity, Dependency: dep}
			w.logger.Warn("dependency not walked", "package", node.Identity, "err", ub.Err())
			w.res.Unbounded = append(w.res.Unbounded, ub)
			continue
		}

		child := nuget.Identity{ID: dep.ID, Version: *dep.Range.Min}
		edge := Edge{From: node.Identity, To: child}
		w.res.Edges = append(w.res.Edges, edge)

		if w.onStack[child.Key()] {
			w.logger.Warn("dependency cycle", "from", node.Identity, "to", child)
			w.res.Cycles = append(w.res.Cycles, edge)
			continue
		}
		if err := w.visit(ctx, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// convert fetches everything for id, then writes its outputs. It returns
// the kept dependencies for recursion.
func (w *walk) convert(ctx context.Context, id nuget.Identity, depth int) (node *Node, deps []nuget.Dependency, err error) {
	key := id.Key()
	hooks := observability.Convert()
	hooks.OnPackageStart(ctx, key)
	start := time.Now()
	defer func() {
		hooks.OnPackageComplete(ctx, key, node != nil && node.Written, time.Since(start), err)
	}()

	w.logger.Debug("converting", "package", id, "depth", depth)

	if err := errors.ValidatePackageID(id.ID); err != nil {
		return nil, nil, err
	}

	info, err := w.reg.GetDependencyInfo(ctx, id)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeResolution, err, "resolve %s", id)
	}
	ident := info.Identity
	if ident.ID == "" {
		ident = id
	}
	if err := errors.ValidatePackageID(ident.ID); err != nil {
		return nil, nil, err
	}

	meta, err := w.reg.GetMetadata(ctx, ident)
	if err != nil {
		if !stderrors.Is(err, integrations.ErrNotFound) {
			return nil, nil, errors.Wrap(errors.ErrCodeResolution, err, "metadata %s", ident)
		}
		w.logger.Debug("no metadata", "package", ident)
		meta = nuget.Metadata{}
	}

	node = &Node{Identity: ident, Depth: depth}
	group, matched := info.SelectGroup(w.opts.AllowedFrameworks)
	if matched {
		node.Framework, node.Matched = group.Framework, true
		for _, d := range group.Dependencies {
			if w.opts.Filter.IsExcluded(d) {
				w.logger.Debug("dependency excluded", "package", ident, "dependency", d.ID)
				continue
			}
			deps = append(deps, d)
		}
	} else {
		w.logger.Debug("no dependency group for allowed frameworks", "package", ident)
	}

	manifest := w.builder.Build(ident, meta, deps)
	node.Name = manifest.Name
	node.Dependencies = len(manifest.Dependencies)
	if err := errors.ValidateNpmPackageName(manifest.Name); err != nil {
		w.logger.Warn("mapped name is not a valid npm name", "package", ident, "name", manifest.Name)
	}
	data, err := manifest.Marshal()
	if err != nil {
		return nil, nil, err
	}

	dir := ident.Dir()
	manifestPath := path.Join(dir, w.opts.ManifestName)

	writeMain := true
	if w.opts.PreserveExisting {
		exists, err := w.main.Exists(ctx, manifestPath)
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "check %s", w.main.URL(manifestPath))
		}
		writeMain = !exists
	}
	writePlaceholder := w.placeholder != nil
	if writePlaceholder && w.opts.PreserveExisting {
		exists, err := w.placeholder.Exists(ctx, manifestPath)
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "check %s", w.placeholder.URL(manifestPath))
		}
		writePlaceholder = !exists
	}

	var archive nuget.PackageReader
	if writeMain && matched {
		if archive, err = w.reg.FetchArchive(ctx, ident); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeResolution, err, "fetch archive %s", ident)
		}
	}

	// All data is in hand; from here on only writes.
	w.res.Nodes = append(w.res.Nodes, node)

	if writeMain {
		if err := ctx.Err(); err != nil {
			return node, nil, err
		}
		if err := w.main.WriteFile(ctx, manifestPath, data); err != nil {
			return node, nil, errors.Wrap(errors.ErrCodeInternal, err, "write %s", w.main.URL(manifestPath))
		}
		node.Written = true
		w.logger.Info("package written", "package", ident, "name", manifest.Name)

		if archive != nil {
			if err := w.copyPayload(ctx, node, dir, archive); err != nil {
				return node, nil, err
			}
		}
	} else {
		node.Preserved = true
		w.logger.Info("package preserved", "package", ident)
	}

	if writePlaceholder {
		if err := ctx.Err(); err != nil {
			return node, nil, err
		}
		if err := w.placeholder.WriteFile(ctx, manifestPath, data); err != nil {
			return node, nil, errors.Wrap(errors.ErrCodeInternal, err, "write %s", w.placeholder.URL(manifestPath))
		}
		node.Placeholder = true
		w.logger.Debug("placeholder written", "package", ident)
	}

	return node, deps, nil
}
