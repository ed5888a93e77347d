package gen

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
)

// TablesFile is the name of the aggregate file written to every layer.
const TablesFile = "tables.go"

// JenniferGenerator plans the generated files, renders them through an
// Emitter and writes them to disk in parallel.
type JenniferGenerator struct {
	graph   *Graph
	workers int
	outDir  string
	emitter Emitter

	mu      sync.Mutex
	metrics *WriterMetrics
}

// NewJenniferGenerator creates a new generator writing to outDir.
// You must call WithEmitter() before calling Generate().
func NewJenniferGenerator(g *Graph, outDir string) *JenniferGenerator {
	workers := runtime.GOMAXPROCS(0)
	if g.Config != nil && g.Workers > 0 {
		workers = g.Workers
	}
	return &JenniferGenerator{
		graph:   g,
		workers: workers,
		outDir:  outDir,
		metrics: &WriterMetrics{},
	}
}

// WithWorkers sets the number of parallel workers.
func (g *JenniferGenerator) WithWorkers(n int) *JenniferGenerator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// WithEmitter sets the emitter rendering the files.
func (g *JenniferGenerator) WithEmitter(e Emitter) *JenniferGenerator {
	if e != nil {
		g.emitter = e
	}
	return g
}

// Metrics returns the generation metrics.
func (g *JenniferGenerator) Metrics() WriterMetrics {
	g.mu.Lock()
	defer g.mu.Unlock()
	return *g.metrics
}

// Generate removes the previously generated layer directories and writes
// every enabled layer again.
func (g *JenniferGenerator) Generate(ctx context.Context) error {
	if g.emitter == nil {
		return NewConfigError("Emitter", nil, "no emitter set: call WithEmitter() before Generate()")
	}
	if err := g.graph.Validate(); err != nil {
		return err
	}
	tasks, err := g.plan()
	if err != nil {
		return err
	}
	if err := g.clean(); err != nil {
		return err
	}

	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.workers)
	for _, task := range tasks {
		errg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return g.writeTask(task)
			}
		})
	}
	return errg.Wait()
}

// plan lists the files of every enabled layer.
func (g *JenniferGenerator) plan() ([]fileTask, error) {
	var (
		tasks []fileTask
		gens  = []struct {
			layer Layer
			gen   func(*Type) *jen.File
		}{
			{LayerSchema, g.emitter.GenSchema},
			{LayerModel, g.emitter.GenModel},
			{LayerDistrib, g.emitter.GenDistrib},
			{LayerController, g.emitter.GenController},
		}
	)
	for _, lg := range gens {
		if !g.graph.LayerEnabled(lg.layer) {
			continue
		}
		for _, t := range g.graph.Nodes {
			tasks = append(tasks, fileTask{
				layer: lg.layer,
				name:  t.File,
				file:  func() *jen.File { return lg.gen(t) },
			})
		}
		tasks = append(tasks, fileTask{
			layer: lg.layer,
			name:  TablesFile,
			file:  func() *jen.File { return g.emitter.GenTables(lg.layer) },
		})
	}
	if g.graph.LayerEnabled(LayerSQL) {
		sources, err := g.emitter.Sources()
		if err != nil {
			return nil, NewGenerationError(string(LayerSQL), "", "reading helper sources", err)
		}
		names := make([]string, 0, len(sources))
		for name := range sources {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			tasks = append(tasks, fileTask{layer: LayerSQL, name: name, raw: sources[name]})
		}
	}
	return tasks, nil
}

// clean removes the directories of the enabled layers. Other content of
// the target directory is left alone.
func (g *JenniferGenerator) clean() error {
	for _, l := range Layers {
		if !g.graph.LayerEnabled(l) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(g.outDir, string(l))); err != nil {
			return NewGenerationError(string(l), "", "removing previous output", err)
		}
	}
	return os.MkdirAll(g.outDir, 0o755)
}

// NewFile creates a new Jennifer file for a layer with the header comment.
func (g *JenniferGenerator) NewFile(l Layer) *jen.File {
	f := jen.NewFilePath(g.graph.PkgPath(l))
	f.HeaderComment(g.graph.HeaderComment())
	return f
}

// PkgPath returns the import path of a layer.
func (g *JenniferGenerator) PkgPath(l Layer) string {
	return g.graph.PkgPath(l)
}

// Graph returns the schema graph.
func (g *JenniferGenerator) Graph() *Graph {
	return g.graph
}

var _ GeneratorHelper = (*JenniferGenerator)(nil)
