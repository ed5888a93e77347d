package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"
)

// WriterMetrics tracks generation performance
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
	RenderTime     time.Duration
	FormatTime     time.Duration
	WriteTime      time.Duration
}

// fileTask represents a single file generation task.
type fileTask struct {
	layer Layer
	name  string           // file name inside the layer directory
	file  func() *jen.File // renders the file; nil for raw tasks
	raw   []byte           // written as is when file is nil
}

// writeTask renders, formats and writes one file.
func (g *JenniferGenerator) writeTask(task fileTask) error {
	fullPath := filepath.Join(g.outDir, string(task.layer), task.name)
	var (
		out    = task.raw
		render time.Duration
		format time.Duration
	)
	if task.file != nil {
		// 1. Render
		start := time.Now()
		f := task.file()
		if f == nil {
			return NewGenerationError(string(task.layer), task.name, "emitter returned no file", nil)
		}
		var buf bytes.Buffer
		if err := f.Render(&buf); err != nil {
			return NewGenerationError(string(task.layer), task.name, "render", err)
		}
		render = time.Since(start)

		// 2. Format using goimports
		start = time.Now()
		formatted, err := imports.Process(fullPath, buf.Bytes(), nil)
		if err != nil {
			// Write unformatted file for debugging (errors intentionally ignored as we're already in error state)
			debugPath := fullPath + ".error"
			_ = os.MkdirAll(filepath.Dir(debugPath), 0o755)
			_ = os.WriteFile(debugPath, buf.Bytes(), 0o644)
			return NewGenerationError(string(task.layer), task.name, fmt.Sprintf("format (unformatted written to %s)", debugPath), err)
		}
		format = time.Since(start)
		out = formatted
	}

	// 3. Write
	start := time.Now()
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return NewGenerationError(string(task.layer), task.name, "create directory", err)
	}
	if err := os.WriteFile(fullPath, out, 0o644); err != nil {
		return NewGenerationError(string(task.layer), task.name, "write", err)
	}

	g.mu.Lock()
	g.metrics.FilesGenerated++
	g.metrics.TotalBytes += int64(len(out))
	g.metrics.RenderTime += render
	g.metrics.FormatTime += format
	g.metrics.WriteTime += time.Since(start)
	g.mu.Unlock()
	return nil
}
