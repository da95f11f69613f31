//
// Tencent is pleased to support the open source community by making trpc-blocks-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-blocks-go is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/panjf2000/ants/v2"
	"gopkg.in/urfave/cli.v1"

	"trpc.group/trpc-go/trpc-blocks-go/block"
	"trpc.group/trpc-go/trpc-blocks-go/compiler"
	"trpc.group/trpc-go/trpc-blocks-go/graph"
	"trpc.group/trpc-go/trpc-blocks-go/log"
)

// SourceExt is the extension of generated files.
const SourceExt = ".por"

var errNoInputs = errors.New("no input files matched")

var compileCommand = cli.Command{
	Name:      "compile",
	Usage:     "Compile saved graphs (.json or .msgpack) to Portugol",
	ArgsUsage: "<file or glob>...",
	Flags: []cli.Flag{
		catalogFlag,
		cli.StringFlag{Name: "out, o", Usage: "output directory (default: next to each input)"},
		cli.BoolFlag{Name: "stdout", Usage: "print the generated source instead of writing files"},
		cli.BoolFlag{Name: "json", Usage: "print full results as JSON"},
		cli.BoolFlag{Name: "strict", Usage: "fail on data-flow cycles"},
		cli.BoolFlag{Name: "chain-roots", Usage: "let any chain-capable block start a program"},
		cli.IntFlag{Name: "workers, w", Usage: "number of files compiled in parallel (default from config)"},
	},
	Action: runCompile,
	Description: `Each input is a saved graph: either {"blocks": [...]} or a bare array of
   block records. Globs support ** (for example "graphs/**/*.json").`,
}

type compileJob struct {
	idx     int
	ctx     context.Context
	path    string
	output  string // empty when nothing is written
	c       *compiler.Compiler
	res     block.Resolver
	results []fileResult
	wg      *sync.WaitGroup
}

type fileResult struct {
	Path   string           `json:"path"`
	Output string           `json:"output,omitempty"`
	Result *compiler.Result `json:"result,omitempty"`
	Err    string           `json:"error,omitempty"`
}

func runCompile(ctx *cli.Context) error {
	cfg := appConfig(ctx)
	if ctx.Bool("strict") {
		cfg.Compiler.StrictCycles = true
	}
	if ctx.Bool("chain-roots") {
		cfg.Compiler.ChainCapableRoots = true
	}
	workers := cfg.CLI.Workers
	if ctx.IsSet("workers") {
		workers = ctx.Int("workers")
	}

	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	inputs, err := expandInputs(ctx.Args())
	if err != nil {
		return err
	}

	toStdout := ctx.Bool("stdout") || ctx.Bool("json")
	results, err := compileAll(context.Background(), inputs, compileSettings{
		workers:  workers,
		outDir:   ctx.String("out"),
		write:    !toStdout,
		compiler: compiler.New(compilerOptions(cfg.Compiler)...),
		resolver: cat,
	})
	if err != nil {
		return err
	}

	out := ctx.App.Writer
	if ctx.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		report(out, ctx.App.ErrWriter, results, ctx.Bool("stdout"))
	}

	failed := 0
	for _, r := range results {
		if r.Err != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

// expandInputs resolves file names and doublestar globs, keeping first-seen
// order and dropping duplicates.
func expandInputs(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		for _, m := range matches {
			if fi, err := os.Stat(m); err != nil || fi.IsDir() {
				continue
			}
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	if len(files) == 0 {
		return nil, errNoInputs
	}
	return files, nil
}

type compileSettings struct {
	workers  int
	outDir   string
	write    bool
	compiler *compiler.Compiler
	resolver block.Resolver
}

// compileAll compiles every input on an ants pool. Results keep input order.
// An input whose output file is already claimed by an earlier input fails
// without being compiled.
func compileAll(ctx context.Context, inputs []string, s compileSettings) ([]fileResult, error) {
	if s.workers <= 0 {
		s.workers = 1
	}
	if s.outDir != "" && s.write {
		if err := os.MkdirAll(s.outDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	pool, err := ants.NewPoolWithFunc(s.workers, func(args any) {
		job, ok := args.(*compileJob)
		if !ok {
			panic("compile pool args type error")
		}
		defer job.wg.Done()
		job.results[job.idx] = job.run()
	})
	if err != nil {
		return nil, fmt.Errorf("create compile pool: %w", err)
	}
	defer pool.Release()

	results := make([]fileResult, len(inputs))
	claimed := make(map[string]string)
	var wg sync.WaitGroup
	for i, path := range inputs {
		var output string
		if s.write {
			output = outputPath(path, s.outDir)
			key := filepath.Clean(output)
			if prev, ok := claimed[key]; ok {
				results[i] = fileResult{
					Path: path,
					Err:  fmt.Sprintf("output %s is already written by %s", output, prev),
				}
				continue
			}
			claimed[key] = path
		}
		wg.Add(1)
		job := &compileJob{
			idx:     i,
			ctx:     ctx,
			path:    path,
			output:  output,
			c:       s.compiler,
			res:     s.resolver,
			results: results,
			wg:      &wg,
		}
		if err := pool.Invoke(job); err != nil {
			wg.Done()
			results[i] = fileResult{Path: path, Err: err.Error()}
		}
	}
	wg.Wait()
	return results, nil
}

func (j *compileJob) run() fileResult {
	r := fileResult{Path: j.path}
	states, err := graph.ReadFile(j.path)
	if err != nil {
		r.Err = err.Error()
		return r
	}
	res, err := j.c.CompileStates(j.ctx, j.res, states)
	if err != nil {
		r.Err = err.Error()
		return r
	}
	r.Result = res
	if j.output == "" {
		return r
	}
	r.Output = j.output
	if err := os.WriteFile(r.Output, []byte(res.Source+"\n"), 0o644); err != nil {
		r.Err = fmt.Sprintf("write %s: %v", r.Output, err)
		r.Output = ""
	}
	return r
}

// outputPath maps an input file to its generated source file.
func outputPath(input, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + SourceExt
	if outDir == "" {
		return filepath.Join(filepath.Dir(input), base)
	}
	return filepath.Join(outDir, base)
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	okColor      = color.New(color.FgGreen)
)

func severityColor(s compiler.Severity) *color.Color {
	switch s {
	case compiler.SeverityError:
		return errorColor
	case compiler.SeverityWarning:
		return warningColor
	default:
		return infoColor
	}
}

// report prints sources or written paths to out and diagnostics to errOut.
func report(out, errOut io.Writer, results []fileResult, printSource bool) {
	for _, r := range results {
		if r.Err != "" {
			errorColor.Fprintf(errOut, "%s: %s\n", r.Path, r.Err)
			continue
		}
		for _, d := range r.Result.Diagnostics {
			severityColor(d.Severity).Fprintf(errOut, "%s: %s\n", r.Path, d)
		}
		switch {
		case printSource:
			if len(results) > 1 {
				fmt.Fprintf(out, "// %s\n", r.Path)
			}
			fmt.Fprintln(out, r.Result.Source)
		case r.Output != "":
			okColor.Fprintf(out, "%s -> %s\n", r.Path, r.Output)
			log.Debugf("compiled %s with %d diagnostics", r.Path, len(r.Result.Diagnostics))
		}
	}
}
