// cmd/classgen generates record classes from JSON Schema documents.
//
// Each schema's root object becomes a class, and every nested object schema
// becomes an auxiliary class. Untitled objects are named DataClass1,
// DataClass2, ... and the numbering continues across all files of one run
// unless -fresh is given.
//
// Usage:
//
//	classgen [-target python|go] [-package name] [-o path] [-fresh] schema.json...
//
// With a single input, -o names the output file. With several, -o names a
// directory that receives one file per input. Without -o, sources go to
// stdout. "-" reads a schema from stdin.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/matthewbaird/schemagen/internal/analyzer"
	"github.com/matthewbaird/schemagen/internal/generator"
	"github.com/matthewbaird/schemagen/internal/render"
)

func main() {
	os.Exit(runWithArgs(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func runWithArgs(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "classgen: ", 0)
	fs := flag.NewFlagSet("classgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	target := fs.String("target", render.DefaultTarget, "output language: "+strings.Join(render.Names(), ", "))
	pkg := fs.String("package", render.DefaultPackage, "package name for the go target")
	out := fs.String("o", "", "output file, or directory when several schemas are given")
	fresh := fs.Bool("fresh", false, "restart class numbering for every schema")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: classgen [flags] schema.json...\n\nGenerates record classes from JSON Schema documents.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	inputs := fs.Args()
	if len(inputs) == 0 {
		logger.Print("at least one schema file is required")
		fs.Usage()
		return 2
	}

	r, err := render.Lookup(*target, render.Options{Package: *pkg})
	if err != nil {
		logger.Print(err)
		return 2
	}

	paths, err := outputPaths(*out, inputs, r.Name())
	if err != nil {
		logger.Print(err)
		return 2
	}

	gen := generator.New()
	scope := analyzer.NewScope()
	ctx := context.Background()

	for i, in := range inputs {
		data, err := readInput(in, stdin)
		if err != nil {
			logger.Print(err)
			return 1
		}
		if *fresh {
			scope = analyzer.NewScope()
		}

		res, err := gen.Generate(ctx, generator.Request{
			Schema:  data,
			Target:  r.Name(),
			Package: *pkg,
			Scope:   scope,
		})
		if err != nil {
			logger.Printf("%s: %v", in, err)
			return 1
		}

		if err := writeOutput(paths[i], res.Source, stdout); err != nil {
			logger.Print(err)
			return 1
		}
		logger.Printf("%s: %s", in, strings.Join(res.Classes, ", "))
	}
	return 0
}

func readInput(name string, stdin io.Reader) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}

var extensions = map[string]string{"python": ".py", "go": ".go"}

// outputPaths picks the file each input is written to. An empty path means
// stdout. Two inputs sharing a base name would overwrite each other, so that
// is refused before anything is generated.
func outputPaths(out string, inputs []string, target string) ([]string, error) {
	paths := make([]string, len(inputs))
	if out == "" {
		return paths, nil
	}
	if len(inputs) == 1 {
		paths[0] = out
		return paths, nil
	}

	seen := make(map[string]string, len(inputs))
	for i, in := range inputs {
		if in == "-" {
			return nil, errors.New("cannot name an output file for stdin; run it on its own")
		}
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		path := filepath.Join(out, base+extensions[target])
		if prev, ok := seen[path]; ok {
			return nil, fmt.Errorf("%s and %s both write %s", prev, in, path)
		}
		seen[path] = in
		paths[i] = path
	}
	return paths, nil
}

func writeOutput(path, src string, stdout io.Writer) error {
	if path == "" {
		_, err := io.WriteString(stdout, src)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(src), 0o644)
}
