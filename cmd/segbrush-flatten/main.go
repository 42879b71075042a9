package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

const helpBanner = `
segbrush-flatten: replay a stroke file over a base image and write the PNG.

Usage: segbrush-flatten -in base.png -strokes strokes.json -out out.png [-legend legend.csv]

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

const (
	colorReset = "\x1b[0m"
	colorError = "\x1b[31m"
	colorOK    = "\x1b[32m"
)

var (
	source      = flag.String("in", pipeName, "Base image (PNG/JPEG)")
	strokesPath = flag.String("strokes", "", "Stroke file (JSON)")
	destination = flag.String("out", pipeName, "Destination PNG")
	legendPath  = flag.String("legend", "", "Class legend CSV (default: built-in ADE20K)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, helpBanner)
		flag.PrintDefaults()
	}
	flag.Parse()

	now := time.Now()
	drawn, err := run(*source, *strokesPath, *destination, *legendPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, decorate("Error: "+err.Error(), colorError))
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, decorate(fmt.Sprintf("%d strokes flattened in %s", drawn, time.Since(now).Round(time.Millisecond)), colorOK))
}

func run(in, strokes, out, legend string) (int, error) {
	if strokes == "" {
		return 0, errors.New("-strokes is required")
	}
	if in == pipeName && strokes == pipeName {
		return 0, errors.New("only one of -in and -strokes can read stdin")
	}

	base, err := readInput(in)
	if err != nil {
		return 0, fmt.Errorf("unable to read the base image: %w", err)
	}

	sr, err := openInput(strokes)
	if err != nil {
		return 0, fmt.Errorf("unable to open the stroke file: %w", err)
	}
	defer sr.Close()
	inputs, err := readStrokes(sr)
	if err != nil {
		return 0, err
	}

	var legendReader io.Reader
	if legend != "" {
		f, err := os.Open(legend)
		if err != nil {
			return 0, fmt.Errorf("unable to open the legend: %w", err)
		}
		defer f.Close()
		legendReader = f
	}
	palette, err := loadPalette(legendReader)
	if err != nil {
		return 0, err
	}

	png, drawn, err := flatten(base, inputs, palette)
	if err != nil {
		return drawn, err
	}
	return drawn, writeOutput(out, png)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == pipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, errors.New("`-` should be used with a pipe for stdin")
		}
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func readInput(path string) ([]byte, error) {
	r, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func writeOutput(path string, data []byte) error {
	if path == pipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("`-` should be used with a pipe for stdout")
		}
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// decorate colours s only when stderr is a terminal.
func decorate(s, color string) string {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return s
	}
	return color + s + colorReset
}
