package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/born-ml/netshape/config"
	"github.com/born-ml/netshape/internal/parallel"
	"github.com/born-ml/netshape/nn"
	"github.com/born-ml/netshape/onnx"
	"github.com/born-ml/netshape/tensor"
	"github.com/pkg/errors"
)

// Exit codes.
const (
	exitOK         = 0
	exitError      = 1 // bad usage, I/O or compile failure
	exitStepFailed = 2 // at least one layer rejected its input
)

const defaultInput = "1,3,32,32"

// options holds the parsed command line.
type options struct {
	input    tensor.Shape
	inputSet bool // -input given explicitly
	mode     nn.Mode
	json     bool
	workers  int
	verbose  bool
	files    []string
}

// document is one description to evaluate.
type document struct {
	source string
	data   []byte
	onnx   bool
}

// report is the evaluation result of one document.
type report struct {
	Source string
	Mode   nn.Mode
	Input  tensor.Shape
	Steps  nn.Steps
	Err    error // compile failure, Steps is empty
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "netshape: ", 0)

	if len(args) > 0 && args[0] == "version" {
		fmt.Fprintf(stdout, "netshape %s\n", version)
		return exitOK
	}

	opts, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			logger.Print(err)
		}
		return exitError
	}

	verbosef := func(format string, v ...any) {
		if opts.verbose {
			logger.Printf(format, v...)
		}
	}

	docs, err := readDocuments(opts.files, stdin)
	if err != nil {
		logger.Print(err)
		return exitError
	}
	verbosef("evaluating %d document(s) in %s mode, input %v", len(docs), opts.mode, opts.input)

	cfg := parallel.DefaultConfig().WithWorkers(opts.workers)
	reports := parallel.Map(docs, func(_ int, doc document) report {
		return evaluate(doc, opts)
	}, cfg)

	if opts.json {
		err = renderJSON(stdout, reports)
	} else {
		err = renderTable(stdout, reports)
	}
	if err != nil {
		logger.Printf("failed to write output: %v", err)
		return exitError
	}

	code := exitOK
	for _, r := range reports {
		switch {
		case r.Err != nil:
			logger.Printf("%s: %v", r.Source, r.Err)
			code = exitError
		case len(r.Steps.Failed()) > 0:
			verbosef("%s: %d of %d layer(s) failed", r.Source, len(r.Steps.Failed()), len(r.Steps))
			if code == exitOK {
				code = exitStepFailed
			}
		default:
			verbosef("%s: all %d layer(s) accepted their input", r.Source, len(r.Steps))
		}
	}
	return code
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("netshape", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: netshape [flags] file.yaml|file.onnx [...]\n")
		fmt.Fprintf(fs.Output(), "       netshape version\n\n")
		fmt.Fprintf(fs.Output(), "Use - to read a YAML document from stdin. ONNX models default to\ntheir declared input shape unless -input is given.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	input := fs.String("input", defaultInput, "Input shape, comma separated")
	mode := fs.String("mode", "declared", "Forward mode: declared or chained")
	chain := fs.Bool("chain", false, "Shorthand for -mode chained")
	asJSON := fs.Bool("json", false, "Emit JSON instead of a table")
	workers := fs.Int("workers", 0, "Parallel workers (0 = number of CPUs)")
	verbose := fs.Bool("v", false, "Verbose logging")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	var opts options
	var err error
	if opts.input, err = tensor.ParseShape(*input); err != nil {
		return options{}, errors.Wrapf(err, "invalid -input %q", *input)
	}
	if opts.mode, err = nn.ParseMode(*mode); err != nil {
		return options{}, err
	}
	if *chain {
		opts.mode = nn.ModeChained
	}
	if *workers < 0 {
		return options{}, errors.Errorf("invalid -workers %d", *workers)
	}
	opts.json = *asJSON
	opts.workers = *workers
	opts.verbose = *verbose
	opts.files = fs.Args()
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "input" {
			opts.inputSet = true
		}
	})

	if len(opts.files) == 0 {
		fs.Usage()
		return options{}, errors.New("no input files")
	}
	return opts, nil
}

// readDocuments loads every file in order. stdin is read at most once.
func readDocuments(files []string, stdin io.Reader) ([]document, error) {
	docs := make([]document, 0, len(files))
	var stdinData []byte
	stdinRead := false

	for _, name := range files {
		if name == "-" {
			if !stdinRead {
				data, err := io.ReadAll(stdin)
				if err != nil {
					return nil, errors.Wrap(err, "failed to read stdin")
				}
				stdinData, stdinRead = data, true
			}
			docs = append(docs, document{source: "<stdin>", data: stdinData})
			continue
		}

		data, err := os.ReadFile(name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", name)
		}
		docs = append(docs, document{
			source: name,
			data:   data,
			onnx:   strings.EqualFold(filepath.Ext(name), ".onnx"),
		})
	}
	return docs, nil
}

// evaluate compiles one document and simulates it. Each call builds its own
// layers. An ONNX model's declared input replaces the default input shape.
func evaluate(doc document, opts options) report {
	r := report{Source: doc.source, Mode: opts.mode, Input: opts.input}

	var layers []nn.Layer
	var err error
	if doc.onnx {
		var declared tensor.Shape
		layers, declared, err = onnx.LoadFromBytes(doc.data)
		if declared != nil && !opts.inputSet {
			r.Input = declared
		}
	} else {
		layers, err = config.ParseBlocks(doc.data)
	}
	if err != nil {
		r.Err = err
		return r
	}
	r.Steps = nn.Forward(layers, r.Input, nn.WithMode(opts.mode))
	return r
}
