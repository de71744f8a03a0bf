// Command pdf2html is the CLI surface collaborator: it resolves
// file paths, invokes the extraction backend and pipeline, and writes the
// rendered HTML to disk. Everything it calls into is a pure function or a
// typed error; this file owns only process exit codes and stderr
// formatting.
package main

import (
	"fmt"
	"os"

	"github.com/tsawler/pdf2html/config"
	"github.com/tsawler/pdf2html/extract"
	"github.com/tsawler/pdf2html/pdferr"
	"github.com/tsawler/pdf2html/pipeline"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "pdf2png":
		fmt.Fprintln(os.Stderr, "Error: pdf2png rasterization is not implemented by this build")
		os.Exit(1)
	default:
		runConvert(os.Args[1:])
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: pdf2html <pdf> <out.html>")
	fmt.Fprintln(os.Stderr, "       pdf2html pdf2png <pdf> <outDir>")
}

func runConvert(args []string) {
	if len(args) != 2 {
		printUsage()
		os.Exit(1)
	}
	pdfPath, outPath := args[0], args[1]

	backend := extract.NewPDFBackend()
	doc, err := backend.Extract(pdfPath)
	if err != nil {
		fail(err)
	}

	html := pipeline.Convert(doc, config.DefaultConfig())

	if err := os.WriteFile(outPath, []byte(html), 0o644); err != nil {
		fail(pdferr.New(pdferr.OutputUnwritable, outPath, err))
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
