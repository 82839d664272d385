// Command psc runs a PostScript program to completion and reports the
// operand stack, mirroring the teacher's batch-mode flag handling in its
// main.go (flag-driven, version/help short-circuits, a single exit path).
package main

import (
	"fmt"
	"os"

	"github.com/waavs-go/pslang/config"
	"github.com/waavs-go/pslang/internal/gfont"
	"github.com/waavs-go/pslang/internal/object"
	"github.com/waavs-go/pslang/internal/vm"
	"github.com/waavs-go/pslang/sink"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: psc [-version] <file.ps>")
		return 2
	}
	if args[0] == "-version" || args[0] == "--version" {
		fmt.Printf("psc %s (%s)\n", Version, Commit)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "psc: config: %v\n", err)
		return 1
	}

	data, err := os.ReadFile(args[0]) // #nosec G304 -- user-supplied script path, the command's entire purpose
	if err != nil {
		fmt.Fprintf(os.Stderr, "psc: %v\n", err)
		return 1
	}

	width := int(cfg.Page.WidthPoints)
	height := int(cfg.Page.HeightPoints)
	img := sink.New(width, height)

	machine := vm.New()
	machine.SetSink(img)
	machine.SetFontProvider(gfont.NewProvider(cfg.Fonts.SearchPaths...))
	if cfg.Execution.EnableTrace {
		machine.Trace = os.Stderr
	}

	if err := machine.RunSource(data); err != nil {
		fmt.Fprintf(os.Stderr, "psc: %v\n", err)
		printStack(machine)
		return 1
	}

	printStack(machine)

	if out := outputPath(args); out != "" {
		f, err := os.Create(out) // #nosec G304 -- user-supplied output path
		if err != nil {
			fmt.Fprintf(os.Stderr, "psc: %v\n", err)
			return 1
		}
		defer f.Close()
		if err := img.EncodeBMP(f); err != nil {
			fmt.Fprintf(os.Stderr, "psc: %v\n", err)
			return 1
		}
	}

	return 0
}

func printStack(machine *vm.VM) {
	for _, o := range machine.Operand {
		fmt.Println(object.Format(o))
	}
}

// outputPath returns the optional second argument, the path the rendered
// page is written to in BMP format whatever its extension — psc's page
// rendering is opt-in, most scripts only care about the operand stack.
func outputPath(args []string) string {
	if len(args) < 2 {
		return ""
	}
	return args[1]
}
