// Command psrepl is an interactive PostScript console built on
// github.com/rivo/tview and github.com/gdamore/tcell/v2, grounded on the
// teacher's debugger/tui.go panel layout (a main flex of side-by-side text
// views plus a bottom command input) but showing the operand stack and
// "=" output instead of registers/disassembly.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/waavs-go/pslang/config"
	"github.com/waavs-go/pslang/internal/object"
	"github.com/waavs-go/pslang/internal/vm"
)

// repl bundles the tview widgets and the VM they drive, the way the
// teacher's TUI type bundles its panels and the debugger.Debugger it
// reflects.
type repl struct {
	app     *tview.Application
	output  *tview.TextView
	stack   *tview.TextView
	input   *tview.InputField
	machine *vm.VM
	history []string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "psrepl: config: %v\n", err)
		os.Exit(1)
	}

	r := newREPL(cfg)
	if err := r.app.SetRoot(r.layout(), true).SetFocus(r.input).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "psrepl: %v\n", err)
		os.Exit(1)
	}
}

func newREPL(cfg *config.Config) *repl {
	r := &repl{
		app:     tview.NewApplication(),
		machine: vm.New(),
	}

	r.output = tview.NewTextView().
		SetDynamicColors(cfg.REPL.ColorOutput).
		SetChangedFunc(func() { r.app.Draw() })
	r.output.SetBorder(true).SetTitle(" output ")

	r.stack = tview.NewTextView().SetDynamicColors(cfg.REPL.ColorOutput)
	r.stack.SetBorder(true).SetTitle(" operand stack ")
	r.machine.Out = &writerFunc{write: r.appendOutput}
	if cfg.Execution.EnableTrace {
		r.machine.Trace = &writerFunc{write: r.appendOutput}
	}

	r.input = tview.NewInputField().SetLabel("ps> ")
	r.input.SetDoneFunc(r.onSubmit)

	r.refreshStack()
	return r
}

func (r *repl) layout() tview.Primitive {
	main := tview.NewFlex().
		AddItem(r.output, 0, 3, false).
		AddItem(r.stack, 0, 1, false)

	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(main, 0, 1, false).
		AddItem(r.input, 1, 0, true)
}

func (r *repl) onSubmit(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	line := r.input.GetText()
	r.input.SetText("")
	if strings.TrimSpace(line) == "" {
		return
	}
	r.history = append(r.history, line)

	if strings.TrimSpace(line) == "quit" {
		r.app.Stop()
		return
	}

	fmt.Fprintf(r.output, "[yellow]ps> %s[-]\n", tview.Escape(line))
	if err := r.machine.RunSource([]byte(line)); err != nil {
		fmt.Fprintf(r.output, "[red]%s[-]\n", err.Error())
	}
	r.refreshStack()
}

func (r *repl) appendOutput(p []byte) (int, error) {
	return r.output.Write(p)
}

func (r *repl) refreshStack() {
	r.stack.Clear()
	ops := r.machine.Operand
	for i := len(ops) - 1; i >= 0; i-- {
		fmt.Fprintln(r.stack, object.Format(ops[i]))
	}
}

// writerFunc adapts a plain function to io.Writer so psrepl can route the
// VM's stdout ("=", "print", "stack") into the output TextView.
type writerFunc struct {
	write func([]byte) (int, error)
}

func (w *writerFunc) Write(p []byte) (int, error) { return w.write(p) }
