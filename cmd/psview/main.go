// Command psview runs a PostScript program and displays the rendered page
// in a window, using fyne.io/fyne/v2 the way the teacher's go.mod already
// depends on it (the teacher's own gui/ used wails instead; this core
// standardizes on fyne since it's the GUI toolkit actually wired into
// go.mod and exercised by cmd/psrepl's and sink's other fyne-adjacent
// dependencies).
package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"

	"github.com/waavs-go/pslang/config"
	"github.com/waavs-go/pslang/internal/gfont"
	"github.com/waavs-go/pslang/internal/vm"
	"github.com/waavs-go/pslang/sink"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: psview <file.ps>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "psview: config: %v\n", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(os.Args[1]) // #nosec G304 -- user-supplied script path
	if err != nil {
		fmt.Fprintf(os.Stderr, "psview: %v\n", err)
		os.Exit(1)
	}

	width := int(cfg.Page.WidthPoints)
	height := int(cfg.Page.HeightPoints)
	img := sink.New(width, height)

	machine := vm.New()
	machine.SetSink(img)
	machine.SetFontProvider(gfont.NewProvider(cfg.Fonts.SearchPaths...))

	if err := machine.RunSource(data); err != nil {
		fmt.Fprintf(os.Stderr, "psview: %v\n", err)
	}

	a := app.New()
	w := a.NewWindow("psview - " + os.Args[1])

	raster := canvas.NewImageFromImage(img.Page())
	raster.FillMode = canvas.ImageFillOriginal

	w.SetContent(container.NewScroll(raster))
	w.Resize(fyne.NewSize(float32(width), float32(height)))
	w.ShowAndRun()
}
