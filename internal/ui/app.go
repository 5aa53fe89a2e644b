// Package ui is the Gio desktop shell around the image canvas: window loop,
// header and side panels, file picker, and the backend that uploads textures
// and executes the canvas draw commands.
package ui

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gioui.org/app"
	"gioui.org/gesture"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"github.com/oligo/gioview/menu"
	"github.com/oligo/gioview/theme"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/OpenTraceLab/OpenTraceView/internal/config"
	"github.com/OpenTraceLab/OpenTraceView/pkg/canvas"
	"github.com/OpenTraceLab/OpenTraceView/pkg/imageload"
	"github.com/OpenTraceLab/OpenTraceView/pkg/viewport"
)

// Version is reported in the about dialog and by the CLI
const Version = "0.1.0"

const maxLogLines = 200

// extensions offered by the file picker
var pickerExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".gif", ".bmp", ".tif", ".tiff"}

// Options configures a new App
type Options struct {
	Config  *config.Config
	Loader  *config.Loader // nil disables saving on exit
	Variant config.Variant
	Path    string // image to open on start
	Verbose bool
}

// App is the image viewer window
type App struct {
	window *app.Window
	ops    op.Ops

	gvTheme  *theme.Theme
	darkMode bool

	cfg     *config.Config
	loader  *config.Loader
	variant config.Variant
	verbose bool
	dirty   bool // last_dir changed since start

	canvas   *canvas.ImageCanvas
	painter  *painter
	measurer *shaperMeasurer
	tracker  pointerTracker
	response canvas.Response
	zoomPct  float32

	explorer *explorer.Explorer
	pending  chan string

	openBtn       widget.Clickable
	aboutBtn      widget.Clickable
	aboutCloseBtn widget.Clickable
	variantBtn    widget.Clickable
	variantMenu   *menu.DropdownMenu
	openIcon      *widget.Icon
	aboutIcon     *widget.Icon
	mapIcon       *widget.Icon
	leftHandle    gesture.Click
	rightHandle   gesture.Click
	aboutScrim    gesture.Click
	showAbout     bool
	leftVisible   bool
	rightVisible  bool

	logs    []string
	logList widget.List
}

// New creates the viewer app. A nil window creates a new one.
func New(w *app.Window, opts Options) *App {
	if w == nil {
		w = new(app.Window)
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	variant := opts.Variant
	if variant == "" {
		variant = config.VariantViewer
	}
	w.Option(app.Title("OpenTraceView"), app.Size(unit.Dp(cfg.Window.Width), unit.Dp(cfg.Window.Height)))

	gv := theme.NewTheme("", nil, true)
	a := &App{
		window:      w,
		gvTheme:     gv,
		darkMode:    cfg.DarkMode,
		cfg:         cfg,
		loader:      opts.Loader,
		variant:     variant,
		verbose:     opts.Verbose,
		explorer:    explorer.NewExplorer(w),
		pending:     make(chan string, 1),
		leftVisible: true,
	}
	a.painter = newPainter(gv.Theme.Shaper)
	a.measurer = newShaperMeasurer(a.painter.mono)
	a.canvas = a.newCanvas()

	if icon, err := widget.NewIcon(icons.FileFolderOpen); err == nil {
		a.openIcon = icon
	}
	if icon, err := widget.NewIcon(icons.ActionInfo); err == nil {
		a.aboutIcon = icon
	}
	if icon, err := widget.NewIcon(icons.MapsMap); err == nil {
		a.mapIcon = icon
	}
	a.variantMenu = a.buildVariantMenu()
	a.logList.Axis = layout.Vertical
	a.logList.ScrollToEnd = true
	a.applyPalette()

	a.Logf("[BOOT] OpenTraceView %s (%s bounds %.2f-%.2f)", Version, a.variant,
		a.canvas.Config().MinScale, a.canvas.Config().MaxScale)
	if opts.Path != "" {
		a.load(opts.Path)
	}
	return a
}

// Run blocks processing window events until the window closes.
func (a *App) Run() error {
	for {
		e := a.window.Event()
		a.explorer.ListenEvents(e)
		switch ev := e.(type) {
		case app.DestroyEvent:
			a.saveConfig()
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&a.ops, ev)
			a.layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}

func (a *App) newCanvas() *canvas.ImageCanvas {
	c := canvas.New(a.cfg.Canvas(a.variant), imageload.FileDecoder{}, uploader{}, a.measurer)
	c.SetLogger(a.Logf)
	return c
}

// load runs on the UI goroutine; decoding blocks the frame
func (a *App) load(path string) {
	start := time.Now()
	if err := a.canvas.Load(path); err != nil {
		a.Logf("[ERROR] %v", err)
		return
	}
	if a.cfg.SetLastDir(filepath.Dir(path)) {
		a.dirty = true
	}
	a.window.Option(app.Title("OpenTraceView - " + filepath.Base(path)))
	if a.verbose {
		a.Logf("[DEBUG] load took %s", time.Since(start).Round(time.Millisecond))
	}
}

// openFilePicker shows the native dialog off the UI goroutine and queues
// the chosen path for the next frame
func (a *App) openFilePicker() {
	go func() {
		file, err := a.explorer.ChooseFile(pickerExtensions...)
		if err != nil {
			if err != explorer.ErrUserDecline {
				log.Printf("File picker error: %v", err)
			}
			return
		}
		defer file.Close()

		name, ok := pickedName(file)
		if !ok {
			log.Printf("File picker returned a stream without a path")
			return
		}
		select {
		case a.pending <- name:
		default:
			log.Printf("Dropping %s: a load is already queued", name)
		}
		a.window.Invalidate()
	}()
}

func pickedName(file io.ReadCloser) (string, bool) {
	f, ok := file.(*os.File)
	if !ok {
		return "", false
	}
	return f.Name(), true
}

func (a *App) drainPending() {
	for {
		select {
		case path := <-a.pending:
			a.load(path)
		default:
			return
		}
	}
}

func (a *App) setVariant(v config.Variant) {
	if v == a.variant {
		return
	}
	a.variant = v
	path := a.canvas.Path()
	a.canvas = a.newCanvas()
	cfg := a.canvas.Config()
	a.Logf("[INFO] Switched to %s bounds %.2f-%.2f", v, cfg.MinScale, cfg.MaxScale)
	if path != "" {
		a.load(path)
	}
	a.invalidate()
}

func (a *App) buildVariantMenu() *menu.DropdownMenu {
	variants := []config.Variant{config.VariantViewer, config.VariantMap}
	opts := make([]menu.MenuOption, 0, len(variants))
	for _, v := range variants {
		v := v
		opts = append(opts, menu.MenuOption{
			OnClicked: func() error {
				a.setVariant(v)
				return nil
			},
			Layout: func(gtx menu.C, th *theme.Theme) menu.D {
				b := a.cfg.Canvas(v)
				lbl := material.Body1(th.Theme, fmt.Sprintf("%s (%.1fx - %.1fx)", v, b.MinScale, b.MaxScale))
				if v == a.variant {
					lbl.Color = th.Palette.ContrastBg
				}
				return layout.Inset{Left: unit.Dp(4), Right: unit.Dp(4)}.Layout(gtx, lbl.Layout)
			},
		})
	}
	drop := menu.NewDropdownMenu([][]menu.MenuOption{opts})
	drop.MaxWidth = unit.Dp(220)
	return drop
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	a.drainPending()
	paint.FillShape(gtx.Ops, a.gvTheme.Palette.Bg, clip.Rect{Max: gtx.Constraints.Max}.Op())

	return layout.Stack{}.Layout(gtx,
		layout.Expanded(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				layout.Rigid(a.layoutHeader),
				layout.Flexed(1, a.layoutWorkspace),
				layout.Rigid(a.layoutStatusBar),
			)
		}),
		layout.Expanded(a.layoutAbout),
	)
}

func (a *App) layoutHeader(gtx layout.Context) layout.Dimensions {
	if a.openBtn.Clicked(gtx) {
		a.openFilePicker()
	}
	if a.aboutBtn.Clicked(gtx) {
		a.showAbout = true
	}
	if a.variantBtn.Clicked(gtx) {
		a.variantMenu.ToggleVisibility(gtx)
	}

	th := a.gvTheme.Theme
	return layout.Inset{Left: unit.Dp(12), Right: unit.Dp(12), Top: unit.Dp(6), Bottom: unit.Dp(6)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return a.iconButton(gtx, &a.openBtn, a.openIcon, "Open image")
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				dims := a.iconButton(gtx, &a.variantBtn, a.mapIcon, "Zoom: "+string(a.variant))
				a.variantMenu.Layout(gtx, a.gvTheme)
				return dims
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return a.iconButton(gtx, &a.aboutBtn, a.aboutIcon, "About")
			}),
			layout.Flexed(1, layout.Spacer{}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				title := "No image loaded"
				if p := a.canvas.Path(); p != "" {
					title = filepath.Base(p)
				}
				return material.Body2(th, title).Layout(gtx)
			}),
		)
	})
}

func (a *App) iconButton(gtx layout.Context, btn *widget.Clickable, icon *widget.Icon, label string) layout.Dimensions {
	if icon == nil {
		return material.Button(a.gvTheme.Theme, btn, label).Layout(gtx)
	}
	b := material.IconButton(a.gvTheme.Theme, btn, icon, label)
	b.Size = unit.Dp(20)
	b.Inset = layout.UniformInset(unit.Dp(6))
	return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(b.Layout),
		layout.Rigid(layout.Spacer{Width: unit.Dp(4)}.Layout),
		layout.Rigid(material.Body2(a.gvTheme.Theme, label).Layout),
	)
}

func (a *App) layoutWorkspace(gtx layout.Context) layout.Dimensions {
	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			if !a.leftVisible {
				return layout.Dimensions{}
			}
			width := gtx.Dp(unit.Dp(200))
			gtx.Constraints.Min.X = width
			gtx.Constraints.Max.X = width
			return a.layoutDetails(gtx)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			label := "<"
			if !a.leftVisible {
				label = ">"
			}
			return a.layoutPanelHandle(gtx, &a.leftHandle, label, func() {
				a.togglePanelVisibility("left")
			})
		}),
		layout.Flexed(1, a.layoutCanvas),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			label := ">"
			if !a.rightVisible {
				label = "<"
			}
			return a.layoutPanelHandle(gtx, &a.rightHandle, label, func() {
				a.togglePanelVisibility("right")
			})
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			if !a.rightVisible {
				return layout.Dimensions{}
			}
			width := gtx.Dp(unit.Dp(280))
			gtx.Constraints.Min.X = width
			gtx.Constraints.Max.X = width
			return a.layoutLogPane(gtx)
		}),
	)
}

// layoutCanvas runs one canvas frame inside the available space
func (a *App) layoutCanvas(gtx layout.Context) layout.Dimensions {
	size := gtx.Constraints.Max
	in := a.tracker.collect(gtx, a.cfg.WheelGain)
	a.measurer.update(gtx)

	frame := a.canvas.Render(viewport.RectFromSize(layout.FPt(size)), in)
	a.response = frame.Response
	if t := a.canvas.Transform(); t != nil {
		a.zoomPct = t.Scale() * 100
		if a.verbose && (in.Dragged || in.Scrolled) {
			a.Logf("[DEBUG] scale=%.3f offset=(%.1f, %.1f)", t.Scale(), t.Offset().X, t.Offset().Y)
		}
	}

	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	paint.FillShape(gtx.Ops, a.gvTheme.Bg2, clip.Rect{Max: size}.Op())
	a.painter.fg = a.opaqueFg()
	a.painter.draw(gtx, frame.Commands)

	a.tracker.add(gtx)
	if in.Dragged || in.Scrolled || in.DoubleClicked {
		gtx.Execute(op.InvalidateCmd{})
	}
	return layout.Dimensions{Size: size}
}

func (a *App) layoutDetails(gtx layout.Context) layout.Dimensions {
	paint.FillShape(gtx.Ops, a.gvTheme.Bg2, clip.Rect{Max: gtx.Constraints.Max}.Op())
	th := a.gvTheme.Theme

	rows := []string{"No image."}
	if img := a.canvas.Image(); img != nil {
		t := a.canvas.Transform()
		size := img.Texture.Size()
		b := t.Bounds()
		rows = []string{
			filepath.Base(img.Path),
			fmt.Sprintf("%d x %d px", size.X, size.Y),
			fmt.Sprintf("Scale %.3f", t.Scale()),
			fmt.Sprintf("Offset %.0f, %.0f", t.Offset().X, t.Offset().Y),
			fmt.Sprintf("Bounds %.1f - %.1f", b.MinScale, b.MaxScale),
		}
	}
	if msg := a.canvas.Err(); msg != "" {
		rows = append(rows, msg)
	}

	children := []layout.FlexChild{
		layout.Rigid(material.H6(th, "Image").Layout),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
	}
	for _, row := range rows {
		children = append(children, layout.Rigid(material.Body2(th, row).Layout))
	}
	return layout.UniformInset(unit.Dp(12)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
	})
}

func (a *App) layoutLogPane(gtx layout.Context) layout.Dimensions {
	paint.FillShape(gtx.Ops, a.gvTheme.Bg2, clip.Rect{Max: gtx.Constraints.Max}.Op())
	th := a.gvTheme.Theme
	return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return material.List(th, &a.logList).Layout(gtx, len(a.logs), func(gtx layout.Context, i int) layout.Dimensions {
			lbl := material.Caption(th, a.logs[i])
			lbl.Font = monoFont
			return lbl.Layout(gtx)
		})
	})
}

func (a *App) layoutPanelHandle(gtx layout.Context, clk *gesture.Click, label string, toggle func()) layout.Dimensions {
	size := image.Pt(gtx.Dp(unit.Dp(16)), gtx.Constraints.Max.Y)
	gtx.Constraints = layout.Exact(size)

	return layout.Stack{Alignment: layout.Center}.Layout(gtx,
		layout.Expanded(func(gtx layout.Context) layout.Dimensions {
			handleClip := clip.Rect{Max: size}.Push(gtx.Ops)
			pointer.CursorPointer.Add(gtx.Ops)
			clk.Add(gtx.Ops)
			for {
				ev, ok := clk.Update(gtx.Source)
				if !ok {
					break
				}
				if ev.Kind == gesture.KindClick {
					toggle()
				}
			}
			paint.FillShape(gtx.Ops, color.NRGBA{R: 176, G: 182, B: 206, A: 255}, clip.Rect{Max: size}.Op())
			handleClip.Pop()
			return layout.Dimensions{Size: size}
		}),
		layout.Stacked(material.Caption(a.gvTheme.Theme, label).Layout),
	)
}

func (a *App) layoutStatusBar(gtx layout.Context) layout.Dimensions {
	th := a.gvTheme.Theme
	inset := layout.Inset{Left: unit.Dp(16), Right: unit.Dp(16), Top: unit.Dp(6), Bottom: unit.Dp(6)}
	return inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return material.Body2(th, a.statusText()).Layout(gtx)
			}),
			layout.Flexed(1, layout.Spacer{}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				if a.canvas.Image() == nil {
					return layout.Dimensions{}
				}
				return material.Body2(th, fmt.Sprintf("Zoom %.0f%%", a.zoomPct)).Layout(gtx)
			}),
		)
	})
}

func (a *App) statusText() string {
	r := a.response
	switch {
	case r.Readout != nil:
		return r.HoverText + "  " + r.Readout.Text
	case r.HoverText != "":
		return r.HoverText
	case len(a.logs) > 0:
		return a.logs[len(a.logs)-1]
	}
	return "Ready"
}

func (a *App) layoutAbout(gtx layout.Context) layout.Dimensions {
	if !a.showAbout {
		return layout.Dimensions{}
	}
	if a.aboutCloseBtn.Clicked(gtx) {
		a.showAbout = false
	}
	for {
		ev, ok := a.aboutScrim.Update(gtx.Source)
		if !ok {
			break
		}
		if ev.Kind == gesture.KindClick {
			a.showAbout = false
		}
	}

	size := gtx.Constraints.Max
	scrim := clip.Rect{Max: size}.Push(gtx.Ops)
	paint.FillShape(gtx.Ops, color.NRGBA{A: 120}, clip.Rect{Max: size}.Op())
	a.aboutScrim.Add(gtx.Ops)
	scrim.Pop()

	th := a.gvTheme.Theme
	return layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		gtx.Constraints.Min = image.Point{}
		macro := op.Record(gtx.Ops)
		dims := layout.UniformInset(unit.Dp(20)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
				layout.Rigid(material.H6(th, "OpenTraceView").Layout),
				layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
				layout.Rigid(material.Body2(th, "Version "+Version).Layout),
				layout.Rigid(material.Caption(th, "Drag to pan, scroll to zoom, double-click to fit").Layout),
				layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
				layout.Rigid(material.Button(th, &a.aboutCloseBtn, "Close").Layout),
			)
		})
		call := macro.Stop()

		card := clip.RRect{Rect: image.Rectangle{Max: dims.Size}, SE: 8, SW: 8, NE: 8, NW: 8}
		paint.FillShape(gtx.Ops, a.gvTheme.Palette.Bg, card.Op(gtx.Ops))
		call.Add(gtx.Ops)
		return dims
	})
}

func (a *App) togglePanelVisibility(side string) {
	switch side {
	case "left":
		a.leftVisible = !a.leftVisible
	case "right":
		a.rightVisible = !a.rightVisible
	}
	a.invalidate()
}

// applyPalette keeps Bg2 close to neutral grey; it backs the image canvas
func (a *App) applyPalette() {
	if a.gvTheme == nil {
		return
	}
	if a.darkMode {
		a.gvTheme.WithPalette(theme.Palette{
			Bg:         color.NRGBA{R: 18, G: 20, B: 26, A: 255},
			Fg:         color.NRGBA{R: 233, G: 236, B: 245, A: 255},
			ContrastBg: color.NRGBA{R: 120, G: 150, B: 255, A: 255},
			ContrastFg: color.NRGBA{R: 12, G: 16, B: 24, A: 255},
			Bg2:        color.NRGBA{R: 38, G: 38, B: 40, A: 255},
		})
	} else {
		a.gvTheme.WithPalette(theme.Palette{
			Bg:         color.NRGBA{R: 245, G: 247, B: 253, A: 255},
			Fg:         color.NRGBA{R: 34, G: 37, B: 49, A: 255},
			ContrastBg: color.NRGBA{R: 80, G: 120, B: 255, A: 255},
			ContrastFg: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			Bg2:        color.NRGBA{R: 214, G: 214, B: 218, A: 255},
		})
	}
}

func (a *App) opaqueFg() color.NRGBA {
	fg := a.gvTheme.Palette.Fg
	fg.A = 0xFF
	return fg
}

func (a *App) saveConfig() {
	if a.loader == nil || !a.dirty {
		return
	}
	if err := a.loader.SaveLastDir(a.cfg.LastDir); err != nil {
		log.Printf("Failed to save config: %v", err)
	}
}

func (a *App) invalidate() {
	if a.window != nil {
		a.window.Invalidate()
	}
}

// Logf records a tagged log line shown in the status bar and log pane
func (a *App) Logf(format string, args ...any) {
	prefix := time.Now().Format(time.Stamp)
	entry := fmt.Sprintf("[%s] %s", prefix, fmt.Sprintf(format, args...))
	a.logs = append(a.logs, entry)
	if len(a.logs) > maxLogLines {
		a.logs = a.logs[len(a.logs)-maxLogLines:]
	}
	if a.verbose || strings.Contains(format, "[ERROR]") {
		log.Print(entry)
	}
	a.invalidate()
}
