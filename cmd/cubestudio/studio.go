package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/cubeforge/internal/app"
	"github.com/Faultbox/cubeforge/internal/config"
	"github.com/Faultbox/cubeforge/internal/engine/debug"
	"github.com/Faultbox/cubeforge/internal/engine/ui"
	"github.com/Faultbox/cubeforge/internal/logger"
	"github.com/Faultbox/cubeforge/internal/pipeline"
	"github.com/Faultbox/cubeforge/pkg/settings"
)

// Studio is the editor window: settings on the left, preview on the right.
type Studio struct {
	backend *ui.Backend
	cfg     *config.Config
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc

	session *app.Session
	form    *form

	settingsPath string
	shots        *debug.ScreenshotCapture

	// Export dialog result; the dialog runs off the main thread.
	exports chan string

	status     string
	statusTime time.Time
}

// NewStudio creates the window and a session on its GL context.
func NewStudio(cfg *config.Config, settingsPath string) (*Studio, error) {
	st := &Studio{
		cfg:          cfg,
		log:          logger.Named("studio"),
		form:         formFromRaw(cfg.Generator),
		settingsPath: settingsPath,
		shots:        debug.NewScreenshotCapture(filepath.Join(cfg.Export.Dir, "screenshots"), "preview"),
		exports:      make(chan string, 1),
	}
	st.ctx, st.cancel = context.WithCancel(context.Background())

	var err error
	st.backend, err = ui.NewBackend(cfg.Preview.Title, cfg.Preview.Width, cfg.Preview.Height)
	if err != nil {
		return nil, err
	}

	st.session, err = app.Attach(cfg, logger.Log)
	if err != nil {
		return nil, err
	}
	if err := st.session.Start(st.ctx); err != nil {
		st.setStatus("Render failed: %v", err)
	}
	return st, nil
}

// Run starts the UI loop.
func (st *Studio) Run() {
	st.backend.Run(st.render)
}

// Close releases the session.
func (st *Studio) Close() {
	st.cancel()
	if st.session != nil {
		st.session.Close()
	}
}

func (st *Studio) setStatus(format string, args ...any) {
	st.status = fmt.Sprintf(format, args...)
	st.statusTime = time.Now()
}

// render is called each frame to draw the UI.
func (st *Studio) render() {
	select {
	case path := <-st.exports:
		st.exportTo(path)
	default:
	}

	if ui.IsKeyPressed(imgui.KeyF12) {
		st.screenshot()
	}

	if imgui.BeginMainMenuBar() {
		if imgui.BeginMenu("File") {
			if imgui.MenuItemBool("Export...") {
				st.exportDialog()
			}
			if imgui.MenuItemBool("Export to " + st.session.ExportPath()) {
				st.exportTo(st.session.ExportPath())
			}
			if st.settingsPath != "" && imgui.MenuItemBool("Save settings") {
				st.saveSettings()
			}
			imgui.Separator()
			if imgui.MenuItemBool("Screenshot (F12)") {
				st.screenshot()
			}
			imgui.EndMenu()
		}
		imgui.EndMainMenuBar()
	}

	workPos, workSize := ui.Viewport()

	leftPanelWidth := float32(340)
	statusBarHeight := float32(30)
	contentHeight := workSize.Y - statusBarHeight

	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

	imgui.SetNextWindowPos(workPos)
	imgui.SetNextWindowSize(imgui.NewVec2(leftPanelWidth, contentHeight))
	if imgui.BeginV("Settings", nil, flags) {
		if st.renderForm() {
			st.apply()
		}
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X+leftPanelWidth, workPos.Y))
	imgui.SetNextWindowSize(imgui.NewVec2(workSize.X-leftPanelWidth, contentHeight))
	if imgui.BeginV("Preview", nil, flags|imgui.WindowFlagsNoScrollbar) {
		st.renderPreview()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X, workPos.Y+contentHeight))
	imgui.SetNextWindowSize(imgui.NewVec2(workSize.X, statusBarHeight))
	if imgui.BeginV("##status", nil, flags|imgui.WindowFlagsNoTitleBar) {
		st.renderStatus()
	}
	imgui.End()
}

// renderForm draws the settings controls and reports whether any changed.
func (st *Studio) renderForm() bool {
	f := st.form
	changed := false

	imgui.Text("Surface")
	imgui.Separator()
	if imgui.SliderIntV("Size", &f.size, 16, 2048, "%d px", imgui.SliderFlagsNone) {
		changed = true
	}
	if imgui.InputInt("Seed", &f.seed) {
		changed = true
	}

	imgui.Spacing()
	imgui.Text("Noise")
	imgui.Separator()
	if imgui.SelectableBoolV("Layered", !f.fractal, 0, imgui.NewVec2(120, 0)) && f.fractal {
		f.fractal = false
		changed = true
	}
	imgui.SameLine()
	if imgui.SelectableBoolV("Fractal", f.fractal, 0, imgui.NewVec2(120, 0)) && !f.fractal {
		f.fractal = true
		changed = true
	}
	imgui.Spacing()

	if f.fractal {
		if imgui.SliderIntV("Octaves", &f.octaves, 0, 12, "%d", imgui.SliderFlagsNone) {
			changed = true
		}
		if imgui.SliderFloatV("Lacunarity", &f.lacunarity, 1, 4, "%.2f", imgui.SliderFlagsNone) {
			changed = true
		}
		if imgui.SliderFloatV("Gain", &f.gain, 0, 1, "%.2f", imgui.SliderFlagsNone) {
			changed = true
		}
		return changed
	}

	remove := -1
	for i := range f.layers {
		l := &f.layers[i]
		imgui.Text(fmt.Sprintf("Layer %d", i))
		imgui.SameLine()
		if imgui.Button(fmt.Sprintf("Remove##%d", i)) {
			remove = i
		}
		freq, amp := float32(l.Frequency), float32(l.Amplitude)
		if imgui.SliderFloatV(fmt.Sprintf("Frequency##%d", i), &freq, 0.01, 64, "%.3f", imgui.SliderFlagsLogarithmic) {
			l.Frequency = float64(freq)
			changed = true
		}
		if imgui.SliderFloatV(fmt.Sprintf("Amplitude##%d", i), &amp, 0, 1, "%.3f", imgui.SliderFlagsNone) {
			l.Amplitude = float64(amp)
			changed = true
		}
	}
	if remove >= 0 && f.removeLayer(remove) {
		changed = true
	}

	imgui.BeginDisabledV(len(f.layers) >= settings.MaxLayers)
	if imgui.ButtonV("Add layer", imgui.NewVec2(-1, 0)) && f.addLayer() {
		changed = true
	}
	imgui.EndDisabled()
	imgui.TextDisabled(fmt.Sprintf("%d / %d layers", len(f.layers), settings.MaxLayers))

	return changed
}

// apply submits the whole form as a settings change.
func (st *Studio) apply() {
	if err := st.session.Controller.ApplySettings(st.ctx, st.form.raw()); err != nil {
		st.setStatus("%v", err)
		return
	}
	st.setStatus("Rendered %d x %d", st.form.size, st.form.size)
}

func (st *Studio) renderPreview() {
	avail := imgui.ContentRegionAvail()
	w, h := int(avail.X), int(avail.Y)
	if w <= 0 || h <= 0 {
		return
	}

	loop := st.session.Controller.Preview()
	st.session.Targets.SetDisplaySize(w, h)
	if err := loop.Frame(); err != nil {
		st.log.Error("preview frame failed", zap.Error(err))
		return
	}

	surface := ui.TextureSurface(st.session.Targets.GLPreview.ColorTexture(), float32(w), float32(h))
	if surface.Hovered {
		loop.PointerMoved(surface.Mouse.X, surface.Mouse.Y, pipeline.Bounds{
			Left:   surface.Origin.X,
			Top:    surface.Origin.Y,
			Width:  surface.Size.X,
			Height: surface.Size.Y,
		})
	}
}

func (st *Studio) renderStatus() {
	s := st.session.Controller.Settings()
	text := fmt.Sprintf("%dx%d | seed %d | %s", s.Width, s.Height, s.Seed, s.Model.Kind())
	if tex := st.session.Controller.Active(); tex != nil {
		text += fmt.Sprintf(" | texture #%d, %d levels", tex.Seq, len(tex.Levels))
	}
	imgui.Text(text)
	if st.status != "" && time.Since(st.statusTime) < 5*time.Second {
		imgui.SameLine()
		imgui.TextDisabled("| " + st.status)
	}
}

// exportDialog asks for a target file. The result is picked up by render on
// the main thread.
func (st *Studio) exportDialog() {
	dir := st.cfg.Export.Dir
	go func() {
		filename, err := dialog.File().
			Filter("Zip archive", "zip").
			Title("Export cube faces").
			SetStartDir(dir).
			Save()
		if err != nil {
			if err != dialog.ErrCancelled {
				st.log.Warn("file dialog failed", zap.Error(err))
			}
			return
		}
		select {
		case st.exports <- filename:
		default:
		}
	}()
}

func (st *Studio) exportTo(path string) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		path += ".zip"
	}
	if err := st.session.ExportFile(path); err != nil {
		st.setStatus("Export failed: %v", err)
		return
	}
	st.setStatus("Exported %s", path)
	st.backend.SetSubtitle(filepath.Base(path))
}

func (st *Studio) saveSettings() {
	if err := settings.WriteFile(st.settingsPath, st.form.raw()); err != nil {
		st.setStatus("Save failed: %v", err)
		return
	}
	st.setStatus("Saved %s", st.settingsPath)
}

func (st *Studio) screenshot() {
	img, err := st.session.Targets.PreviewImage()
	if err != nil {
		st.setStatus("Screenshot failed: %v", err)
		return
	}
	name, err := st.shots.CaptureFromImage(img)
	if err != nil {
		st.setStatus("Screenshot failed: %v", err)
		return
	}
	st.setStatus("Screenshot saved: %s", name)
}
