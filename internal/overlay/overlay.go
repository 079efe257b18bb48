// Package overlay implements the interactive region capture surface: the
// per-frame update, the layered renderer and the keyboard and pointer
// handling that completes a capture.
package overlay

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"
	"math"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/example/regionshot/internal/anim"
	"github.com/example/regionshot/internal/geom"
	"github.com/example/regionshot/internal/regionpath"
	"github.com/example/regionshot/internal/result"
	"github.com/example/regionshot/internal/shape"
	"github.com/example/regionshot/internal/theme"
)

const (
	// keyGuard is how long after opening keys other than Escape are ignored,
	// so the key that launched the capture does not complete it.
	keyGuard = time.Second

	hoverDuration  = 200 * time.Millisecond
	editorTipShow  = 5 * time.Second
	editorTipFade  = time.Second
	dashPerSecond  = -15.0
	maxBorderSize  = 50
	editorTipText  = "Hold middle mouse button and drag to pan. Press Esc to close."
	defaultProgram = "regionshot"
)

// Overlay is one capture session. Input methods and Frame must be called
// from a single goroutine, normally the Scheduler's.
type Overlay struct {
	opts  Options
	cb    Callbacks
	clock anim.Clock
	theme *theme.Theme

	canvas   *image.RGBA
	screen   geom.Rect
	monitors []geom.Rect
	session  *result.Session

	view     *Viewport
	input    Input
	manager  *shape.Manager
	renderer *Renderer
	fps      *FPSCounter

	uptime     *anim.Stopwatch
	hover      *anim.RectangleAnimation
	editorTip  *anim.TextAnimation
	dashOffset float64

	regions  []shape.RegionShape
	fillPath *regionpath.Path
	drawPath *regionpath.Path

	editing *shape.TextDrawing

	// invalidate is set by the host while window detection may already
	// be publishing.
	invalidate atomic.Pointer[func()]

	mu       sync.Mutex
	closed   bool
	mode     result.Mode
	monitor  int
	title    string
	disposed bool
	done     chan struct{}
}

// Option modifies an Overlay during creation.
type Option func(*Overlay)

// WithOptions replaces the default Options.
func WithOptions(opts Options) Option { return func(o *Overlay) { o.opts = opts } }

// WithCallbacks registers the completion callbacks.
func WithCallbacks(cb Callbacks) Option { return func(o *Overlay) { o.cb = cb } }

// WithClock sets the time source of animations, the key guard and FPS.
func WithClock(c anim.Clock) Option { return func(o *Overlay) { o.clock = c } }

// WithTheme sets the overlay colours.
func WithTheme(t *theme.Theme) Option { return func(o *Overlay) { o.theme = t } }

// WithScreen places the client area on the desktop. It defaults to the
// canvas bounds at the desktop origin.
func WithScreen(r geom.Rect) Option { return func(o *Overlay) { o.screen = r } }

// WithMonitors sets the monitor rectangles in screen coordinates.
func WithMonitors(m []geom.Rect) Option { return func(o *Overlay) { o.monitors = m } }

// WithSession shares the last region between overlays.
func WithSession(s *result.Session) Option { return func(o *Overlay) { o.session = s } }

// WithInvalidator registers the function that requests a frame, usually
// Scheduler.Invalidate.
func WithInvalidator(fn func()) Option { return func(o *Overlay) { o.SetInvalidator(fn) } }

// SetInvalidator replaces the frame request function. It is safe to call
// while background publishers are running.
func (o *Overlay) SetInvalidator(fn func()) {
	if fn == nil {
		o.invalidate.Store(nil)
		return
	}
	o.invalidate.Store(&fn)
}

// New creates an overlay over canvas.
func New(canvas *image.RGBA, opts ...Option) *Overlay {
	if canvas == nil {
		canvas = image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	o := &Overlay{
		opts:   DefaultOptions(),
		clock:  anim.SystemClock{},
		theme:  theme.Default(),
		canvas: canvas,
		screen: geom.FromImageRect(canvas.Bounds()),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.opts.Program == "" {
		o.opts.Program = defaultProgram
	}
	if o.session == nil {
		o.session = result.NewSession()
	}
	if len(o.monitors) == 0 {
		o.monitors = []geom.Rect{o.screen}
	}

	client := geom.R(0, 0, o.screen.W, o.screen.H)
	size := geom.FromImageRect(canvas.Bounds()).Size()
	o.view = NewViewport(client, size)
	o.manager = shape.NewManager(o.clock, client, shape.Options{
		SnapSizes:     o.opts.SnapSizes,
		DetectWindows: o.opts.DetectWindows && o.opts.Mode != ModeEditor,
		EditorMode:    o.opts.isEditor(),
		Styles:        o.opts.Styles,
	})
	if o.opts.isEditor() {
		o.view.Center()
	}
	o.renderer = NewRenderer()
	o.fps = NewFPSCounter(o.clock)
	o.uptime = anim.NewStopwatch(o.clock)
	o.uptime.Start()
	o.hover = anim.NewRectangleAnimation(o.clock, hoverDuration)
	o.editorTip = anim.NewTextAnimation(o.clock, editorTipShow, editorTipFade)
	o.editorTip.Text = editorTipText
	if o.opts.isEditor() && o.opts.ShowEditorTip {
		o.editorTip.Start()
	}
	o.title = o.buildTitle()
	return o
}

// Manager exposes the shape collection.
func (o *Overlay) Manager() *shape.Manager { return o.manager }

// Mode is the behaviour the overlay was created with.
func (o *Overlay) Mode() Mode { return o.opts.Mode }

// Space returns the current coordinate frames.
func (o *Overlay) Space() geom.Space { return o.view.Space(o.screen.Location()) }

// Client is the client area.
func (o *Overlay) Client() geom.Rect { return o.view.Client }

// IsModified reports whether the shapes changed since the last hand off.
func (o *Overlay) IsModified() bool { return o.manager.IsModified() }

// FPS is the measured frame rate.
func (o *Overlay) FPS() int { return o.fps.FPS() }

// Title is the current window title.
func (o *Overlay) Title() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.title
}

// Result is how the overlay was completed. It is Close until then.
func (o *Overlay) Result() result.Mode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mode
}

// MonitorIndex is the monitor picked with a digit key.
func (o *Overlay) MonitorIndex() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.monitor
}

// Done is closed when the overlay completes.
func (o *Overlay) Done() <-chan struct{} { return o.done }

func (o *Overlay) isClosed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}

// Close completes the overlay with mode. Only the first call counts.
func (o *Overlay) Close(mode result.Mode) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed, o.mode = true, mode
	o.mu.Unlock()
	close(o.done)
	if o.cb.Closed != nil {
		o.cb.Closed(mode)
	}
}

func (o *Overlay) closeMonitor(index int) {
	o.mu.Lock()
	o.monitor = index
	o.mu.Unlock()
	o.Close(result.Monitor)
}

// requestClose closes without a result. The editor asks first when there
// are unsaved edits.
func (o *Overlay) requestClose() {
	if o.opts.isEditor() && o.manager.IsModified() && o.cb.ConfirmClose != nil && !o.cb.ConfirmClose() {
		return
	}
	o.Close(result.Close)
}

func (o *Overlay) requestFrame() {
	if fn := o.invalidate.Load(); fn != nil {
		(*fn)()
	}
}

// Resize follows a change of the client area size.
func (o *Overlay) Resize(w, h float64) {
	o.screen.W, o.screen.H = w, h
	d := o.view.Resize(geom.R(0, 0, w, h), o.opts.isEditor())
	o.manager.MoveAll(d.X, d.Y)
	o.manager.SetBounds(o.view.Client)
}

// StartWindowDetection enumerates windows in the background and makes them
// hover targets once found.
func (o *Overlay) StartWindowDetection(ctx context.Context, list WindowLister) *WindowEnumerator {
	e := NewWindowEnumerator(list, WindowTimeout)
	if !o.opts.DetectWindows || o.opts.isEditor() || list == nil {
		return e
	}
	loc := o.screen.Location()
	e.Start(ctx, func(rects []geom.Rect) {
		client := make([]geom.Rect, 0, len(rects))
		for _, r := range rects {
			client = append(client, r.Move(-loc.X, -loc.Y))
		}
		o.manager.SetWindows(client)
		o.requestFrame()
	})
	return e
}

// Frame updates the scene and draws it. It reports whether another frame
// is wanted for animation.
func (o *Overlay) Frame(ctx context.Context) bool {
	if o.isDisposed() {
		return false
	}
	o.update()
	if err := o.draw(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("overlay: draw frame: %v", err)
	}
	if o.fps.Tick() {
		o.refreshTitle()
	}
	return o.animating()
}

func (o *Overlay) update() {
	o.input.Sample(o.Space())
	if o.manager.IsPanning() {
		d := o.view.Pan(o.input.Velocity, true)
		o.manager.MoveAll(d.X, d.Y)
		o.view.UpdateCenterOffset()
		o.input.Sample(o.Space())
	}
	o.manager.Update(o.input.Client)
	if o.opts.EnableAnimations {
		o.dashOffset = o.uptime.Elapsed().Seconds() * dashPerSecond
	}
	o.updateRegionPath()
}

// updateRegionPath rebuilds the fill and draw paths from the valid regions.
func (o *Overlay) updateRegionPath() {
	o.regions = o.manager.ValidRegions()
	o.fillPath, o.drawPath = nil, nil
	if len(o.regions) > 0 {
		o.fillPath = regionpath.Merge(o.regions, 0)
		o.drawPath = regionpath.Merge(o.regions, -1)
	}
}

func (o *Overlay) animating() bool {
	if !o.opts.EnableAnimations {
		return false
	}
	return len(o.regions) > 0 || o.hover.IsActive() || o.manager.Tooltip.IsActive() ||
		o.editorTip.IsActive() || o.manager.IsCreating()
}

// MouseMove records the pointer position in client coordinates.
func (o *Overlay) MouseMove(p geom.Point, mods Modifiers) {
	o.input.Client = p
	o.input.Mods = mods
	o.manager.SetSnapping(mods&ModShift != 0)
}

// MouseDown handles a button press at p.
func (o *Overlay) MouseDown(b Button, p geom.Point, mods Modifiers) {
	o.MouseMove(p, mods)
	o.input.Buttons |= b
	if o.isClosed() {
		return
	}
	switch b {
	case ButtonLeft:
		if o.editing != nil {
			o.endTextEdit()
		}
		if o.opts.Mode == ModeOneClick {
			o.manager.Update(p)
			o.manager.SelectHover()
			o.Close(result.Region)
			return
		}
		if o.manager.StartMove(p) {
			return
		}
		o.manager.StartCreation(p)
	case ButtonMiddle:
		o.manager.SetPanning(true)
	case ButtonRight:
		switch {
		case o.manager.HandleEscape():
		case o.manager.HitTest(p) != nil:
			o.manager.DeleteShape(o.manager.HitTest(p))
		case !o.opts.isEditor():
			o.requestClose()
		}
	}
}

// MouseUp handles a button release at p.
func (o *Overlay) MouseUp(b Button, p geom.Point, mods Modifiers) {
	o.MouseMove(p, mods)
	o.input.Buttons &^= b
	if o.isClosed() {
		return
	}
	switch b {
	case ButtonLeft:
		if o.manager.IsMoving() {
			o.manager.Update(p)
			o.manager.EndMove()
			return
		}
		if !o.manager.IsCreating() {
			return
		}
		o.manager.Update(p)
		s := o.manager.EndCreation()
		if s == nil {
			return
		}
		if t, ok := s.(*shape.TextDrawing); ok {
			o.editing = t
			return
		}
		if s.Category() == shape.Region && o.opts.Mode == ModeRegion && o.opts.QuickCrop {
			o.Close(result.Region)
		}
	case ButtonMiddle:
		o.manager.SetPanning(false)
	}
}

// FocusChanged records focus. The host pauses the scheduler while the
// overlay is in the background.
func (o *Overlay) FocusChanged(focused bool) {
	if !focused {
		o.input.Buttons = 0
		o.manager.SetPanning(false)
	}
}

// KeyDown handles one key press.
func (o *Overlay) KeyDown(k Key) {
	if o.isClosed() {
		return
	}
	if k.Code == KeyEscape {
		switch {
		case o.editing != nil:
			o.endTextEdit()
		case o.manager.HandleEscape():
		default:
			o.requestClose()
		}
		return
	}
	if o.uptime.Elapsed() < keyGuard {
		return
	}
	if o.editing != nil {
		o.editText(k)
		return
	}
	if k.ctrl() {
		o.shortcut(k)
		return
	}
	switch k.Code {
	case KeyEnter:
		o.complete()
		return
	case KeyDelete:
		o.manager.DeleteCurrent()
		return
	}
	o.runeKey(k)
}

func (o *Overlay) complete() {
	if o.opts.isEditor() {
		o.Close(result.Editor)
		return
	}
	if len(o.manager.ValidRegions()) == 0 {
		o.manager.SelectHover()
	}
	o.Close(result.Region)
}

var (
	regionTools = map[rune]shape.Type{
		'r': shape.RegionRectangle,
		'e': shape.RegionEllipse,
		'f': shape.RegionFreehand,
	}
	editorTools = map[rune]shape.Type{
		'r': shape.DrawingRectangle,
		'e': shape.DrawingEllipse,
		'f': shape.DrawingFreehand,
		'l': shape.DrawingLine,
		'a': shape.DrawingArrow,
		't': shape.DrawingText,
		's': shape.DrawingStep,
		'b': shape.EffectBlur,
		'p': shape.EffectPixelate,
		'h': shape.EffectHighlight,
		'c': shape.ToolCrop,
		'g': shape.RegionRectangle,
	}
)

func (o *Overlay) runeKey(k Key) {
	r := k.Rune
	editor := o.opts.isEditor()
	switch {
	case r == ' ' && !editor:
		o.Close(result.Fullscreen)
	case (r == '~' || r == '`') && !editor:
		o.Close(result.ActiveMonitor)
	case r >= '0' && r <= '9' && !editor:
		i := int(r - '0')
		if i == 0 {
			i = 10
		}
		o.closeMonitor(i - 1)
	case r == '[':
		o.changeBorderSize(-1)
	case r == ']':
		o.changeBorderSize(1)
	case r == 'm':
		o.opts.ShowMagnifier = !o.opts.ShowMagnifier
		o.toggled("Magnifier", o.opts.ShowMagnifier)
	case r == 'i':
		o.opts.ShowInfo = !o.opts.ShowInfo
		o.toggled("Info", o.opts.ShowInfo)
	case r == 'x':
		o.opts.ShowCrosshair = !o.opts.ShowCrosshair
		o.toggled("Crosshair", o.opts.ShowCrosshair)
	default:
		tools := regionTools
		if editor {
			tools = editorTools
		}
		if t, ok := tools[unicode.ToLower(r)]; ok {
			o.manager.SetCurrentType(t, o.input.Client)
		}
	}
}

func (o *Overlay) toggled(name string, on bool) {
	state := "off"
	if on {
		state = "on"
	}
	o.manager.ShowTooltip(name+": "+state, o.input.Client)
}

func (o *Overlay) changeBorderSize(d float64) {
	t := o.manager.CurrentType()
	st := o.manager.StyleFor(t)
	st.BorderSize = geom.Clamp(st.BorderSize+d, 0, maxBorderSize)
	o.manager.SetTypeStyle(t, st)
	if s := o.manager.CurrentShape(); s != nil && s.Type() == t {
		o.manager.SetStyle(s, st)
	}
	o.manager.ShowTooltip(fmt.Sprintf("Border size: %g", st.BorderSize), o.input.Client)
}

func (o *Overlay) shortcut(k Key) {
	switch unicode.ToLower(k.Rune) {
	case 'c':
		if k.shift() && o.opts.isEditor() {
			o.CopyImage()
			return
		}
		o.copyAreaInfo()
	case 's':
		if !o.opts.isEditor() {
			return
		}
		if k.shift() {
			o.SaveAs()
			return
		}
		o.Save()
	case 'u':
		if o.opts.isEditor() {
			o.UploadImage()
		}
	case 'p':
		if o.opts.isEditor() {
			o.PrintImage()
		}
	case 'z':
		o.manager.Undo()
	}
}

func (o *Overlay) editText(k Key) {
	t := o.editing
	switch {
	case k.Code == KeyEnter:
		o.endTextEdit()
	case k.Code == KeyBackspace:
		if r := []rune(t.Text); len(r) > 0 {
			o.manager.SetText(t, string(r[:len(r)-1]))
		}
	case k.Rune != 0 && unicode.IsPrint(k.Rune):
		o.manager.SetText(t, t.Text+string(k.Rune))
	}
}

// endTextEdit finishes typing into a text shape. Empty boxes are dropped.
func (o *Overlay) endTextEdit() {
	t := o.editing
	o.editing = nil
	if t != nil && t.Text == "" {
		o.manager.DeleteShape(t)
	}
}

// TypingText reports whether key presses go into a text shape.
func (o *Overlay) TypingText() bool { return o.editing != nil }

func (o *Overlay) copyAreaInfo() {
	if o.cb.CopyText == nil {
		return
	}
	text := o.infoText()
	if o.manager.IsCurrentShapeValid() {
		text = o.areaText(o.manager.CurrentRectangle())
	}
	o.cb.CopyText(text)
	o.manager.ShowTooltip("Copied", o.input.Client)
}

// areaText describes a region rectangle given in client coordinates.
func (o *Overlay) areaText(r geom.Rect) string {
	if o.opts.isEditor() {
		r = o.Space().RectClientToCanvas(r)
	} else if o.opts.Mode == ModeRuler {
		start := r.Location()
		end := geom.Pt(r.Right()-1, r.Bottom()-1)
		return fmt.Sprintf("X: %d | Y: %d | Right: %d | Bottom: %d\n", ri(r.X), ri(r.Y), ri(end.X), ri(end.Y)) +
			fmt.Sprintf("Width: %d px | Height: %d px | Area: %d px | Perimeter: %d px\n", ri(r.W), ri(r.H), ri(r.Area()), ri(r.Perimeter())) +
			fmt.Sprintf("Distance: %.2f px | Angle: %.2f°", geom.Distance(start, end), geom.Angle(start, end))
	}
	return fmt.Sprintf("X: %d Y: %d W: %d H: %d", ri(r.X), ri(r.Y), ri(r.W), ri(r.H))
}

// infoText describes the pointer position.
func (o *Overlay) infoText() string {
	p := o.input.Screen
	if o.opts.isEditor() {
		p = o.input.Canvas
	}
	return fmt.Sprintf("X: %d Y: %d", ri(p.X), ri(p.Y))
}

func ri(v float64) int { return int(math.Round(v)) }

func (o *Overlay) buildTitle() string {
	if !o.opts.isEditor() {
		return o.opts.Program + " - Region capture"
	}
	b := o.canvas.Bounds()
	t := fmt.Sprintf("%s - Image editor - %dx%d", o.opts.Program, b.Dx(), b.Dy())
	if o.opts.File != "" {
		t += " - " + filepath.Base(o.opts.File)
	}
	if o.opts.ShowFPS {
		t += fmt.Sprintf(" - FPS: %d", o.fps.FPS())
	}
	return t
}

func (o *Overlay) refreshTitle() {
	t := o.buildTitle()
	o.mu.Lock()
	changed := t != o.title
	o.title = t
	o.mu.Unlock()
	if changed && o.cb.Title != nil {
		o.cb.Title(t)
	}
}

// Output extracts the result image of a completed overlay. It must run
// before Dispose and not concurrently with Frame.
func (o *Overlay) Output() (*image.RGBA, bool) {
	mode := o.Result()
	if mode == result.Close {
		return nil, false
	}
	return result.Extract(o.request(mode))
}

func (o *Overlay) request(mode result.Mode) result.Request {
	space := o.Space()
	return result.Request{
		Mode:         mode,
		Editor:       o.opts.isEditor(),
		Canvas:       o.canvas,
		Space:        space,
		Shapes:       o.manager,
		Monitors:     o.monitors,
		MonitorIndex: o.MonitorIndex(),
		Cursor:       space.ClientToScreen(o.input.Client),
		Session:      o.session,
	}
}

// receiveImage hands the edited image to task, then clears the modified
// flag and closes the editor when configured to.
func (o *Overlay) receiveImage(task func(img *image.RGBA)) {
	img, ok := result.Extract(o.request(result.Editor))
	if !ok {
		return
	}
	task(img)
	o.manager.ResetModified()
	if o.opts.AutoCloseEditor {
		o.Close(result.Editor)
	}
}

// Save stores the edited image at the current file.
func (o *Overlay) Save() {
	if o.cb.Save == nil {
		return
	}
	o.receiveImage(func(img *image.RGBA) { o.saved(o.cb.Save(img, o.opts.File)) })
}

// SaveAs stores the edited image at a new path.
func (o *Overlay) SaveAs() {
	if o.cb.SaveAs == nil {
		return
	}
	o.receiveImage(func(img *image.RGBA) { o.saved(o.cb.SaveAs(img, o.opts.File)) })
}

func (o *Overlay) saved(path string) {
	if path == "" {
		return
	}
	o.opts.File = path
	o.refreshTitle()
	o.manager.ShowTooltip("Saved: "+filepath.Base(path), o.input.Client)
}

// CopyImage hands the edited image to the Copy callback.
func (o *Overlay) CopyImage() {
	if o.cb.Copy == nil {
		return
	}
	o.receiveImage(func(img *image.RGBA) {
		o.cb.Copy(img)
		o.manager.ShowTooltip("Copied", o.input.Client)
	})
}

// UploadImage hands the edited image to the Upload callback.
func (o *Overlay) UploadImage() {
	if o.cb.Upload != nil {
		o.receiveImage(o.cb.Upload)
	}
}

// PrintImage hands the edited image to the Print callback.
func (o *Overlay) PrintImage() {
	if o.cb.Print != nil {
		o.receiveImage(o.cb.Print)
	}
}

// Image returns a copy of the last drawn frame.
func (o *Overlay) Image() *image.RGBA {
	src := o.renderer.Image()
	if src == nil {
		return nil
	}
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	return out
}

// DrawLegacy is the immediate mode raster entry point. The overlay only
// draws through its vector render target, so calling it is a programming
// error.
func (o *Overlay) DrawLegacy(dst draw.Image) {
	panic(fmt.Sprintf("overlay: cannot draw to %T, use Frame", dst))
}

func (o *Overlay) isDisposed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.disposed
}

// Dispose releases the session. A completed region becomes the last region
// of the shared session, stored in screen coordinates.
func (o *Overlay) Dispose() {
	o.mu.Lock()
	if o.disposed {
		o.mu.Unlock()
		return
	}
	o.disposed = true
	mode := o.mode
	o.mu.Unlock()

	if mode == result.Region {
		if p := regionpath.Merge(o.manager.ValidRegions(), 0); !p.IsEmpty() {
			s := o.screen.Location()
			p.Translate(s.X, s.Y)
			o.session.SetLastRegion(p)
		}
	}
	o.manager.Dispose()
	if err := o.renderer.Close(); err != nil {
		log.Printf("overlay: release renderer: %v", err)
	}
}
