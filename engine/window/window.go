package window

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// KeyAction distinguishes the first press of a key from auto-repeat and release.
type KeyAction int

const (
	KeyPress KeyAction = iota
	KeyRepeat
	KeyRelease
)

// MouseButton identifies a mouse button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up, negative = down)
	SetScrollCallback(callback func(delta float32))

	// SetKeyCallback sets the callback for keyboard events. Key codes follow common.Key*.
	//
	// Parameters:
	//   - callback: function receiving the key code and whether it was pressed, repeated or released
	SetKeyCallback(callback func(key uint32, action KeyAction))

	// SetMouseButtonCallback sets the callback for mouse button presses and releases.
	//
	// Parameters:
	//   - callback: function receiving the button, its new state and the cursor position
	SetMouseButtonCallback(callback func(button MouseButton, pressed bool, x, y float32))

	// SetCursorCallback sets the callback for cursor movement within the window.
	SetCursorCallback(callback func(x, y float32))

	// SetTitle replaces the title bar text. Safe to call from any goroutine; the change is
	// applied on the window thread during the next message loop iteration.
	SetTitle(title string)

	// Title returns the most recently requested title.
	Title() string

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	mu sync.Mutex

	title        string
	pendingTitle bool
	closeOnEsc   bool

	minWidth, minHeight int
	width, height       int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate      func()
	onResize      func(width, height int)
	onScroll      func(delta float32)
	onKey         func(key uint32, action KeyAction)
	onMouseButton func(button MouseButton, pressed bool, x, y float32)
	onCursor      func(x, y float32)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: an error if the platform window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:      "Robot Controller",
		closeOnEsc: true,
		minWidth:   320,
		minHeight:  240,
		width:      1280,
		height:     720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyCallback(callback func(key uint32, action KeyAction)) {
	w.onKey = callback
}

func (w *engineWindow) SetMouseButtonCallback(callback func(button MouseButton, pressed bool, x, y float32)) {
	w.onMouseButton = callback
}

func (w *engineWindow) SetCursorCallback(callback func(x, y float32)) {
	w.onCursor = callback
}

func (w *engineWindow) SetTitle(title string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if title == w.title {
		return
	}
	w.title = title
	w.pendingTitle = true
}

func (w *engineWindow) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

// takeTitle returns the title if it changed since the last call.
func (w *engineWindow) takeTitle() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.pendingTitle {
		return "", false
	}
	w.pendingTitle = false
	return w.title, true
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}
		if title, ok := w.takeTitle(); ok {
			platformSetTitle(w, title)
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
