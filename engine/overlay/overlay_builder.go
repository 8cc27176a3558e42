package overlay

import "io"

// OverlayBuilderOption is a functional option for configuring an Overlay during construction.
type OverlayBuilderOption func(*overlay)

// WithHeader is an option builder that replaces the panel heading. Empty headers are ignored.
//
// Parameters:
//   - header: the heading text
//
// Returns:
//   - OverlayBuilderOption: a function that applies the header to an overlay
func WithHeader(header string) OverlayBuilderOption {
	return func(o *overlay) {
		if header != "" {
			o.header = header
		}
	}
}

// WithOutput is an option builder that sets where the panel is printed when it changes.
//
// Parameters:
//   - w: the writer, usually os.Stdout
//
// Returns:
//   - OverlayBuilderOption: a function that applies the writer to an overlay
func WithOutput(w io.Writer) OverlayBuilderOption {
	return func(o *overlay) {
		o.out = w
	}
}

// WithTitleSetter is an option builder that mirrors the status line into a window title.
//
// Parameters:
//   - t: the title receiver, usually the window
//
// Returns:
//   - OverlayBuilderOption: a function that applies the title setter to an overlay
func WithTitleSetter(t TitleSetter) OverlayBuilderOption {
	return func(o *overlay) {
		o.title = t
	}
}

// WithClipboard is an option builder that replaces the system clipboard.
//
// Parameters:
//   - c: the clipboard
//
// Returns:
//   - OverlayBuilderOption: a function that applies the clipboard to an overlay
func WithClipboard(c Clipboard) OverlayBuilderOption {
	return func(o *overlay) {
		if c != nil {
			o.clipboard = c
		}
	}
}
