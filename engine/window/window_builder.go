package window

// WindowBuilderOption is a functional option for configuring an engineWindow.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithMinWidth sets the smallest width the window can be resized to.
//
// Parameters:
//   - minWidth: minimum width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinWidth(minWidth int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = minWidth
	}
}

// WithMinHeight sets the smallest height the window can be resized to.
//
// Parameters:
//   - minHeight: minimum height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithMinHeight(minHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minHeight = minHeight
	}
}

// WithWidth sets the requested initial width. The framebuffer may differ on high-DPI displays.
//
// Parameters:
//   - width: initial width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
	}
}

// WithHeight sets the initial window height.
//
// Parameters:
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.height = height
	}
}

// WithPointerLockOnClick captures the pointer when the window is left-clicked.
//
// Parameters:
//   - enabled: true to lock on click (default)
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithPointerLockOnClick(enabled bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.lockOnClick = enabled
	}
}

// WithCloseOnEscape closes the window when Escape is pressed while the pointer is free.
// Escape always releases a locked pointer first.
//
// Parameters:
//   - enabled: true to close on Escape (default)
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithCloseOnEscape(enabled bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.closeOnEscape = enabled
	}
}
