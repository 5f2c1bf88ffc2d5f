package overlay

import "gocv.io/x/gocv"

// DefaultTitle is the preview window title.
const DefaultTitle = "Emotion & Attention Monitor"

// Window is a native preview window.
type Window struct {
	win *gocv.Window
}

// NewWindow opens a preview window.
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

// Show displays img and polls the keyboard for 1ms. It reports whether the
// user asked to quit.
func (w *Window) Show(img gocv.Mat) bool {
	w.win.IMShow(img)
	return IsQuitKey(w.win.WaitKey(1))
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}

// IsQuitKey reports whether key is q.
func IsQuitKey(key int) bool {
	return key >= 0 && key&0xFF == 'q'
}
