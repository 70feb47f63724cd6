package tui

// Key binding constants used in handleKey.
const (
	KeyCtrlC     = "ctrl+c"
	KeyEnter     = "enter"
	KeyUp        = "up"
	KeyDown      = "down"
	KeyJ         = "j"
	KeyK         = "k"
	KeyBackspace = "backspace"
	KeyClearLine = "ctrl+u"
	KeyReport    = "ctrl+r"
	KeyEnd       = "ctrl+e"
	KeyReset     = "esc"
)
