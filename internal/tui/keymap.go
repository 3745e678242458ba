package tui

// Key binding constants used in handleKey.
const (
	KeyQuit      = "q"
	KeyCtrlC     = "ctrl+c"
	KeyAlert     = "!"
	KeyCtrlAlert = "ctrl+e"
	KeyEnter     = "enter"
	KeyEsc       = "esc"
	KeySpace     = " "
	KeyTab       = "tab"
	KeyUp        = "up"
	KeyDown      = "down"
	KeyJ         = "j"
	KeyK         = "k"
	KeyLogout    = "l"
	KeyReset     = "r"
	KeyCapture   = "c"
	KeyCopy      = "y"
)
