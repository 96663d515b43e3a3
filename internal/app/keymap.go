package app

// Key binding constants used in handleKey.
const (
	KeyQuit       = "q"
	KeyCtrlC      = "ctrl+c"
	KeyEnter      = "enter"
	KeyEsc        = "esc"
	KeyYes        = "y"
	KeyNo         = "n"
	KeyElse       = "e"
	KeyRegenerate = "r"
	KeyClear      = "c"
	KeyDebug      = "d"
	KeyLocale     = "l"
)
