package tui

// Keybinding constants
const (
	KeyTab      = "tab"
	KeyShiftTab = "shift+tab"
	KeyQuit     = "q"
	KeyCtrlC    = "ctrl+c"
	KeyView1    = "1"
	KeyView2    = "2"
	KeyView3    = "3"
	KeyUp       = "up"
	KeyDown     = "down"
	KeyLeft     = "left"
	KeyRight    = "right"
	KeyJ        = "j"
	KeyK        = "k"
	KeyEnter    = "enter"
	KeyEsc      = "esc"
	KeySpace    = " "
	KeySettings = "s"
	KeyGoal     = "g"
	KeyRefresh  = "r"
	KeyZoomIn   = "+"
	KeyZoomOut  = "-"
	KeySubmit   = "ctrl+s"
	KeyTimer    = "ctrl+t"
)

// HelpView returns a one-line help bar with common keybindings.
func HelpView() string {
	return StyleHelp.Render("Tab: cycle view | 1/2/3: jump | j/k: select | enter: open task | g: plan goal | +/-: zoom radar | r: refresh | s: settings | q: quit")
}

// modalHelpView is the help bar shown while the task modal is open.
func modalHelpView() string {
	return StyleHelp.Render("ctrl+t: start/pause timer | ctrl+s: submit proof | esc: close")
}
