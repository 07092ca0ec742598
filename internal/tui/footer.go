package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// FooterModel renders the status indicator and key hints.
type FooterModel struct {
	help   help.Model
	keymap KeyMap
	paused bool
	done   bool
	failed bool
	width  int
}

// NewFooterModel creates a footer for the default key map.
func NewFooterModel() FooterModel {
	h := help.New()
	h.Styles.ShortKey = footerKeyStyle
	h.Styles.ShortDesc = footerDescStyle
	h.Styles.ShortSeparator = footerDescStyle
	return FooterModel{help: h, keymap: DefaultKeyMap()}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
	f.help.Width = w
}

// SetPaused toggles the paused indicator.
func (f *FooterModel) SetPaused(p bool) { f.paused = p }

// SetDone toggles the done indicator.
func (f *FooterModel) SetDone(d bool) { f.done = d }

// SetError toggles the error indicator.
func (f *FooterModel) SetError(e bool) { f.failed = e }

func (f FooterModel) status() string {
	switch {
	case f.failed:
		return statusErrorStyle.Render(" FAILED ")
	case f.done:
		return statusDoneStyle.Render(" DONE ")
	case f.paused:
		return statusPausedStyle.Render(" PAUSED ")
	default:
		return statusRunningStyle.Render(" RUNNING ")
	}
}

// View renders the footer.
func (f FooterModel) View() string {
	status := f.status()
	hints := f.help.ShortHelpView(f.keymap.ShortHelp())
	gap := max(0, f.width-lipgloss.Width(status)-lipgloss.Width(hints)-1)
	return status + " " + hints + spaces(gap)
}
