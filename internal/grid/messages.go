package grid

import tea "github.com/charmbracelet/bubbletea"

// RowsLoadedMsg carries one fetch result back into the event loop.
// Table routes the message to the owning controller; Seq identifies the
// request so superseded responses can be discarded.
type RowsLoadedMsg struct {
	Table   string
	Seq     int
	Count   int
	Results []Record
	Err     error
}

// NavigateMsg asks the shell to open a detail URL.
type NavigateMsg struct {
	URL string
}

func NavigateCmd(url string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{URL: url} }
}
