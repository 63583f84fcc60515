// Package browse implements the interactive waveform browser.
//
// The browser is a Bubble Tea program with three levels: the mode table,
// the temperature ranges of the selected mode, and the phase rows of the
// selected waveform. Enter drills down, Esc goes back, and "t" jumps
// straight to the range covering a typed temperature.
//
//	m := browse.New("panel.wbf", wbf.WithMaxWaveforms(4096))
//	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
//	    ...
//	}
package browse
