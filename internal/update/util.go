package update

import "github.com/atotto/clipboard"

func writeClipboard(text string) error {
	return clipboard.WriteAll(text)
}

// WithClipboard replaces the clipboard writer used by CopyTask.
func (m Model) WithClipboard(write func(string) error) Model {
	if write != nil {
		m.clipboard = write
	}
	return m
}
