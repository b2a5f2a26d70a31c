package main

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusOK statusKind = iota
	statusWarn
	statusError
)

var statusStyles = map[statusKind]struct {
	label  string
	colors text.Colors
}{
	statusOK:    {"OK", text.Colors{text.FgGreen}},
	statusWarn:  {"WARN", text.Colors{text.FgYellow}},
	statusError: {"ERROR", text.Colors{text.FgRed, text.Bold}},
}

// statusCell renders a status label, coloured when writing to a terminal.
func statusCell(kind statusKind, colorize bool) string {
	style, ok := statusStyles[kind]
	if !ok {
		style = statusStyles[statusError]
	}
	if !colorize {
		return style.label
	}
	return style.colors.Sprint(style.label)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
