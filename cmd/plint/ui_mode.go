package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode is the value of check --ui.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch mode := uiMode(strings.TrimSpace(strings.ToLower(value))); mode {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// wantsProgress decides whether check draws the progress view on stderr
// while it analyses the entry files. A single entry or --quiet never gets
// one; auto needs an interactive stderr outside CI.
func wantsProgress(mode uiMode, files int, quiet bool) bool {
	if files < 2 || quiet {
		return false
	}
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	if os.Getenv("CI") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal(os.Stderr)
}
