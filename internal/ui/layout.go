package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the catalog and cart
	// stack vertically.
	LayoutCompactWidth = 100
)

// Log display limits.
const (
	// LogTailLines is how many lines are read from the end of the log file.
	LogTailLines = 500

	// LogPaneHeight is the log pane height including its border.
	LogPaneHeight = 10
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second
)
