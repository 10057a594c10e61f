// Package logtail reads the tail of basket's log file for the log pane.
//
// Read keeps a ring buffer of the last maxLines lines, so memory stays
// bounded by the window rather than the file. Missing files read as empty.
//
// The interactive client writes zap JSON records. Parse turns one line into
// an Entry with its timestamp, level, message and remaining fields (such as
// product_id and check_id). Anything that is not a JSON record is kept
// verbatim.
package logtail
