package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file is not an error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// zap's ISO8601 time encoder layout.
const zapTimeLayout = "2006-01-02T15:04:05.000Z0700"

// Entry is one decoded log line.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Fields  map[string]any
	Raw     string
}

// Structured reports whether the line decoded as a JSON log record.
func (e Entry) Structured() bool {
	return e.Level != ""
}

// Parse decodes a JSON log record. Lines that are not JSON come back with
// only Raw and Message set.
func Parse(line string) Entry {
	entry := Entry{Raw: line, Message: line}

	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return entry
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(trimmed), &record); err != nil {
		return entry
	}

	level, _ := record["level"].(string)
	if level == "" {
		return entry
	}
	entry.Level = strings.ToLower(level)
	if msg, ok := record["msg"].(string); ok {
		entry.Message = msg
	}
	if ts, ok := record["ts"].(string); ok {
		if parsed, err := time.Parse(zapTimeLayout, ts); err == nil {
			entry.Time = parsed
		} else if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			entry.Time = parsed
		}
	}

	for _, key := range []string{"level", "msg", "ts", "caller", "stacktrace", "logger"} {
		delete(record, key)
	}
	if len(record) > 0 {
		entry.Fields = record
	}
	return entry
}

// ParseLines decodes each line in order.
func ParseLines(lines []string) []Entry {
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, Parse(line))
	}
	return entries
}

// FieldString renders the entry's extra fields as sorted key=value pairs.
func (e Entry) FieldString() string {
	if len(e.Fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", key, e.Fields[key]))
	}
	return strings.Join(parts, " ")
}

// String formats the entry as a single display line.
func (e Entry) String() string {
	if !e.Structured() {
		return e.Raw
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s %s", strings.ToUpper(e.Level), e.Message)
	if fields := e.FieldString(); fields != "" {
		b.WriteByte(' ')
		b.WriteString(fields)
	}
	return b.String()
}
