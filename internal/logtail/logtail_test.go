package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{"read all (0)", 0, expectedAll},
		{"read all (negative)", -1, expectedAll},
		{"read partial (5)", 5, expectedAll[5:]},
		{"read exactly all (10)", 10, expectedAll},
		{"read more than exists (20)", 20, expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != nil {
		t.Fatalf("Read() = %v, want nil", got)
	}
}

func TestParse_ZapRecord(t *testing.T) {
	line := `{"level":"warn","ts":"2026-03-01T10:15:30.250Z","msg":"stock check failed","product_id":3,"check_id":"abc","error":"connection refused"}`

	entry := Parse(line)
	if !entry.Structured() {
		t.Fatalf("Parse(%q) not structured", line)
	}
	if entry.Level != "warn" {
		t.Errorf("Level = %q, want warn", entry.Level)
	}
	if entry.Message != "stock check failed" {
		t.Errorf("Message = %q", entry.Message)
	}
	want := time.Date(2026, 3, 1, 10, 15, 30, 250*int(time.Millisecond), time.UTC)
	if !entry.Time.Equal(want) {
		t.Errorf("Time = %v, want %v", entry.Time, want)
	}
	if got := entry.FieldString(); got != "check_id=abc error=connection refused product_id=3" {
		t.Errorf("FieldString() = %q", got)
	}
	if s := entry.String(); !strings.Contains(s, "WARN  stock check failed check_id=abc") {
		t.Errorf("String() = %q", s)
	}
}

func TestParse_PlainLinesKeptVerbatim(t *testing.T) {
	tests := []string{
		"",
		"plain text line",
		"{not json",
		`{"msg":"no level"}`,
	}
	for _, line := range tests {
		entry := Parse(line)
		if entry.Structured() {
			t.Errorf("Parse(%q) structured, want plain", line)
		}
		if entry.String() != line {
			t.Errorf("Parse(%q).String() = %q", line, entry.String())
		}
	}
}

func TestParseLines_PreservesOrder(t *testing.T) {
	entries := ParseLines([]string{
		`{"level":"info","msg":"first"}`,
		"second",
	})
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Message != "first" || entries[1].Message != "second" {
		t.Fatalf("entries = %+v", entries)
	}
	if entries[0].String() != "INFO  first" {
		t.Fatalf("String() = %q, want %q", entries[0].String(), "INFO  first")
	}
}
