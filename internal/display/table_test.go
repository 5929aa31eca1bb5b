package display

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNewTable(t *testing.T) {
	tbl := NewTable([]string{"Name", "Value"})
	if tbl == nil {
		t.Fatal("NewTable returned nil")
	}
	if tbl.highlightRow != -1 {
		t.Errorf("highlightRow = %d, want -1", tbl.highlightRow)
	}
}

func TestTable_EmptyHeaders(t *testing.T) {
	tbl := NewTable([]string{})
	got := tbl.Render()
	if got != "" {
		t.Errorf("Render() with empty headers = %q, want empty", got)
	}
}

func TestTable_BasicRender(t *testing.T) {
	SetEnabled(false) // disable colors for predictable output

	tbl := NewTable([]string{"Prayer", "Time"})
	tbl.AddRow([]string{"الفجر", "4:57 ص"})
	tbl.AddRow([]string{"الظهر", "12:13 م"})

	got := tbl.Render()

	// Check header is present.
	if !strings.Contains(got, "Prayer") || !strings.Contains(got, "Time") {
		t.Errorf("Render() missing headers in:\n%s", got)
	}

	// Check separator exists (Unicode dashes).
	if !strings.Contains(got, "─") {
		t.Error("Render() missing separator line")
	}

	// Check data rows.
	if !strings.Contains(got, "الفجر") {
		t.Error("Render() missing first data row")
	}
	if !strings.Contains(got, "4:57 ص") || !strings.Contains(got, "12:13 م") {
		t.Error("Render() missing prayer time values")
	}
}

func TestTable_ColumnAlignment(t *testing.T) {
	SetEnabled(false)

	tbl := NewTable([]string{"A", "LongHeader"})
	tbl.AddRow([]string{"short", "x"})
	tbl.AddRow([]string{"y", "longer value"})

	got := tbl.Render()
	lines := strings.Split(strings.TrimSpace(got), "\n")

	// Should have 4 lines: header, separator, 2 data rows.
	if len(lines) != 4 {
		t.Errorf("expected 4 lines, got %d:\n%s", len(lines), got)
	}
}

func TestTable_ArabicAlignment(t *testing.T) {
	SetEnabled(false)

	// Arabic names are multi-byte but should pad to the same rune width as
	// Latin cells in the same column.
	tbl := NewTable([]string{"Prayer", "Time"})
	tbl.AddRow([]string{"الفجر", "4:57"})
	tbl.AddRow([]string{"Maghrib", "18:00"})

	lines := strings.Split(strings.TrimSpace(tbl.Render()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}

	// Every line should have the same rune length.
	first := utf8.RuneCountInString(lines[2])
	second := utf8.RuneCountInString(lines[3])
	if first != second {
		t.Errorf("rows have different rune widths: %d vs %d\n%s", first, second, strings.Join(lines, "\n"))
	}
}

func TestTable_HighlightRow(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	tbl := NewTable([]string{"Prayer", "Time"})
	tbl.AddRow([]string{"الفجر", "05:00"})
	tbl.AddRow([]string{"الظهر", "12:13"})
	tbl.SetHighlightRow(0)

	got := tbl.Render()

	// The highlighted row should contain ANSI codes.
	lines := strings.Split(got, "\n")
	// Line 0 is header, line 1 is separator, line 2 is first data row (highlighted).
	if len(lines) < 3 {
		t.Fatalf("expected at least 3 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[2], "\033[") {
		t.Error("highlighted row should contain ANSI escape codes")
	}
}

func TestFormatRow(t *testing.T) {
	got := formatRow([]string{"abc", "de"}, []int{5, 4})
	want := "abc    de  "
	if got != want {
		t.Errorf("formatRow = %q, want %q", got, want)
	}
}

func TestFormatRow_ArabicWidth(t *testing.T) {
	// "الفجر" is 5 runes; padded to width 7 it should gain 2 spaces.
	got := formatRow([]string{"الفجر"}, []int{7})
	if utf8.RuneCountInString(got) != 7 {
		t.Errorf("formatRow rune width = %d, want 7 (%q)", utf8.RuneCountInString(got), got)
	}
}

func TestFormatRow_MissingCells(t *testing.T) {
	// Fewer cells than widths should produce empty-padded columns.
	got := formatRow([]string{"a"}, []int{3, 5})
	// "a  " (3) + "  " (sep) + "     " (5) = "a         "
	want := "a         "
	if got != want {
		t.Errorf("formatRow = %q, want %q", got, want)
	}
}
