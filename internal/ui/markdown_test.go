package ui

import (
	"strings"
	"testing"
)

func TestRenderMarkdownNormalizesTrailingNewline(t *testing.T) {
	t.Parallel()

	out, err := RenderMarkdown("# temp\n\n| index | value |\n|---|---|\n| 0 | 72 |\n", 80)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("expected rendered markdown to end with newline, got %q", out)
	}
	if strings.HasSuffix(out, "\n\n") {
		t.Fatalf("expected single trailing newline, got %q", out)
	}
	if !strings.Contains(out, "72") {
		t.Fatalf("expected table cell in output, got %q", out)
	}
}

func TestRenderMarkdownDefaultsWidthWhenNonPositive(t *testing.T) {
	t.Parallel()

	out, err := RenderMarkdown("hello", 0)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Fatalf("expected non-empty rendered output")
	}
}

func TestMarkdownStyleUsesTableSeparators(t *testing.T) {
	style := markdownStyle()
	if style.Table.ColumnSeparator == nil || *style.Table.ColumnSeparator != "│" {
		t.Fatalf("expected box-drawing column separator")
	}
	if style.Heading.Bold == nil || !*style.Heading.Bold {
		t.Fatalf("expected bold headings")
	}
}
