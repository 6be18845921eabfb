package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"table", FormatTable, false},
		{"", FormatTable, false},
		{"json", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{" table ", FormatTable, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			format, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && format != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, format, tt.expected)
			}
		})
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]string{"name": "inbox"}

	if err := PrintJSON(&buf, data); err != nil {
		t.Fatalf("PrintJSON() error = %v", err)
	}

	expected := "{\n  \"name\": \"inbox\"\n}\n"
	if buf.String() != expected {
		t.Errorf("PrintJSON() = %q, want %q", buf.String(), expected)
	}
}

func TestPrintYAML(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]string{"name": "inbox"}

	if err := PrintYAML(&buf, data); err != nil {
		t.Fatalf("PrintYAML() error = %v", err)
	}

	expected := "name: inbox\n"
	if buf.String() != expected {
		t.Errorf("PrintYAML() = %q, want %q", buf.String(), expected)
	}
}

type pageRows struct{}

func (pageRows) Headers() []string { return []string{"ID", "TITLE"} }
func (pageRows) Rows() [][]string {
	return [][]string{
		{"p1", "Reading List"},
		{"p2", "Meeting Notes"},
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer

	if err := PrintTable(&buf, pageRows{}); err != nil {
		t.Fatalf("PrintTable() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"ID", "TITLE", "p1", "Reading List", "Meeting Notes"} {
		if !strings.Contains(out, want) {
			t.Errorf("PrintTable() output missing %q:\n%s", want, out)
		}
	}
}

func TestSimpleTable(t *testing.T) {
	var buf bytes.Buffer

	err := SimpleTable(&buf, [][2]string{
		{"ID", "p1"},
		{"Title", "Reading List"},
	})
	if err != nil {
		t.Fatalf("SimpleTable() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Reading List") {
		t.Errorf("SimpleTable() output missing value:\n%s", out)
	}
}

func TestPrinterSuccess(t *testing.T) {
	var buf bytes.Buffer

	NewPrinter(&buf, FormatTable, false).Success("done")
	if buf.String() != "done\n" {
		t.Errorf("Success() without color = %q, want %q", buf.String(), "done\n")
	}

	buf.Reset()
	NewPrinter(&buf, FormatTable, true).Success("done")
	if !strings.Contains(buf.String(), "\033[32m") {
		t.Errorf("Success() with color missing green escape: %q", buf.String())
	}
}
