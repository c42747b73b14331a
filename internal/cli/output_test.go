package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func testOutput(buf *bytes.Buffer, jsonMode bool) *Output {
	return &Output{writer: buf, jsonMode: jsonMode, colorEnabled: false}
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	output := testOutput(&buf, true)

	if !output.IsJSON() {
		t.Fatal("IsJSON should report the mode")
	}
	if err := output.JSON(map[string]int{"count": 3}); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var decoded map[string]int
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["count"] != 3 {
		t.Errorf("decoded %v", decoded)
	}
}

func TestOutputPlainWhenColorDisabled(t *testing.T) {
	var buf bytes.Buffer
	output := testOutput(&buf, false)

	output.Success("done %d", 2)
	if got := buf.String(); got != "done 2\n" {
		t.Errorf("output = %q, want plain text without escapes", got)
	}
}

func TestVerdictColoring(t *testing.T) {
	var buf bytes.Buffer
	output := &Output{writer: &buf, colorEnabled: true}

	valid := output.Verdict("VALID SETUP")
	if !strings.Contains(valid, ColorGreen) {
		t.Error("valid setup should render green")
	}
	noTrade := output.Verdict("NO TRADE")
	if !strings.Contains(noTrade, ColorRed) {
		t.Error("no trade should render red")
	}
	if other := output.Verdict("OTHER"); other != "OTHER" {
		t.Errorf("unknown verdicts pass through, got %q", other)
	}
}

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	output := testOutput(&buf, false)

	table := NewTable(output, "Instrument", "Plans")
	table.AddRow("EURUSD", "3")
	table.AddRow("XAUUSD", "12")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Instrument") {
		t.Errorf("header missing: %q", lines[0])
	}
	// Columns align on the widest cell.
	if !strings.Contains(lines[2], "EURUSD      3") {
		t.Errorf("row not padded to header width: %q", lines[2])
	}
}

func TestStripANSI(t *testing.T) {
	in := ColorBold + "EURUSD" + ColorReset
	if got := stripANSI(in); got != "EURUSD" {
		t.Errorf("stripANSI = %q", got)
	}
}
