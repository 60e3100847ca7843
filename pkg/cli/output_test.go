package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type textureTable struct {
	names  []string
	counts []int
}

func (t textureTable) Header() []string { return []string{"TEXTURE", "FACES"} }

func (t textureTable) Rows() [][]string {
	rows := make([][]string, len(t.names))
	for i := range t.names {
		rows[i] = []string{t.names[i], fmt.Sprint(t.counts[i])}
	}
	return rows
}

type summary struct {
	Entities int `json:"entities" yaml:"entities"`
}

func (s summary) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%d entities\n", s.Entities)
	return err
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"csv", FormatCSV, false},
		{"junit", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name string
		data any
		want string
	}{
		{
			name: "plain value",
			data: "test message",
			want: "test message\n",
		},
		{
			name: "text renderer",
			data: summary{Entities: 3},
			want: "3 entities\n",
		},
		{
			name: "table",
			data: textureTable{names: []string{"CRATE1", "{FENCE"}, counts: []int{10, 2}},
			want: "TEXTURE  FACES\nCRATE1   10\n{FENCE   2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			if err := (&TextFormatter{}).FormatTo(buf, tt.data); err != nil {
				t.Fatalf("FormatTo() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("FormatTo() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestJSONFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := NewFormatter(FormatJSON).FormatTo(buf, summary{Entities: 4}); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	var got summary
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.Entities != 4 {
		t.Errorf("Entities = %d, want 4", got.Entities)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Errorf("output is not indented: %q", buf.String())
	}
}

func TestYAMLFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := NewFormatter(FormatYAML).FormatTo(buf, summary{Entities: 2}); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	var got summary
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if got.Entities != 2 {
		t.Errorf("Entities = %d, want 2", got.Entities)
	}
}

func TestCSVFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	table := textureTable{names: []string{"CRATE1", "a,b"}, counts: []int{10, 1}}

	if err := NewFormatter(FormatCSV).FormatTo(buf, table); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	want := "TEXTURE,FACES\nCRATE1,10\n\"a,b\",1\n"
	if buf.String() != want {
		t.Errorf("FormatTo() = %q, want %q", buf.String(), want)
	}
}

func TestCSVFormatter_RequiresTable(t *testing.T) {
	if err := NewFormatter(FormatCSV).FormatTo(io.Discard, summary{}); err == nil {
		t.Error("FormatTo() with a non-table succeeded, want error")
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format OutputFormat
		want   string
	}{
		{FormatText, "*cli.TextFormatter"},
		{FormatJSON, "*cli.JSONFormatter"},
		{FormatYAML, "*cli.YAMLFormatter"},
		{FormatCSV, "*cli.CSVFormatter"},
		{"unknown", "*cli.TextFormatter"},
	}

	for _, tt := range tests {
		if got := fmt.Sprintf("%T", NewFormatter(tt.format)); got != tt.want {
			t.Errorf("NewFormatter(%q) = %s, want %s", tt.format, got, tt.want)
		}
	}
}
