package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/coredds/mintwaterfall/internal/data"
)

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]Format{
		"in.csv":  FormatCSV,
		"IN.TSV":  FormatTSV,
		"in.tab":  FormatTSV,
		"in.json": FormatJSON,
		"in":      FormatJSON,
		"-":       FormatJSON,
	}
	for path, want := range tests {
		if got := DetectFormat(path); got != want {
			t.Fatalf("DetectFormat(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	if f, err := ParseFormat("CSV"); err != nil || f != FormatCSV {
		t.Fatalf("ParseFormat(CSV) = %q, %v", f, err)
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("ParseFormat(xml) error = %v, want ErrUnknownFormat", err)
	}
}

func TestDecodeCSV(t *testing.T) {
	t.Parallel()

	in := "\uFEFFlabel, value ,color\nStart,\"$1,200\",#111\nFees,-200,\n"
	got, err := Decode(strings.NewReader(in), FormatCSV, data.TransformConfig{})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := []data.ChartDataItem{
		{Label: "Start", Stacks: []data.StackItem{{Value: 1200, Color: "#111", Label: "Start"}}},
		{Label: "Fees", Stacks: []data.StackItem{{Value: -200, Color: data.DefaultColor, Label: "Fees"}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeTSVCustomColumns(t *testing.T) {
	t.Parallel()

	in := "step\tamount\nA\t5\nB\t-2\n"
	got, err := Decode(strings.NewReader(in), FormatTSV, data.TransformConfig{LabelColumn: "step", ValueColumn: "amount", DefaultColor: "#abc"})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got) != 2 || got[1].Label != "B" || got[1].Stacks[0].Value != -2 || got[1].Stacks[0].Color != "#abc" {
		t.Fatalf("Decode() = %+v", got)
	}
}

func TestDecodeCSVErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want error
	}{
		{name: "header only", in: "label,value\n", want: data.ErrEmptyData},
		{name: "empty", in: "", want: data.ErrEmptyData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Decode(strings.NewReader(tt.in), FormatCSV, data.TransformConfig{}); !errors.Is(err, tt.want) {
				t.Fatalf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}

	_, err := Decode(strings.NewReader("label,value\nA,abc\n"), FormatCSV, data.TransformConfig{})
	var verr *data.ValidationError
	if !errors.As(err, &verr) || verr.Index != 0 || verr.Field != "value" {
		t.Fatalf("Decode() error = %v, want value error at item 0", err)
	}
}

func TestLoadFileJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "items.json")
	body := `[{"label":"A","stacks":[{"value":10,"color":"#000"}]},{"label":"B","stacks":[{"value":-4,"color":"#000"}]}]`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := LoadFile(path, FormatAuto, data.TransformConfig{})
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(got) != 2 || got[1].Stacks[0].Value != -4 {
		t.Fatalf("LoadFile() = %+v", got)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"), FormatAuto, data.TransformConfig{}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("LoadFile(missing) error = %v, want not exist", err)
	}
}
