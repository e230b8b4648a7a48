package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andyrewlee/termsel/internal/buffer"
	"github.com/andyrewlee/termsel/internal/config"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func extractOpts(t *testing.T, width, height int, flags map[string]string) extractOptions {
	t.Helper()
	opts := extractOptions{mode: "cell", format: formatText, width: width, height: height}
	for name, value := range flags {
		var err error
		switch name {
		case "from":
			err = opts.from.Set(value)
		case "to":
			err = opts.to.Set(value)
		case "mode":
			opts.mode = value
		case "format":
			opts.format = value
		default:
			t.Fatalf("unknown flag %q", name)
		}
		if err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
	return opts
}

func TestExtract(t *testing.T) {
	const input = "alpha beta gamma\nsecond line"

	tests := []struct {
		name   string
		flags  map[string]string
		block  bool
		single bool
		want   string
	}{
		{"cell range", map[string]string{"from": "0,0", "to": "4,0"}, false, false, "alpha"},
		{"across rows", map[string]string{"from": "11,0", "to": "5,1"}, false, false, "gamma\nsecond"},
		{"reversed drag", map[string]string{"from": "4,0", "to": "0,0"}, false, false, "alpha"},
		{"word", map[string]string{"from": "7,0", "mode": "word"}, false, false, "beta"},
		{"word extended", map[string]string{"from": "7,0", "to": "12,0", "mode": "word"}, false, false, "beta gamma"},
		{"line", map[string]string{"from": "2,1", "mode": "line"}, false, false, "second line"},
		{"single cell", map[string]string{"from": "6,0"}, false, false, "b"},
		{"single line", map[string]string{"from": "11,0", "to": "5,1"}, false, true, "gamma    second"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := extractOpts(t, 20, 2, tt.flags)
			opts.block = tt.block
			opts.singleLine = tt.single
			got, err := extract(strings.NewReader(input), config.DefaultSelectionSettings(), opts)
			if err != nil {
				t.Fatalf("extract: %v", err)
			}
			if got != tt.want {
				t.Fatalf("text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractBlock(t *testing.T) {
	opts := extractOpts(t, 10, 3, map[string]string{"from": "1,0", "to": "2,2"})
	opts.block = true
	got, err := extract(strings.NewReader("abcd\nefgh\nijkl"), config.DefaultSelectionSettings(), opts)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != "bc\nfg\njk" {
		t.Fatalf("block text = %q", got)
	}
}

func TestExtractAll(t *testing.T) {
	opts := extractOpts(t, 10, 2, nil)
	opts.all = true
	got, err := extract(strings.NewReader("one\ntwo"), config.DefaultSelectionSettings(), opts)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != "one\ntwo" {
		t.Fatalf("all text = %q", got)
	}
}

func TestExtractHonorsWordDelimiters(t *testing.T) {
	settings := config.DefaultSelectionSettings()
	opts := extractOpts(t, 30, 1, map[string]string{"from": "3,0", "mode": "word"})

	got, err := extract(strings.NewReader("path/to/file"), settings, opts)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != "path" {
		t.Fatalf("default delimiters word = %q, want %q", got, "path")
	}

	settings.WordDelimiters = " "
	got, err = extract(strings.NewReader("path/to/file"), settings, opts)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != "path/to/file" {
		t.Fatalf("space-only delimiters word = %q", got)
	}
}

func TestExtractHTML(t *testing.T) {
	opts := extractOpts(t, 20, 1, map[string]string{"from": "0,0", "to": "4,0", "format": "html"})
	got, err := extract(strings.NewReader("alpha beta"), config.DefaultSelectionSettings(), opts)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.HasPrefix(got, "<pre>") || !strings.HasSuffix(got, "</pre>") {
		t.Fatalf("html = %q", got)
	}
	if !strings.Contains(got, "color:#cccccc") || !strings.Contains(got, ">alpha</span>") {
		t.Fatalf("html missing default colors or text: %q", got)
	}
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name string
		opts extractOptions
		want string
	}{
		{"no start", extractOptions{mode: "cell", format: formatText, width: 10, height: 1}, "--from or --all"},
		{"bad mode", extractOpts(t, 10, 1, map[string]string{"from": "0,0", "mode": "paragraph"}), "expansion mode"},
		{"viewport mode", extractOpts(t, 10, 1, map[string]string{"from": "0,0", "mode": "viewport"}), "keyboard movement"},
		{"buffer mode", extractOpts(t, 10, 1, map[string]string{"from": "0,0", "mode": "buffer"}), "keyboard movement"},
		{"bad format", extractOpts(t, 10, 1, map[string]string{"from": "0,0", "format": "rtf"}), "unknown format"},
		{"bad size", extractOpts(t, 0, 1, map[string]string{"from": "0,0"}), "must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extract(strings.NewReader("abc"), config.DefaultSelectionSettings(), tt.opts)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestPointFlag(t *testing.T) {
	var f pointFlag
	if f.String() != "" {
		t.Fatalf("unset flag should print empty")
	}
	if err := f.Set(" 3, 7"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if f.p != (buffer.Point{X: 3, Y: 7}) || f.String() != "3,7" {
		t.Fatalf("point = %v (%s)", f.p, f.String())
	}
	for _, bad := range []string{"3", "a,1", "1,b", "-1,0"} {
		if err := new(pointFlag).Set(bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestExtractCommandReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	if err := writeFile(path, "hello world\n"); err != nil {
		t.Fatal(err)
	}
	out, stderr, code := runCLI(t, "", "extract", path, "--from", "6,0", "--mode", "word")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
	if out != "world" {
		t.Fatalf("output = %q", out)
	}
}

func TestExtractCommandReadsStdin(t *testing.T) {
	out, stderr, code := runCLI(t, "one two\nthree", "extract", "--from", "0,1", "--to", "4,1")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
	if out != "three" {
		t.Fatalf("output = %q", out)
	}
}

func TestExtractAllAndFromConflict(t *testing.T) {
	_, _, code := runCLI(t, "abc", "extract", "--all", "--from", "0,0")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
}
