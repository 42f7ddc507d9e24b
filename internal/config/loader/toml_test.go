package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/docline.toml", `
[layout]
tabWidth = 8
wrapAtWord = false

[formats]
style = "monokai"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/docline.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	layout, ok := config["layout"].(map[string]any)
	if !ok {
		t.Fatal("expected layout to be a map")
	}
	if layout["tabWidth"] != int64(8) {
		t.Errorf("expected tabWidth 8, got %v (%T)", layout["tabWidth"], layout["tabWidth"])
	}
	if layout["wrapAtWord"] != false {
		t.Errorf("expected wrapAtWord false, got %v", layout["wrapAtWord"])
	}
	formats, _ := config["formats"].(map[string]any)
	if formats["style"] != "monokai" {
		t.Errorf("expected style monokai, got %v", formats["style"])
	}
}

func TestTOMLLoader_LoadNonExistent(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/missing.toml").Load()
	if err != nil {
		t.Fatalf("expected no error for a missing file, got: %v", err)
	}
	if config != nil {
		t.Error("expected nil config for a missing file")
	}
}

func TestTOMLLoader_LoadInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/invalid.toml", "\n[layout\ntabWidth = 4\n")

	_, err := NewTOMLLoaderWithFS(memfs, "/invalid.toml").Load()
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if parseErr.Path != "/invalid.toml" {
		t.Errorf("expected path /invalid.toml, got %q", parseErr.Path)
	}
	if parseErr.Line < 2 {
		t.Errorf("expected the error position, got line %d", parseErr.Line)
	}
	if !strings.Contains(parseErr.Error(), "at line") {
		t.Errorf("expected the line in the message, got %q", parseErr.Error())
	}
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	config, err := (&TOMLLoader{}).LoadFromReader(strings.NewReader("style = \"light\"\n"))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if config["style"] != "light" {
		t.Errorf("expected style light, got %v", config["style"])
	}

	_, err = (&TOMLLoader{}).LoadFromReader(strings.NewReader("= broken"))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) || parseErr.Path != "<reader>" {
		t.Errorf("expected a reader parse error, got %v", err)
	}
}

func TestTOMLLoader_LoadWithIncludes(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/cfg/docline.toml", `
"@include" = "base.toml"

[layout]
tabWidth = 2
`)
	memfs.AddFile("/cfg/base.toml", `
[layout]
tabWidth = 4
wrapWidth = 80

[formats]
style = "dracula"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/cfg/docline.toml").LoadWithIncludes("/cfg/docline.toml", 5)
	if err != nil {
		t.Fatalf("LoadWithIncludes failed: %v", err)
	}
	if _, ok := config[IncludeKey]; ok {
		t.Error("include key should be removed")
	}

	layout := config["layout"].(map[string]any)
	if layout["tabWidth"] != int64(2) {
		t.Errorf("expected the including file to win, got %v", layout["tabWidth"])
	}
	if layout["wrapWidth"] != int64(80) {
		t.Errorf("expected wrapWidth from the include, got %v", layout["wrapWidth"])
	}
	if config["formats"].(map[string]any)["style"] != "dracula" {
		t.Errorf("expected style from the include, got %v", config["formats"])
	}
}

func TestTOMLLoader_LoadWithIncludes_DepthExceeded(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/a.toml", `"@include" = ["b.toml"]`)
	memfs.AddFile("/b.toml", `"@include" = ["c.toml"]`)
	memfs.AddFile("/c.toml", `"@include" = ["d.toml"]`)
	memfs.AddFile("/d.toml", `value = 1`)

	loader := NewTOMLLoaderWithFS(memfs, "/a.toml")
	if _, err := loader.LoadWithIncludes("/a.toml", 2); !errors.Is(err, ErrIncludeDepth) {
		t.Fatalf("expected ErrIncludeDepth, got %v", err)
	}

	config, err := loader.LoadWithIncludes("/a.toml", 5)
	if err != nil {
		t.Fatalf("expected success with depth 5, got: %v", err)
	}
	if config["value"] != int64(1) {
		t.Errorf("expected value 1, got %v", config["value"])
	}
}

func TestTOMLLoader_LoadWithIncludes_BadKey(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/a.toml", `"@include" = 3`)
	if _, err := NewTOMLLoaderWithFS(memfs, "/a.toml").Load(); err != nil {
		t.Fatalf("plain load should ignore includes, got %v", err)
	}
	if _, err := NewTOMLLoaderWithFS(memfs, "/a.toml").LoadWithIncludes("/a.toml", 3); err == nil {
		t.Error("expected an error for a non-string include")
	}
}

func TestDeepMerge(t *testing.T) {
	tests := []struct {
		name string
		dst  map[string]any
		src  map[string]any
		path string
		want any
	}{
		{"nil dst", nil, map[string]any{"a": 1}, "a", 1},
		{"src wins", map[string]any{"a": 1}, map[string]any{"a": 2}, "a", 2},
		{"dst kept", map[string]any{"a": 1}, map[string]any{"b": 2}, "a", 1},
		{
			"nested merge",
			map[string]any{"layout": map[string]any{"tabWidth": 4, "wrapWidth": 80}},
			map[string]any{"layout": map[string]any{"tabWidth": 2}},
			"layout.wrapWidth", 80,
		},
		{
			"map replaces scalar",
			map[string]any{"layout": 1},
			map[string]any{"layout": map[string]any{"tabWidth": 2}},
			"layout.tabWidth", 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := getByPath(DeepMerge(tt.dst, tt.src), tt.path)
			if !ok || got != tt.want {
				t.Errorf("expected %v at %s, got %v", tt.want, tt.path, got)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	var v struct {
		Layout struct {
			TabWidth int `toml:"tabWidth"`
		} `toml:"layout"`
	}
	if err := Decode(map[string]any{"layout": map[string]any{"tabWidth": int64(3)}}, &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Layout.TabWidth != 3 {
		t.Errorf("expected 3, got %d", v.Layout.TabWidth)
	}

	err := Decode(map[string]any{"layout": map[string]any{"tabSize": int64(3)}}, &v)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected a ParseError for an unknown key, got %v", err)
	}
	if !strings.Contains(parseErr.Message, "tabSize") {
		t.Errorf("expected the unknown key in the message, got %q", parseErr.Message)
	}
}

func getByPath(data map[string]any, path string) (any, bool) {
	var cur any = data
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}
