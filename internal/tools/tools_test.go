package tools

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testRegistry = `
tools:
  - name: image-to-pdf
    title: Images to PDF Merger
    kind: remote
    mode: files
    endpoint: /api/pdf/from-images
    accept: [image/jpeg, image/png]
    max_file_bytes: 1048576
    max_files: 10
    options:
      - name: page_size
        type: string
        default: a4
        enum: [a4, letter]
      - name: margin_px
        type: int
        default: 0
      - name: grayscale
        type: bool
        default: false

  - name: extract-links
    title: Link Extractor
    kind: local
    mode: files
    local_op: extract-links
    accept: [application/pdf]
    max_file_bytes: 1048576
    max_files: 1
`

func loadTestRegistry(t *testing.T, contents string) (*Registry, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tools.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write registry: %v", err)
	}
	return Load(path)
}

func TestLoad(t *testing.T) {
	r, err := loadTestRegistry(t, testRegistry)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	names := r.Names()
	if len(names) != 2 || names[0] != "image-to-pdf" || names[1] != "extract-links" {
		t.Errorf("Names = %v, want file order [image-to-pdf, extract-links]", names)
	}

	tool, ok := r.Get("image-to-pdf")
	if !ok {
		t.Fatal("Get(image-to-pdf) not found")
	}
	if tool.Kind != KindRemote || tool.Mode != ModeFiles || tool.Endpoint != "/api/pdf/from-images" {
		t.Errorf("tool = %+v, want remote files tool", tool)
	}

	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) = found")
	}
}

func TestLoadRejectsInvalidTools(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "remote without endpoint",
			yaml: "tools:\n  - name: x\n    kind: remote\n    mode: files\n    accept: [image/png]\n",
			want: "endpoint",
		},
		{
			name: "unknown kind",
			yaml: "tools:\n  - name: x\n    kind: serverless\n    mode: files\n    accept: [image/png]\n",
			want: "kind",
		},
		{
			name: "empty accept list",
			yaml: "tools:\n  - name: x\n    kind: local\n    local_op: op\n    mode: files\n",
			want: "accept",
		},
		{
			name: "duplicate names",
			yaml: "tools:\n  - name: x\n    kind: local\n    local_op: op\n    mode: files\n    accept: [image/png]\n  - name: x\n    kind: local\n    local_op: op\n    mode: files\n    accept: [image/png]\n",
			want: "duplicate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadTestRegistry(t, tt.yaml)
			if err == nil {
				t.Fatal("Load accepted an invalid registry")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestResolveSettingsDefaults(t *testing.T) {
	r, err := loadTestRegistry(t, testRegistry)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tool, _ := r.Get("image-to-pdf")

	resolved, err := tool.ResolveSettings(nil)
	if err != nil {
		t.Fatalf("ResolveSettings(nil): %v", err)
	}
	if resolved["page_size"] != "a4" || resolved["margin_px"] != 0 || resolved["grayscale"] != false {
		t.Errorf("defaults = %v", resolved)
	}
}

func TestResolveSettingsValidation(t *testing.T) {
	r, err := loadTestRegistry(t, testRegistry)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tool, _ := r.Get("image-to-pdf")

	// Valid override; JSON decodes numbers as float64.
	resolved, err := tool.ResolveSettings(map[string]any{
		"page_size": "letter",
		"margin_px": float64(12),
		"grayscale": true,
	})
	if err != nil {
		t.Fatalf("ResolveSettings: %v", err)
	}
	if resolved["page_size"] != "letter" || resolved["margin_px"] != 12 || resolved["grayscale"] != true {
		t.Errorf("resolved = %v", resolved)
	}

	// Closed set: unknown names and bad values are rejected.
	if _, err := tool.ResolveSettings(map[string]any{"watermark": true}); err == nil {
		t.Error("unrecognized setting accepted")
	}
	if _, err := tool.ResolveSettings(map[string]any{"page_size": "tabloid"}); err == nil {
		t.Error("out-of-enum value accepted")
	}
	if _, err := tool.ResolveSettings(map[string]any{"grayscale": "yes"}); err == nil {
		t.Error("mistyped bool accepted")
	}
	if _, err := tool.ResolveSettings(map[string]any{"margin_px": 1.5}); err == nil {
		t.Error("fractional int accepted")
	}
}
