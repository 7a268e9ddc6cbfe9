package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/unyt-org/datex-go/internal/cli/config"
)

// configDescriptions documents each datex.yaml key.
var configDescriptions = map[string]string{
	"log_level":       "Minimum log level: debug, info, warn or error",
	"output":          "Output format: auto, text, markdown, json or yaml",
	"detailed_errors": "Collect every error of a file instead of stopping at the first",
	"state_path":      "Check history database, relative to the project root",
	"include":         "Glob patterns selecting source files when no paths are given",
	"watch.debounce":  "Quiet period before `check --watch` recompiles",
	"lsp.log_file":    "File the language server logs to; stderr when empty",
	"serve.addr":      "Listen address of `datex serve`",
}

// ConfigField is one documented config key.
type ConfigField struct {
	Key         string
	Type        string
	Default     string
	Description string
}

// configFields lists the keys of config.Config in declaration order.
func configFields() []ConfigField {
	var fields []ConfigField
	var walk func(prefix string, v reflect.Value)
	walk = func(prefix string, v reflect.Value) {
		t := v.Type()
		for i := range t.NumField() {
			f := t.Field(i)
			tag := f.Tag.Get("koanf")
			if tag == "" || tag == "-" {
				continue
			}
			key := prefix + tag
			fv := v.Field(i)
			if fv.Kind() == reflect.Struct {
				walk(key+".", fv)
				continue
			}
			fields = append(fields, ConfigField{
				Key:         key,
				Type:        f.Type.String(),
				Default:     defaultText(fv),
				Description: configDescriptions[key],
			})
		}
	}
	walk("", reflect.ValueOf(*config.Default()))
	return fields
}

func defaultText(v reflect.Value) string {
	switch {
	case v.Kind() == reflect.Slice:
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = fmt.Sprint(v.Index(i).Interface())
		}
		return strings.Join(parts, ", ")
	case v.IsZero():
		return ""
	}
	return fmt.Sprint(v.Interface())
}

// generateConfigDocs writes the datex.yaml reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "datex.yaml reference")
	w.GeneratedMarker()
	w.Header(1, "Configuration")
	w.Paragraph("datex reads `" + config.ConfigFileName + "`, searched upward from the working directory. Paths are relative to the directory holding the file.")

	var rows [][]string
	for _, f := range configFields() {
		def := "-"
		if f.Default != "" {
			def = InlineCode(f.Default)
		}
		rows = append(rows, []string{InlineCode(f.Key), f.Type, def, f.Description})
	}
	w.Table([]string{"Key", "Type", "Default", "Description"}, rows)

	w.Header(2, "Example")
	w.CodeBlock("yaml", `include:
  - "src/**/*.dx"
detailed_errors: true
watch:
  debounce: 300ms
serve:
  addr: 127.0.0.1:7878`)

	return os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0o600)
}

// envVar is the environment variable overriding a config key.
func envVar(key string) string {
	return "DATEX_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
