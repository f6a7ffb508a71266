package project

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Language keys of the per-language option map.
const (
	LangC   = "c"
	LangCXX = "c++"
)

// Document is the project file as written on creation. Field order is
// the order keys appear in the file.
type Document struct {
	BuildSystems []BuildSystem `json:"build_systems"`
	Folders      []Folder      `json:"folders"`
	Settings     ClangSettings `json:"settings"`
}

// BuildSystem is one entry of build_systems.
type BuildSystem struct {
	Name       string    `json:"name"`
	Cmd        []string  `json:"cmd"`
	Env        Env       `json:"env"`
	Path       string    `json:"path"`
	WorkingDir string    `json:"working_dir"`
	Selector   string    `json:"selector"`
	Variants   []Variant `json:"variants"`
}

// Env holds the variables the project Makefile reads.
type Env struct {
	MMCU         string `json:"MMCU"`
	CStd         string `json:"CSTD"`
	CXXStd       string `json:"CXXSTD"`
	AvrdudeFlags string `json:"AVRDUDE_FLAGS"`
}

// Vars returns the variables as ordered name/value pairs.
func (e Env) Vars() [][2]string {
	return [][2]string{
		{"MMCU", e.MMCU},
		{"CSTD", e.CStd},
		{"CXXSTD", e.CXXStd},
		{"AVRDUDE_FLAGS", e.AvrdudeFlags},
	}
}

// Variant is an alternative make invocation offered by the build system.
type Variant struct {
	Cmd  []string `json:"cmd"`
	Name string   `json:"name"`
}

// Folder is one entry of folders.
type Folder struct {
	Path string `json:"path"`
}

// ClangSettings is the project settings block configuring SublimeClang.
type ClangSettings struct {
	Enabled                  bool            `json:"sublimeclang_enabled"`
	DontPrependClangIncludes bool            `json:"sublimeclang_dont_prepend_clang_includes"`
	HideOutputWhenEmpty      bool            `json:"sublimeclang_hide_output_when_empty"`
	WorkerThreadCount        int             `json:"sublimeclang_worker_threadcount"`
	ShowOutputPanel          bool            `json:"sublimeclang_show_output_panel"`
	ShowStatus               bool            `json:"sublimeclang_show_status"`
	ShowVisualErrorMarks     bool            `json:"sublimeclang_show_visual_error_marks"`
	Options                  []string        `json:"sublimeclang_options"`
	AddLanguageOption        bool            `json:"sublimeclang_add_language_option"`
	LanguageOptions          LanguageOptions `json:"sublimeclang_additional_language_options"`
}

// LanguageOptions holds the extra clang options per language.
type LanguageOptions struct {
	C   []string `json:"c"`
	CXX []string `json:"c++"`
}

// Key names used when merging into an existing file.
const (
	keyBuildSystems    = "build_systems"
	keyEnv             = "env"
	keySettings        = "settings"
	keyLanguageOptions = "sublimeclang_additional_language_options"
)

const indent = "    "

// Encode serializes doc with four-space indentation and a trailing newline.
func Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding project document: %w", err)
	}
	return buf.Bytes(), nil
}
