package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Merlinas/SublimeAVR/internal/branding"
	"github.com/Merlinas/SublimeAVR/internal/ctxlog"
)

var (
	// ErrInvalidDocument is returned by Load when a file is not a project
	// document of the expected shape.
	ErrInvalidDocument = errors.New("invalid project document")
	// ErrPersist is returned when the project file cannot be written.
	ErrPersist = errors.New("cannot write project file")
)

// FilePath returns the project file path inside dir.
func FilePath(dir string) string {
	return filepath.Join(dir, branding.ProjectFile())
}

// Exists reports whether dir already holds a project file.
func Exists(dir string) bool {
	info, err := os.Stat(FilePath(dir))
	return err == nil && !info.IsDir()
}

// Load reads the project file at path and checks it against the project
// schema. A file that is not JSON or does not match the schema yields an
// error wrapping ErrInvalidDocument.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}
	res, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if !res.Valid {
		msgs := make([]string, len(res.Issues))
		for i, issue := range res.Issues {
			msgs[i] = issue.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
	}
	return data, nil
}

// Merge copies the build environment and the per-language options of fresh
// into existing and returns the result. Environment variables and languages
// are merged key by key. Only the bytes of the values it writes change;
// every other part of existing is carried over as it was.
func Merge(existing []byte, fresh *Document) ([]byte, error) {
	if len(fresh.BuildSystems) == 0 {
		return nil, errors.New("fresh document has no build system")
	}

	root, err := rootObject(existing)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	env, err := envObject(existing, root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	langs, err := childObject(existing, root, keySettings, keyLanguageOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	s := &splicer{data: existing}
	vars := fresh.BuildSystems[0].Env.Vars()
	envFields := make([]field, len(vars))
	for i, kv := range vars {
		envFields[i] = field{key: kv[0], value: kv[1]}
	}
	if err := s.setMembers(env, envFields); err != nil {
		return nil, err
	}
	if err := s.setMembers(langs, []field{
		{key: LangC, value: fresh.Settings.LanguageOptions.C},
		{key: LangCXX, value: fresh.Settings.LanguageOptions.CXX},
	}); err != nil {
		return nil, err
	}

	merged := s.apply()
	if !json.Valid(merged) {
		return nil, errors.New("merged project document is not valid JSON")
	}
	return merged, nil
}

// envObject returns the env object of the first build system.
func envObject(data []byte, root *jsonObject) (*jsonObject, error) {
	m, ok := root.find(keyBuildSystems)
	if !ok {
		return nil, fmt.Errorf("missing %q", keyBuildSystems)
	}
	systems, err := scanArray(data, m.value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", keyBuildSystems, err)
	}
	if len(systems) == 0 {
		return nil, errors.New("no build system")
	}
	first, err := scanObject(data, systems[0])
	if err != nil {
		return nil, fmt.Errorf("%s[0]: %w", keyBuildSystems, err)
	}
	return childObject(data, first, keyEnv)
}

// childObject follows path through nested objects starting at obj.
func childObject(data []byte, obj *jsonObject, path ...string) (*jsonObject, error) {
	for _, key := range path {
		m, ok := obj.find(key)
		if !ok {
			return nil, fmt.Errorf("missing %q", key)
		}
		next, err := scanObject(data, m.value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		obj = next
	}
	return obj, nil
}

// Merger writes project files, merging into existing ones.
type Merger struct {
	Builder *Builder
}

// SaveResult describes a planned or completed project file write.
type SaveResult struct {
	Path string
	// Fresh is set when the file was absent or unusable and a newly built
	// document replaces it.
	Fresh    bool
	Before   []byte
	After    []byte
	Warnings []string
}

// Changed reports whether the write alters the file content.
func (r *SaveResult) Changed() bool {
	return string(r.Before) != string(r.After)
}

// Plan computes what Save would write for s without touching the disk.
func (m *Merger) Plan(ctx context.Context, s Settings) (*SaveResult, error) {
	log := ctxlog.FromContext(ctx)

	built, err := m.Builder.Build(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("building project document: %w", err)
	}

	result := &SaveResult{
		Path:     FilePath(s.Dest),
		Warnings: built.Warnings,
	}

	if before, readErr := os.ReadFile(result.Path); readErr == nil {
		result.Before = before
	}

	existing, err := Load(result.Path)
	if err == nil {
		merged, mergeErr := Merge(existing, built.Document)
		if mergeErr == nil {
			result.After = merged
			return result, nil
		}
		err = mergeErr
	}
	if result.Before != nil {
		log.Warn("replacing unusable project file", "path", result.Path, "error", err)
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("existing %s could not be merged and was replaced", filepath.Base(result.Path)))
	}

	fresh, err := Encode(built.Document)
	if err != nil {
		return nil, err
	}
	result.Fresh = true
	result.After = fresh
	return result, nil
}

// Save builds the document for s and writes it to the project file in
// s.Dest, merging into a valid existing file. The whole document is
// assembled before the file is truncated and rewritten.
func (m *Merger) Save(ctx context.Context, s Settings) (*SaveResult, error) {
	result, err := m.Plan(ctx, s)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(result.Path, result.After, 0644); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersist, err)
	}
	ctxlog.FromContext(ctx).Debug("project file written", "path", result.Path, "fresh", result.Fresh)
	return result, nil
}
