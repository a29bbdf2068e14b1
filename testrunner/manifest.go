package testrunner

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFile is read from the root of the corpus directory.
const ManifestFile = "manifest.yaml"

// Manifest lists corpus tests to skip and an optional name filter.
type Manifest struct {
	Skip   []SkipEntry `yaml:"skip"`
	Filter string      `yaml:"filter,omitempty"`
}

// SkipEntry names a test as "file:function" or just "function".
type SkipEntry struct {
	Test   string `yaml:"test"`
	Reason string `yaml:"reason"`
}

// LoadManifest reads name from fsys. A missing manifest is empty.
func LoadManifest(fsys fs.FS, name string) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", name, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", name, err)
	}
	for i, s := range m.Skip {
		if strings.TrimSpace(s.Test) == "" {
			return nil, fmt.Errorf("manifest %s: skip entry %d has no test name", name, i+1)
		}
	}
	return &m, nil
}

// skipReason reports whether the test function in file is skipped.
func (m *Manifest) skipReason(file, function string) (string, bool) {
	for _, s := range m.Skip {
		if s.Test == function || s.Test == file+":"+function {
			reason := s.Reason
			if reason == "" {
				reason = "skipped by manifest"
			}
			return reason, true
		}
	}
	return "", false
}
