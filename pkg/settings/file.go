package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ReadFile parses a YAML settings file into form state. The result is not
// validated.
func ReadFile(path string) (Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Raw{}, err
	}
	return Parse(data)
}

// Parse decodes YAML form state.
func Parse(data []byte) (Raw, error) {
	var raw Raw
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Raw{}, fmt.Errorf("parsing settings: %w", err)
	}
	return raw, nil
}

// WriteFile stores raw as YAML, replacing path through a temporary file so
// watchers never see a partial document.
func WriteFile(path string, raw Raw) error {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".settings-*.yaml")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
