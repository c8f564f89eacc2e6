package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/climate-eto-service/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadSettings reads default calculation settings from a YAML file. Axes
// missing from the file keep their zero value. Unknown keys are an error.
func LoadSettings(path string) (domain.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("read SETTINGS_FILE: %w", err)
	}
	return parseSettings(data)
}

func parseSettings(data []byte) (domain.Settings, error) {
	var s domain.Settings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return domain.Settings{}, fmt.Errorf("parse SETTINGS_FILE: %w", err)
	}
	return s, nil
}
