// Package config resolves command configuration from a YAML file and the
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// File names a YAML config file.
type File struct {
	Path string
	// Required makes a missing file an error. A blank Path is always skipped.
	Required bool
}

// Load decodes file into target and then applies environment variables on
// top. Fields carrying envDefault take that default when their variable is
// unset, even if the file set them.
func Load(target any, file File) error {
	if err := LoadFile(target, file); err != nil {
		return err
	}
	return ParseEnv(target)
}

// LoadFile decodes the YAML file into target. Unknown keys are rejected and
// keys absent from the file leave target unchanged.
func LoadFile(target any, file File) error {
	path := strings.TrimSpace(file.Path)
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !file.Required && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// Exitf writes a formatted message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(stderr, format+"\n", args...)
	exit(1)
}
