// Package config loads build requests from pallet.yaml files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/pallet/internal/core/domain"
	"go.trai.ch/pallet/internal/core/ports"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader.
type Loader struct {
	logger ports.Logger
	fs     FileSystem
	lookup func(string) (string, bool)
}

// NewLoader creates a Loader reading from the OS file system and environment.
func NewLoader(logger ports.Logger) *Loader {
	return NewLoaderWithFS(logger, NewOSFS())
}

// NewLoaderWithFS creates a Loader reading from fsys.
func NewLoaderWithFS(logger ports.Logger, fsys FileSystem) *Loader {
	return &Loader{logger: logger, fs: fsys, lookup: os.LookupEnv}
}

// Load reads the build request file at path.
//
// String values may reference environment variables as ${NAME}. A relative
// outputPath is resolved against the file's directory.
func (l *Loader) Load(path string) (domain.BuildRequest, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return domain.BuildRequest{}, domain.NewReadFailedError(path, err)
	}

	var file Palletfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return domain.BuildRequest{}, domain.NewParseError(fmt.Sprintf("%s: %s", path, err))
	}

	if err := l.expandAll(&file); err != nil {
		return domain.BuildRequest{}, err
	}

	platforms := make([]domain.Platform, 0, len(file.Platforms))
	for _, name := range file.Platforms {
		p, err := domain.ParsePlatform(name)
		if err != nil {
			return domain.BuildRequest{}, err
		}
		platforms = append(platforms, p)
	}

	outputPath := file.OutputPath
	if outputPath != "" && !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(filepath.Dir(path), outputPath)
	}

	if len(file.Platforms) == 0 && l.logger != nil {
		l.logger.Info("no platforms listed in " + filepath.Base(path) + ", building for all")
	}

	return domain.BuildRequest{
		Scheme: file.Scheme,
		Options: domain.NewBuildOptions(
			file.Configuration,
			domain.WithPlatforms(platforms...),
			domain.WithToolchain(file.Toolchain),
			domain.WithOutputPath(outputPath),
		),
	}, nil
}

func (l *Loader) expandAll(file *Palletfile) error {
	fields := []*string{&file.Configuration, &file.Scheme, &file.Toolchain, &file.OutputPath}
	for i := range file.Platforms {
		fields = append(fields, &file.Platforms[i])
	}

	for _, field := range fields {
		expanded, err := l.expand(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	return nil
}

// expand substitutes ${NAME} references. Unset variables are an error; a variable set
// to the empty string expands to nothing. Bare $NAME is left alone.
func (l *Loader) expand(s string) (string, error) {
	var b strings.Builder
	for {
		start := strings.Index(s, "${")
		if start < 0 {
			b.WriteString(s)
			return b.String(), nil
		}
		end := strings.IndexByte(s[start:], '}')
		if end < 0 {
			return "", domain.NewParseError("unterminated variable reference in " + s)
		}

		name := s[start+2 : start+end]
		value, ok := l.lookup(name)
		if !ok {
			return "", domain.NewMissingEnvironmentVariableError(name)
		}

		b.WriteString(s[:start])
		b.WriteString(value)
		s = s[start+end+1:]
	}
}
