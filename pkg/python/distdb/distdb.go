// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package distdb reads the installed-distributions database of a Python
// environment: the "{name}-{version}.dist-info" directories strewn across
// sys.path.
//
// https://packaging.python.org/en/latest/specifications/recording-installed-packages/
package distdb

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/datawire/dlib/dexec"

	"github.com/datawire/shippinglabel/pkg/python/pep503"
)

// A Database is a search path of directories that may contain dist-info
// subdirectories; usually a sys.path.
type Database struct {
	Path []string
}

// New assembles a Database from site directories.
func New(path ...string) *Database {
	return &Database{Path: path}
}

// InterpreterPath asks a live interpreter for its sys.path.  The interpreter
// argument is resolved the way the shell would resolve it, and the
// invocation is logged.
func InterpreterPath(ctx context.Context, interpreter string) ([]string, error) {
	cmd := dexec.CommandContext(ctx, interpreter,
		"-c", `import json, sys; print(json.dumps(sys.path))`)
	bs, err := cmd.Output()
	if err != nil {
		var exitErr *dexec.ExitError
		if errors.As(err, &exitErr) {
			err = fmt.Errorf("%w:\n > %s", err,
				strings.Join(strings.Split(string(exitErr.Stderr), "\n"), "\n > "))
		}
		return nil, fmt.Errorf("running Python: %w", err)
	}
	var path []string
	if err := json.Unmarshal(bs, &path); err != nil {
		return nil, fmt.Errorf("running Python: %w", err)
	}
	return path, nil
}

// ErrNotFound means that no matching dist-info directory exists in the
// database.
var ErrNotFound = errors.New("distribution not found")

// A Distribution is one installed distribution's dist-info directory.
type Distribution struct {
	// Name as spelled in the directory name.
	Name string
	// Version as spelled in the directory name.
	Version string
	// DistInfoDir is the directory's full path.
	DistInfoDir string
}

// Distribution finds the named distribution.  The name is matched using
// PEP 503 normalization, so "ruamel.yaml" finds "ruamel_yaml-0.17.21.dist-info".
func (db *Database) Distribution(name string) (*Distribution, error) {
	want := pep503.Normalize(name)
	for _, dir := range db.Path {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				// sys.path members need not exist
				continue
			}
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() || !strings.HasSuffix(entry.Name(), ".dist-info") {
				continue
			}
			base := strings.TrimSuffix(entry.Name(), ".dist-info")
			// Normalized versions never contain "-", so split at the last one.
			sep := strings.LastIndexByte(base, '-')
			if sep < 0 {
				continue
			}
			if pep503.Normalize(base[:sep]) != want {
				continue
			}
			return &Distribution{
				Name:        base[:sep],
				Version:     base[sep+1:],
				DistInfoDir: filepath.Join(dir, entry.Name()),
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Missing reports which of the named distributions are not installed.
func (db *Database) Missing(names []string) ([]string, error) {
	var missing []string
	for _, name := range names {
		if _, err := db.Distribution(name); err != nil {
			if !errors.Is(err, ErrNotFound) {
				return nil, err
			}
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// Metadata is the subset of the core-metadata fields that this tooling
// consumes.
type Metadata struct {
	Name           string
	Version        string
	RequiresPython string
	RequiresDist   []string
	ProvidesExtra  []string
}

// Metadata reads the distribution's METADATA file, which is RFC 822 shaped:
// repeatable "Key: value" fields, then an optional body (the long
// description) that gets ignored here.
func (d *Distribution) Metadata() (*Metadata, error) {
	filename := filepath.Join(d.DistInfoDir, "METADATA")
	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = fp.Close()
	}()

	header, err := textproto.NewReader(bufio.NewReader(fp)).ReadMIMEHeader()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return &Metadata{
		Name:           header.Get("Name"),
		Version:        header.Get("Version"),
		RequiresPython: header.Get("Requires-Python"),
		RequiresDist:   header.Values("Requires-Dist"),
		ProvidesExtra:  header.Values("Provides-Extra"),
	}, nil
}
