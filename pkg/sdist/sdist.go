// Package sdist deals with the filenames of Python source distributions.
//
// Unlike wheel filenames, sdist filenames were never fully standardized;
// this parses the conventional "{project}-{version}.tar.gz" shape that
// setuptools and PyPI have always produced.
package sdist

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// FileNameData is the parsed form of an sdist filename,
//
//	{project}-{version}{.tar.gz|.tar.bz2|.zip}
//
// The version is kept as written; sdist filenames are not obligated to
// contain normalized PEP 440 versions.
type FileNameData struct {
	Project   string
	Version   string
	Extension string
}

func (d FileNameData) String() string {
	return d.Project + "-" + d.Version + d.Extension
}

// A NotSdistError is returned by ParseFilename when the named file is
// recognizably a built distribution rather than a source distribution.
type NotSdistError struct {
	Filename string
}

func (e *NotSdistError) Error() string {
	return fmt.Sprintf("'%s' is a wheel.", e.Filename)
}

//nolint:gochecknoglobals // Would be 'const'.
var reFilename = regexp.MustCompile(`^` +
	`(?P<project>[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?(?:-stubs)?)` +
	`-(?P<version>[A-Za-z0-9_.!+]+)` +
	`(?P<extension>\.tar\.gz|\.tar\.bz2|\.zip)` +
	`$`)

// ParseFilename parses an sdist filename; a full path is OK too.
func ParseFilename(filename string) (*FileNameData, error) {
	if strings.HasSuffix(filename, ".whl") {
		return nil, &NotSdistError{Filename: filename}
	}

	basename := filepath.Base(filename)
	match := reFilename.FindStringSubmatch(basename)
	if match == nil {
		return nil, fmt.Errorf("invalid sdist filename: %q", basename)
	}

	return &FileNameData{
		Project:   match[reFilename.SubexpIndex("project")],
		Version:   match[reFilename.SubexpIndex("version")],
		Extension: match[reFilename.SubexpIndex("extension")],
	}, nil
}
