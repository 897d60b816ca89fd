package python

import (
	"fmt"
	"os"
	"path/filepath"
)

// ReadPyvenvCfg reads the pyvenv.cfg of the given virtualenv and returns its
// key/value pairs.
//
// The file is a sectionless "key = value" document; the venv module writes
// it, and the interpreter consults it at startup.
func ReadPyvenvCfg(venvDir string) (map[string]string, error) {
	fp, err := os.Open(filepath.Join(venvDir, "pyvenv.cfg"))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = fp.Close()
	}()

	parser := NewConfigParser()
	parser.AllowUnsectioned = true
	parser.Delimiters = []string{"="}
	parser.CommentPrefixes = nil
	// The venv module does not guard against writing a key twice; last
	// write wins.
	parser.Strict = false
	parser.OptionTransform = func(key string) string { return key }

	config, err := parser.Parse(fp)
	if err != nil {
		return nil, fmt.Errorf("python.ReadPyvenvCfg: %w", err)
	}
	cfg := config[""]
	if cfg == nil {
		cfg = make(ConfigSection)
	}
	return cfg, nil
}
