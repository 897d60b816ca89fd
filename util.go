package main

import (
	"io"
	"os"

	"github.com/datawire/shippinglabel/pkg/python/pep508"
	"github.com/datawire/shippinglabel/pkg/requirements"
)

// ReadInput reads the named file; an empty name or "-" reads stdin instead.
func ReadInput(filename string) ([]byte, error) {
	if filename == "" || filename == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(filename)
}

// ParseRequirements parses each argument as a PEP 508 requirement.
func ParseRequirements(args []string) ([]requirements.Requirement, error) {
	reqs := make([]requirements.Requirement, 0, len(args))
	for _, arg := range args {
		req, err := pep508.ParseRequirement(arg)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, requirements.Requirement(*req))
	}
	return reqs, nil
}
