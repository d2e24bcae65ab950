package fs

import (
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/parley"
	parleyjson "github.com/fwojciec/parley/json"
	parleyyaml "github.com/fwojciec/parley/yaml"
)

// LoadCatalogue reads every catalogue file matching pattern and merges them
// in lexical path order. The pattern supports ** for recursive matching.
// Files are decoded by extension: .json, .yaml or .yml. The result is not
// validated; callers merge it over defaults and validate the outcome.
// A pattern that matches no file yields an error wrapping fs.ErrNotExist.
func LoadCatalogue(pattern string) (parley.Catalogue, error) {
	if pattern == "" {
		return parley.Catalogue{}, fmt.Errorf("pattern is required: %w", parley.ErrValidation)
	}
	if !doublestar.ValidatePathPattern(pattern) {
		return parley.Catalogue{}, fmt.Errorf("invalid glob pattern %q: %w", pattern, parley.ErrValidation)
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return parley.Catalogue{}, fmt.Errorf("match %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return parley.Catalogue{}, fmt.Errorf("no catalogue files match %q: %w", pattern, iofs.ErrNotExist)
	}
	slices.Sort(matches)

	var merged parley.Catalogue
	for _, path := range matches {
		c, err := loadFile(path)
		if err != nil {
			return parley.Catalogue{}, fmt.Errorf("%s: %w", path, err)
		}
		merged = merged.Merge(c)
	}
	return merged, nil
}

func loadFile(path string) (parley.Catalogue, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return parleyjson.Load(path)
	case ".yaml", ".yml":
		return parleyyaml.Load(path)
	default:
		return parley.Catalogue{}, fmt.Errorf("unsupported catalogue extension %q: %w", filepath.Ext(path), parley.ErrValidation)
	}
}
