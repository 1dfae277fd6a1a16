// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AreaGuard Contributors

package preset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
)

// Load merges the built-in presets with definitions from every
// *.yaml/*.yml file in dir, in lexical file order. Each file maps
// preset names to expressions:
//
//	presets:
//	  Builder: "Default | PlaceBlocks | DestroyBlocks"
//
// A missing dir yields the builtins alone.
func Load(dir string) (*Set, error) {
	defs := append([]Definition(nil), builtinDefs...)

	if dir != "" {
		loaded, err := readDir(dir)
		if err != nil {
			return nil, err
		}
		defs = append(defs, loaded...)
	}

	return NewSet(defs)
}

func readDir(dir string) ([]Definition, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.With("dir", dir).Wrapf(err, "reading presets directory")
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	var defs []Definition
	for _, path := range paths {
		fileDefs, err := readFile(path)
		if err != nil {
			return nil, err
		}
		defs = append(defs, fileDefs...)
	}
	return defs, nil
}

func readFile(path string) ([]Definition, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, oops.With("path", path).Wrapf(err, "loading preset file")
	}

	raw := k.StringMap("presets")

	// Map iteration order is random; sort for deterministic display order.
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})

	defs := make([]Definition, 0, len(names))
	for _, name := range names {
		defs = append(defs, Definition{Name: name, Expression: raw[name]})
	}
	return defs, nil
}
