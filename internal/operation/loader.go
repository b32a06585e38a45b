package operation

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/loykin/esrun/internal/common"
	"github.com/loykin/esrun/internal/constants"
)

// ResolveVersion maps the version argument to a concrete version directory
// name. "latest" resolves to the highest numeric directory under versionsDir.
func ResolveVersion(versionsDir, version string) (string, error) {
	if version != constants.LatestVersionKeyword {
		return version, nil
	}
	entries, err := os.ReadDir(versionsDir)
	if err != nil {
		return "", fmt.Errorf("failed to read versions directory %s: %w", versionsDir, err)
	}
	best := -1
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		n, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		if n > best {
			best = n
		}
	}
	if best < 0 {
		return "", fmt.Errorf("no version folders found in %s", versionsDir)
	}
	return strconv.Itoa(best), nil
}

// LoadPropertiesDir loads all .properties operation files for one version,
// in lexicographic filename order. Files that fail to parse are returned with
// Err set so the dispatcher records them as failed operations.
func LoadPropertiesDir(versionsDir, version string) ([]Source, error) {
	logger := common.GetLogger().WithComponent("loader")

	resolved, err := ResolveVersion(versionsDir, version)
	if err != nil {
		return nil, err
	}
	if resolved != version {
		logger.Info("using latest version", "version", resolved)
	}

	dir := filepath.Join(versionsDir, resolved)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("version folder not found: %s", dir)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".properties") {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no .properties files found in %s", dir)
	}
	// Lexicographic order is the execution order; operations may depend on it.
	sort.Strings(names)

	sources := make([]Source, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		src := Source{Path: path, Name: name}
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			src.Err = fmt.Errorf("failed to read %s: %w", name, err)
		} else if op, derr := DecodeProperties(data, name); derr != nil {
			src.Err = fmt.Errorf("failed to load %s: %w", name, derr)
		} else {
			src.Op = op
		}
		sources = append(sources, src)
	}
	logger.Info("loaded operation files", "dir", dir, "count", len(sources))
	return sources, nil
}

// LoadYAMLDir recursively discovers .yml/.yaml operation files under dir and
// loads each one, walking paths in sorted order so execution is deterministic.
func LoadYAMLDir(dir string) ([]Source, error) {
	logger := common.GetLogger().WithComponent("loader")

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".yml", ".yaml":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan operations directory %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no operation files found in %s", dir)
	}
	sort.Strings(paths)

	sources := make([]Source, 0, len(paths))
	for _, path := range paths {
		src := Source{Path: path, Name: filepath.Base(path)}
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			src.Err = fmt.Errorf("failed to read %s: %w", src.Name, err)
			sources = append(sources, src)
			continue
		}
		op, derr := DecodeYAML(f, src.Name)
		_ = f.Close()
		if derr != nil {
			src.Err = fmt.Errorf("failed to load %s: %w", src.Name, derr)
		} else {
			src.Op = op
		}
		sources = append(sources, src)
	}
	logger.Info("loaded operation files", "dir", dir, "count", len(sources))
	return sources, nil
}

// Summary returns a human-readable count of operations per kind, in the
// order they will execute.
func Summary(sources []Source) string {
	counts := map[string]int{}
	order := make([]string, 0)
	for _, s := range sources {
		key := "invalid"
		if s.Op != nil {
			key = string(s.Op.Kind)
		}
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}
	var b strings.Builder
	b.WriteString("Operation summary:\n")
	for _, k := range order {
		fmt.Fprintf(&b, "  %-30s %d\n", k, counts[k])
	}
	fmt.Fprintf(&b, "  %-30s %d\n", "total", len(sources))
	return b.String()
}
