package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"
)

var (
	sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)
)

// ValidateDir validates migration filenames + basic SQL headers on disk.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	_, err := validateFS(os.DirFS(dir), ".")
	return err
}

// ValidateEmbedded checks every embedded dialect directory and that all dialects
// carry the same set of versions.
func ValidateEmbedded() error {
	return validateDialects(embedded, "migrations")
}

func validateDialects(fsys fs.FS, root string) error {
	var (
		reference     []string
		referenceName string
	)
	for _, dialect := range Dialects() {
		versions, err := validateFS(fsys, path.Join(root, dialect))
		if err != nil {
			return fmt.Errorf("%s: %w", dialect, err)
		}
		if reference == nil {
			reference, referenceName = versions, dialect
			continue
		}
		if strings.Join(versions, ",") != strings.Join(reference, ",") {
			return fmt.Errorf("%s migrations %v do not match %s migrations %v", dialect, versions, referenceName, reference)
		}
	}
	return nil
}

func validateFS(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{} // version -> filename
	versions := []string{}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}

		version := m[1]
		if prev, ok := seen[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		seen[version] = name
		versions = append(versions, version)

		b, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", name, err)
		}

		txt := string(b)
		if !strings.Contains(txt, "-- +goose Up") {
			return nil, fmt.Errorf("migration %q missing \"-- +goose Up\"", name)
		}
		if !strings.Contains(txt, "-- +goose Down") {
			return nil, fmt.Errorf("migration %q missing \"-- +goose Down\"", name)
		}
	}

	sort.Strings(versions)
	return versions, nil
}
