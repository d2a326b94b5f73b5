package database

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
)

// Migration is one versioned pair of SQL scripts from migrations/.
type Migration struct {
	Version    int
	Name       string
	UpScript   string
	DownScript string
}

func (m Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

//go:embed migrations/*.sql
var migrationFS embed.FS

var registered = mustLoadMigrations(migrationFS)

func mustLoadMigrations(fsys fs.FS) []Migration {
	list, err := loadMigrations(fsys)
	if err != nil {
		panic(fmt.Sprintf("embedded migrations: %v", err))
	}
	return list
}

// loadMigrations reads NNNNNN_name.up.sql files and their .down.sql
// counterparts from the migrations directory of fsys, ordered by version.
func loadMigrations(fsys fs.FS) ([]Migration, error) {
	ups, err := fs.Glob(fsys, "migrations/*.up.sql")
	if err != nil {
		return nil, err
	}

	seen := make(map[int]string, len(ups))
	list := make([]Migration, 0, len(ups))
	for _, file := range ups {
		base := strings.TrimSuffix(path.Base(file), ".up.sql")
		prefix, name, ok := strings.Cut(base, "_")
		if !ok || name == "" {
			return nil, fmt.Errorf("migration %s: expected <version>_<name>.up.sql", file)
		}
		version, err := strconv.Atoi(prefix)
		if err != nil || version <= 0 {
			return nil, fmt.Errorf("migration %s: invalid version %q", file, prefix)
		}
		if other, dup := seen[version]; dup {
			return nil, fmt.Errorf("migration %s: version %d already used by %s", file, version, other)
		}
		seen[version] = file

		up, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, err
		}
		down, err := fs.ReadFile(fsys, path.Join("migrations", base+".down.sql"))
		if err != nil {
			return nil, fmt.Errorf("migration %s: missing down script: %w", file, err)
		}

		list = append(list, Migration{Version: version, Name: name, UpScript: string(up), DownScript: string(down)})
	}

	slices.SortFunc(list, func(a, b Migration) int { return a.Version - b.Version })
	return list, nil
}

// GetMigrations returns the embedded migrations in version order.
func GetMigrations() []Migration {
	return slices.Clone(registered)
}

// GetMigrationByVersion looks up an embedded migration.
func GetMigrationByVersion(version int) (Migration, bool) {
	for _, m := range registered {
		if m.Version == version {
			return m, true
		}
	}
	return Migration{}, false
}
