package migration

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var fileNamePattern = regexp.MustCompile(`^(\d+)_([a-zA-Z0-9_-]+)\.sql$`)

// Scan reads every *.sql file in dir of fsys and returns the migrations
// ordered by numeric version.
func Scan(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, newMigrationError("", dir, "read directory", err)
	}

	var migrations []Migration
	seen := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		matches := fileNamePattern.FindStringSubmatch(entry.Name())
		if matches == nil {
			return nil, newMigrationError("", entry.Name(), "validate filename",
				fmt.Errorf("%w: %q does not match {version}_{description}.sql", ErrInvalidMigrationFile, entry.Name()))
		}
		version := matches[1]
		if other, ok := seen[version]; ok {
			return nil, newMigrationError(version, entry.Name(), "check duplicates",
				fmt.Errorf("%w: %s and %s", ErrDuplicateVersion, other, entry.Name()))
		}
		seen[version] = entry.Name()

		filePath := path.Join(dir, entry.Name())
		content, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			return nil, newMigrationError(version, filePath, "read file", err)
		}
		if len(splitStatements(string(content))) == 0 {
			return nil, newMigrationError(version, filePath, "parse SQL",
				fmt.Errorf("%w: no SQL statements", ErrInvalidMigrationFile))
		}

		sum := sha256.Sum256(content)
		migrations = append(migrations, Migration{
			Version:     version,
			Description: strings.ReplaceAll(matches[2], "_", " "),
			SQL:         string(content),
			FilePath:    filePath,
			Checksum:    hex.EncodeToString(sum[:]),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		vi, _ := strconv.Atoi(migrations[i].Version)
		vj, _ := strconv.Atoi(migrations[j].Version)
		return vi < vj
	})
	return migrations, nil
}

// splitStatements splits SQL content into statements on semicolons that are
// outside comments and quoted text. "--" and "/* */" comments are removed.
func splitStatements(sql string) []string {
	var (
		statements []string
		current    strings.Builder
	)
	flush := func() {
		var lines []string
		for _, line := range strings.Split(current.String(), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			statements = append(statements, strings.Join(lines, "\n"))
		}
		current.Reset()
	}

	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			for i < len(sql) && sql[i] != '\n' {
				i++
			}
			current.WriteByte('\n')
		case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
			end := strings.Index(sql[i+2:], "*/")
			if end < 0 {
				i = len(sql)
			} else {
				i += end + 3
			}
			current.WriteByte(' ')
		case c == '\'' || c == '"' || c == '`':
			// Quoted text runs to the matching quote; doubled quotes escape.
			current.WriteByte(c)
			for i++; i < len(sql); i++ {
				current.WriteByte(sql[i])
				if sql[i] == c {
					if i+1 < len(sql) && sql[i+1] == c {
						i++
						current.WriteByte(sql[i])
						continue
					}
					break
				}
			}
		case c == ';':
			flush()
		default:
			current.WriteByte(c)
		}
	}
	flush()
	return statements
}
