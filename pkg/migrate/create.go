package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"text/template"

	"github.com/pressly/goose/v3"
)

var nameSanitizeRe = regexp.MustCompile(`[^a-z0-9_]+`)

var sqlTemplate = template.Must(template.New("biowe.sql-migration").Parse(`-- +goose Up
-- +goose StatementBegin
-- {{.CamelName}} ({{.Version}})
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- revert {{.CamelName}}
-- +goose StatementEnd
`))

// CreateSQLMigration writes <dir>/<YYYYMMDDHHMMSS>_<name>.sql through goose and
// returns its path. The binary must be rebuilt before Run sees the new file.
func CreateSQLMigration(dir string, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	safe := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	safe = strings.Trim(nameSanitizeRe.ReplaceAllString(safe, "_"), "_")
	if safe == "" {
		return "", fmt.Errorf("name %q results in empty sanitized filename", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetSequential(false)
	if err := goose.CreateWithTemplate(nil, dir, sqlTemplate, safe, "sql"); err != nil {
		return "", fmt.Errorf("create migration %q: %w", safe, err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*_"+safe+".sql"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("locate created migration %q: %v", safe, err)
	}
	sort.Strings(matches)
	created := matches[len(matches)-1]

	if err := ValidateFS(os.DirFS(dir), "."); err != nil {
		_ = os.Remove(created)
		return "", fmt.Errorf("validate after create: %w", err)
	}
	return created, nil
}
