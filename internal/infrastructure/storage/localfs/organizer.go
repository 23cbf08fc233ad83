package localfs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/casewell/docvault/internal/core/domain"
)

// Organizer moves processed documents into the per-case archive tree:
// root/<case>/<category folder>/<date>_<stem><ext>. Collisions get a
// numeric suffix instead of overwriting.
type Organizer struct {
	root   string
	logger *slog.Logger
	now    func() time.Time
}

func NewOrganizer(root string, logger *slog.Logger) *Organizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Organizer{root: root, logger: logger, now: time.Now}
}

func (o *Organizer) Organize(_ context.Context, sourcePath, caseName string, category domain.Category, originalFilename string) (string, error) {
	targetDir := filepath.Join(o.root, Sanitize(caseName), category.Folder())
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", domain.WrapError(domain.ErrMoveFailed, "organize document", fmt.Errorf("create target dir: %w", err))
	}

	datePrefix := o.now().UTC().Format("2006-01-02")
	ext := strings.ToLower(filepath.Ext(originalFilename))
	stem := Sanitize(strings.TrimSuffix(originalFilename, filepath.Ext(originalFilename)))

	targetPath := filepath.Join(targetDir, fmt.Sprintf("%s_%s%s", datePrefix, stem, ext))
	for counter := 1; pathExists(targetPath); counter++ {
		targetPath = filepath.Join(targetDir, fmt.Sprintf("%s_%s_%d%s", datePrefix, stem, counter, ext))
	}

	if err := moveFile(sourcePath, targetPath); err != nil {
		return "", domain.WrapError(domain.ErrMoveFailed, "organize document", err)
	}

	o.logger.Info("document organized", "from", originalFilename, "to", targetPath)
	return targetPath, nil
}

// Sanitize makes a string safe for use as a file or directory name. It is
// idempotent: sanitizing an already sanitized name is a no-op.
func Sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == ' ' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	cleaned := strings.TrimSpace(b.String())
	cleaned = strings.ReplaceAll(cleaned, " ", "_")
	return strings.ToLower(cleaned)
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// moveFile renames where it can and falls back to copy plus remove when the
// destination sits on a different filesystem.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("copy to destination: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}
