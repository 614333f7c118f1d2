package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/utilmon-lab/varsel/pkg/cli/config"
)

func writeTemplateFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "messages.yml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestTemplates_Configure(t *testing.T) {
	t.Run("no file means no active categories", func(t *testing.T) {
		cfg := config.NewTemplatesWithPath("")
		svc := gt.R1(cfg.Configure()).NoError(t)
		gt.Array(t, svc.ActiveCategories()).Length(0)
	})

	t.Run("parses categories from yaml", func(t *testing.T) {
		path := writeTemplateFile(t, `
categories:
  - category: ELECTRICITY
    active: true
    sender:
      email_name: Grid Ops
      email_address: noreply@grid.example
    subject_new: "NEW ${title}"
    body_new: "A disturbance affects ${affected.reference}.${newline}${description}"
    subject_update: "UPDATE ${title}"
    body_update: "Updated: ${description}"
    subject_close: "CLOSE ${title}"
    body_close: "Resolved."
  - category: WATER
    active: false
    sender:
      email_address: noreply@water.example
`)
		cfg := config.NewTemplatesWithPath(path)
		svc := gt.R1(cfg.Configure()).NoError(t)

		gt.True(t, svc.Active("electricity"))
		gt.False(t, svc.Active("WATER"))
		gt.False(t, svc.Active("GAS"))

		resolved := svc.Resolve("ELECTRICITY")
		gt.NotNil(t, resolved)
		gt.Value(t, resolved.Sender.EmailAddress).Equal("noreply@grid.example")
		gt.Value(t, resolved.SubjectNew).Equal("NEW ${title}")
	})

	t.Run("rejects missing file", func(t *testing.T) {
		cfg := config.NewTemplatesWithPath(filepath.Join(t.TempDir(), "missing.yml"))
		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("rejects duplicate category", func(t *testing.T) {
		path := writeTemplateFile(t, `
categories:
  - category: ELECTRICITY
    active: true
  - category: electricity
    active: false
`)
		cfg := config.NewTemplatesWithPath(path)
		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		path := writeTemplateFile(t, "categories: [nope")
		cfg := config.NewTemplatesWithPath(path)
		_, err := cfg.Configure()
		gt.Error(t, err)
	})
}

func TestFirestore_IsConfigured(t *testing.T) {
	cfg := &config.Firestore{}
	gt.False(t, cfg.IsConfigured())
}
