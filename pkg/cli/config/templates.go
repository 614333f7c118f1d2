package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/utilmon-lab/varsel/pkg/domain/model/message"
	"github.com/utilmon-lab/varsel/pkg/service/templates"
	"gopkg.in/yaml.v3"
)

// Templates loads the per-category message configuration from a YAML file.
type Templates struct {
	path string
}

func (x *Templates) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "message-config",
			Usage:       "Path to message template YAML file",
			Category:    "Messaging",
			Sources:     cli.EnvVars("VARSEL_MESSAGE_CONFIG"),
			Destination: &x.path,
		},
	}
}

func (x Templates) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", x.path))
}

type templateFile struct {
	Categories []message.Config `yaml:"categories"`
}

// Configure parses the YAML file into a template service. Without a file
// every category is inactive and no messages are sent.
func (x *Templates) Configure() (*templates.Service, error) {
	if x.path == "" {
		return templates.Empty(), nil
	}

	raw, err := os.ReadFile(filepath.Clean(x.path))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read message config", goerr.V("path", x.path))
	}

	var file templateFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse message config", goerr.V("path", x.path))
	}

	return templates.New(file.Categories)
}
