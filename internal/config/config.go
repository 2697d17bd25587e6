// Package config loads deployctl settings from defaults, an optional YAML file,
// an optional .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	envparse "github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/codex-k8s/deployctl/internal/env"
)

const (
	// DefaultConfigPath is the optional YAML settings file.
	DefaultConfigPath = "deployctl.yaml"
	// DefaultEnvFile is the optional dotenv settings file.
	DefaultEnvFile = ".env"

	// ConfigPathVar overrides DefaultConfigPath.
	ConfigPathVar = "DEPLOYCTL_CONFIG"
	// EnvFileVar overrides DefaultEnvFile.
	EnvFileVar = "DEPLOYCTL_ENV_FILE"
	// SecretVar names the database password variable. It is never read from files.
	SecretVar = "DB_PASSWORD"
)

// Settings describes where the external tools live and how they are invoked.
type Settings struct {
	// Root is the repository root; the configuration tool and container cleanup run here.
	Root string `yaml:"root,omitempty"`
	// InfraDir is the provisioning working directory, relative to Root unless absolute.
	InfraDir string `yaml:"infraDir,omitempty"`
	// Inventory is the Ansible inventory path, relative to Root unless absolute.
	Inventory string `yaml:"inventory,omitempty"`
	// Playbook is the Ansible playbook path, relative to Root unless absolute.
	Playbook string `yaml:"playbook,omitempty"`
	// Tools names the external binaries.
	Tools Tools `yaml:"tools,omitempty"`
	// Containers are force-removed before infrastructure teardown.
	Containers []string `yaml:"containers,omitempty"`
	// Endpoints are announced after a successful deploy.
	Endpoints []Endpoint `yaml:"endpoints,omitempty"`
	// Log configures logging sinks.
	Log LogSettings `yaml:"log,omitempty"`
}

// Tools holds external binary names or paths.
type Tools struct {
	Terraform string `yaml:"terraform,omitempty"`
	Ansible   string `yaml:"ansible,omitempty"`
	Docker    string `yaml:"docker,omitempty"`
}

// Endpoint is a named service URL.
type Endpoint struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// LogSettings configures logging.
type LogSettings struct {
	Level string `yaml:"level,omitempty"`
	// File is a persisted JSON log path; empty disables it.
	File string `yaml:"file,omitempty"`
}

// envSettings are the DEPLOYCTL_* overrides decoded via caarlos0/env.
type envSettings struct {
	// Root is the repository root from DEPLOYCTL_ROOT.
	Root string `env:"DEPLOYCTL_ROOT"`
	// InfraDir is the Terraform directory from DEPLOYCTL_INFRA_DIR.
	InfraDir string `env:"DEPLOYCTL_INFRA_DIR"`
	// Inventory is the Ansible inventory from DEPLOYCTL_INVENTORY.
	Inventory string `env:"DEPLOYCTL_INVENTORY"`
	// Playbook is the Ansible playbook from DEPLOYCTL_PLAYBOOK.
	Playbook string `env:"DEPLOYCTL_PLAYBOOK"`
	// TerraformBin is the Terraform binary from DEPLOYCTL_TERRAFORM_BIN.
	TerraformBin string `env:"DEPLOYCTL_TERRAFORM_BIN"`
	// AnsibleBin is the ansible-playbook binary from DEPLOYCTL_ANSIBLE_BIN.
	AnsibleBin string `env:"DEPLOYCTL_ANSIBLE_BIN"`
	// DockerBin is the Docker binary from DEPLOYCTL_DOCKER_BIN.
	DockerBin string `env:"DEPLOYCTL_DOCKER_BIN"`
	// LogLevel is the log level from DEPLOYCTL_LOG_LEVEL.
	LogLevel string `env:"DEPLOYCTL_LOG_LEVEL"`
	// LogFile is the persisted log path from DEPLOYCTL_LOG_FILE.
	LogFile string `env:"DEPLOYCTL_LOG_FILE"`
}

// Defaults returns the built-in layout of the two-service demo deployment.
func Defaults() *Settings {
	return &Settings{
		Root:      ".",
		InfraDir:  "terraform",
		Inventory: filepath.Join("ansible", "inventory", "inventory.ini"),
		Playbook:  filepath.Join("ansible", "playbook.yml"),
		Tools: Tools{
			Terraform: "terraform",
			Ansible:   "ansible-playbook",
			Docker:    "docker",
		},
		Containers: []string{"auth-service", "catalog-service"},
		Endpoints: []Endpoint{
			{Name: "Auth", URL: "http://localhost:5000/login"},
			{Name: "Catalog", URL: "http://localhost:5001/products"},
		},
		Log: LogSettings{Level: "info"},
	}
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// Environ replaces the process environment when non-nil.
	Environ env.Vars
}

// Load builds Settings from, in increasing precedence: defaults, the YAML file,
// the dotenv file, and the environment. Paths are made absolute.
func Load(opts LoadOptions) (*Settings, error) {
	environ := opts.Environ
	if environ == nil {
		environ = env.FromOS()
	}

	settings := Defaults()

	configPath := environ.Get(ConfigPathVar, DefaultConfigPath)
	if err := loadYAML(configPath, settings); err != nil {
		return nil, err
	}

	dotenv, err := env.LoadOptionalEnvFile(environ.Get(EnvFileVar, DefaultEnvFile))
	if err != nil {
		return nil, err
	}
	// the secret comes from the live environment or the prompt, never from a file
	merged := env.Merge(dotenv.Without(SecretVar), environ)

	var overrides envSettings
	if err := envparse.ParseWithOptions(&overrides, envparse.Options{Environment: merged}); err != nil {
		return nil, fmt.Errorf("parse DEPLOYCTL_* settings: %w", err)
	}
	overrides.apply(settings)

	if err := settings.resolvePaths(); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func loadYAML(path string, settings *Settings) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return fmt.Errorf("parse config %q: %w", path, err)
	}
	return nil
}

func (o envSettings) apply(s *Settings) {
	set := func(dst *string, value string) {
		if v := strings.TrimSpace(value); v != "" {
			*dst = v
		}
	}
	set(&s.Root, o.Root)
	set(&s.InfraDir, o.InfraDir)
	set(&s.Inventory, o.Inventory)
	set(&s.Playbook, o.Playbook)
	set(&s.Tools.Terraform, o.TerraformBin)
	set(&s.Tools.Ansible, o.AnsibleBin)
	set(&s.Tools.Docker, o.DockerBin)
	set(&s.Log.Level, o.LogLevel)
	set(&s.Log.File, o.LogFile)
}

func (s *Settings) resolvePaths() error {
	root, err := filepath.Abs(s.Root)
	if err != nil {
		return fmt.Errorf("resolve root %q: %w", s.Root, err)
	}
	s.Root = root
	s.InfraDir = underRoot(root, s.InfraDir)
	s.Inventory = underRoot(root, s.Inventory)
	s.Playbook = underRoot(root, s.Playbook)
	return nil
}

func underRoot(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// Validate reports missing required settings.
func (s *Settings) Validate() error {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("root", s.Root)
	check("infraDir", s.InfraDir)
	check("inventory", s.Inventory)
	check("playbook", s.Playbook)
	check("tools.terraform", s.Tools.Terraform)
	check("tools.ansible", s.Tools.Ansible)
	check("tools.docker", s.Tools.Docker)
	if len(missing) > 0 {
		return fmt.Errorf("invalid settings: missing %s", strings.Join(missing, ", "))
	}
	for i, ep := range s.Endpoints {
		if ep.Name == "" || ep.URL == "" {
			return fmt.Errorf("invalid settings: endpoint %d needs name and url", i)
		}
	}
	return nil
}
