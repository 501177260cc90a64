package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/raywall/student-records-service/envloader"
)

// Load monta a configuração do serviço em camadas: defaults, arquivo YAML
// (quando `path` — ou a variável CONFIG_FILE_PATH — aponta para um) e, por
// cima, as variáveis de ambiente declaradas nas tags `env`. Ambiente sempre
// vence o arquivo; o arquivo vence os defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		path = os.Getenv("CONFIG_FILE_PATH")
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml %s: %w", path, err)
		}
	}

	// as tags `env` não têm envDefault: variável ausente preserva o valor do
	// arquivo
	if err := envloader.Load(cfg); err != nil {
		return nil, fmt.Errorf("config: env overlay: %w", err)
	}

	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Service.Name == "" {
		c.Service.Name = "student-records-service"
	}
	if c.Service.Runtime == "" {
		c.Service.Runtime = "local"
	}
	if c.Service.Port == 0 {
		c.Service.Port = 8080
	}
	if c.AWS.Region == "" {
		c.AWS.Region = "us-east-1"
	}
	if c.Table.Name == "" {
		c.Table.Name = "students"
	}
	if c.Table.PollInterval == "" {
		c.Table.PollInterval = "1s"
	}
	if c.Table.MaxAttempts == 0 {
		c.Table.MaxAttempts = 20
	}

	// seção de logging totalmente ausente: liga com os padrões
	if !c.Logging.Enabled && c.Logging.Level == "" && c.Logging.Format == "" {
		c.Logging.Enabled = true
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}

	if c.Metrics.Datadog.Namespace == "" {
		c.Metrics.Datadog.Namespace = "student_records"
	}
}
