package config

import "time"

// Config é a raiz da configuração do serviço. Os valores vêm do arquivo YAML
// (quando CONFIG_FILE_PATH está definido) com overlay de variáveis de ambiente;
// strings aceitam interpolação ${env.X}, ${ssm.path} e ${secret.id}.
type Config struct {
	Service ServiceConf `yaml:"service" validate:"required"`
	AWS     AWSConf     `yaml:"aws"`
	Table   TableConf   `yaml:"table"`
	Logging LoggingConf `yaml:"logging"`
	Metrics MetricsConf `yaml:"metrics"`
	Events  EventsConf  `yaml:"events"`
}

// ServiceConf contém os metadados e o runtime do serviço.
type ServiceConf struct {
	Name    string `yaml:"name" env:"SERVICE_NAME" validate:"required,hostname_rfc1123"`
	Runtime string `yaml:"runtime" env:"SERVICE_RUNTIME" validate:"required,oneof=local lambda ecs eks ec2"`
	Port    int    `yaml:"port" env:"SERVICE_PORT" validate:"required_unless=Runtime lambda,omitempty,gte=1,lte=65535"`
}

// AWSConf define a região usada pelos clientes AWS.
type AWSConf struct {
	Region string `yaml:"region" env:"AWS_REGION" validate:"required"`
}

// TableConf define a tabela de estudantes e o polling de ativação.
type TableConf struct {
	Name         string `yaml:"name" env:"DYNAMODB_TABLE_NAME" validate:"required"`
	PollInterval string `yaml:"poll_interval" env:"TABLE_POLL_INTERVAL"`
	MaxAttempts  int    `yaml:"max_attempts" env:"TABLE_POLL_MAX_ATTEMPTS" validate:"gte=1"`
}

type LoggingConf struct {
	Enabled bool   `yaml:"enabled" env:"LOG_ENABLED"`
	Level   string `yaml:"level" env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	Format  string `yaml:"format" env:"LOG_FORMAT" validate:"oneof=json console"`
}

type MetricsConf struct {
	Datadog DatadogConf `yaml:"datadog"`
}

type DatadogConf struct {
	Enabled   bool   `yaml:"enabled" env:"DD_ENABLED"`
	Addr      string `yaml:"addr" env:"DD_AGENT_HOST" validate:"required_if=Enabled true"`
	Namespace string `yaml:"namespace" env:"DD_NAMESPACE"`
}

// EventsConf configura a publicação de mudanças de registro. QueueURL vazio
// desabilita o publicador.
type EventsConf struct {
	QueueURL string `yaml:"queue_url" env:"EVENTS_QUEUE_URL"`
}

// GetPollInterval converte o intervalo de polling para time.Duration, caindo
// para 1s quando o valor é inválido ou vazio.
func (t TableConf) GetPollInterval() time.Duration {
	d, err := time.ParseDuration(t.PollInterval)
	if err != nil || d <= 0 {
		return time.Second
	}
	return d
}
