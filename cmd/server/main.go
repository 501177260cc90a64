package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/raywall/student-records-service/dyndb"
	"github.com/raywall/student-records-service/pkg/config"
	"github.com/raywall/student-records-service/pkg/config/injector"
	"github.com/raywall/student-records-service/pkg/events"
	"github.com/raywall/student-records-service/pkg/logger"
	"github.com/raywall/student-records-service/pkg/metrics"
	"github.com/raywall/student-records-service/pkg/transport"
	"github.com/raywall/student-records-service/students"
)

// Variáveis injetáveis para mocking
var (
	serverStarter = func(s *transport.Server, port int) error { return s.Start(port) }
	lambdaStarter = lambda.Start
	skipInjection = os.Getenv("CONFIG_SKIP_INJECTION") == "true"
)

func main() {
	if err := run(context.Background(), os.Getenv("CONFIG_FILE_PATH")); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

// run contém a lógica principal testável
func run(ctx context.Context, cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	// resolve referências ${env/ssm/secret} antes da validação
	if !skipInjection {
		inj, err := injector.NewFromRegion(ctx, cfg.AWS.Region)
		if err != nil {
			return err
		}
		if err := inj.Inject(ctx, cfg); err != nil {
			return err
		}
	}

	if err := config.NewValidator().Validate(cfg); err != nil {
		return err
	}

	appLogger := logger.Configure(cfg.Logging)

	provider, err := metrics.Setup(cfg.Metrics)
	if err != nil {
		return err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	store := dyndb.New(dynamodb.NewFromConfig(awsCfg), students.DefaultTableConfig(cfg.Table.Name))
	tables := students.NewTableManager(store, students.LifecycleConfig{
		PollInterval: cfg.Table.GetPollInterval(),
		MaxAttempts:  cfg.Table.MaxAttempts,
	}, appLogger)
	svc := students.NewService(store, tables, appLogger)

	var sqsClient events.SQSClient
	if cfg.Events.QueueURL != "" {
		sqsClient = sqs.NewFromConfig(awsCfg)
	}
	publisher := events.NewPublisher(sqsClient, cfg.Events.QueueURL, appLogger)

	server := transport.NewServer(svc, tables, publisher, provider, appLogger)

	switch cfg.Service.Runtime {
	case "local", "ec2", "ecs", "eks":
		appLogger.Info().
			Str("runtime", cfg.Service.Runtime).
			Str("table", cfg.Table.Name).
			Msg("iniciando servidor HTTP")
		return serverStarter(server, cfg.Service.Port)
	case "lambda":
		handler := transport.NewLambdaHandler(server)
		lambdaStarter(handler.Handle)
		return nil
	default:
		return fmt.Errorf("runtime desconhecido: %s", cfg.Service.Runtime)
	}
}
