// Package injector resolve referências externas em valores de configuração.
//
// Qualquer string da struct pode conter os padrões ${env.VAR}, ${ssm.path} e
// ${secret.id}; o injetor percorre a struct via reflection e substitui cada
// ocorrência pelo valor resolvido (ambiente, SSM Parameter Store ou Secrets
// Manager).
package injector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// Regex para capturar padrões ${tipo.chave}
// Ex: ${env.API_KEY}, ${ssm./app/config}, ${secret.db_pass}
var pattern = regexp.MustCompile(`\$\{(env|ssm|secret)\.([^}]+)\}`)

// SSMClient abstrai o cliente do Parameter Store (permite mocking).
type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SecretsClient abstrai o cliente do Secrets Manager (permite mocking).
type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type Injector struct {
	ssm     SSMClient
	secrets SecretsClient
}

// New cria um injetor com clientes explícitos. Qualquer um dos dois pode ser
// nil quando a configuração não usa a fonte correspondente.
func New(ssmClient SSMClient, secretsClient SecretsClient) *Injector {
	return &Injector{
		ssm:     ssmClient,
		secrets: secretsClient,
	}
}

// NewFromRegion cria um injetor com os clientes reais da AWS.
func NewFromRegion(ctx context.Context, region string) (*Injector, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("injector: load aws config: %w", err)
	}
	return New(ssm.NewFromConfig(cfg), secretsmanager.NewFromConfig(cfg)), nil
}

// Inject percorre a struct apontada por target e resolve as interpolações de
// todas as strings alcançáveis (campos, ponteiros, slices).
func (i *Injector) Inject(ctx context.Context, target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("injector: target deve ser um ponteiro para struct não nulo")
	}
	return i.injectRecursive(ctx, v.Elem())
}

func (i *Injector) injectRecursive(ctx context.Context, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Struct:
		for k := 0; k < v.NumField(); k++ {
			value := v.Field(k)

			if value.Kind() == reflect.String && value.CanSet() {
				newValue, err := i.interpolateString(ctx, value.String())
				if err != nil {
					return err
				}
				value.SetString(newValue)
				continue
			}

			if value.CanSet() || value.Kind() == reflect.Ptr {
				if err := i.injectRecursive(ctx, value); err != nil {
					return err
				}
			}
		}

	case reflect.Ptr:
		if !v.IsNil() {
			return i.injectRecursive(ctx, v.Elem())
		}

	case reflect.Slice:
		for j := 0; j < v.Len(); j++ {
			if err := i.injectRecursive(ctx, v.Index(j)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (i *Injector) interpolateString(ctx context.Context, input string) (string, error) {
	if !strings.Contains(input, "${") {
		return input, nil
	}

	var err error
	result := pattern.ReplaceAllStringFunc(input, func(match string) string {
		// match é algo como "${ssm./app/students/table}"
		content := match[2 : len(match)-1]
		parts := strings.SplitN(content, ".", 2)
		if len(parts) != 2 {
			return match
		}

		val, resolveErr := i.fetchValue(ctx, parts[0], parts[1])
		if resolveErr != nil {
			err = resolveErr
			return match
		}
		return val
	})

	return result, err
}

func (i *Injector) fetchValue(ctx context.Context, sourceType, key string) (string, error) {
	switch sourceType {
	case "env":
		// variável ausente resolve para vazio, não para erro
		return os.Getenv(key), nil

	case "ssm":
		if i.ssm == nil {
			return "", fmt.Errorf("injector: referência ${ssm.%s} sem cliente SSM configurado", key)
		}
		decrypt := true
		out, err := i.ssm.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           &key,
			WithDecryption: &decrypt,
		})
		if err != nil {
			return "", fmt.Errorf("injector: ssm get parameter %s: %w", key, err)
		}
		return *out.Parameter.Value, nil

	case "secret":
		if i.secrets == nil {
			return "", fmt.Errorf("injector: referência ${secret.%s} sem cliente Secrets Manager configurado", key)
		}
		out, err := i.secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: &key,
		})
		if err != nil {
			return "", fmt.Errorf("injector: secretsmanager get %s: %w", key, err)
		}
		return flattenSecret(*out.SecretString), nil
	}

	return "", nil
}

// flattenSecret devolve o segredo como string. Segredos JSON com um único
// campo são achatados para o valor do campo; os demais ficam no formato bruto.
func flattenSecret(raw string) string {
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil || len(data) != 1 {
		return raw
	}
	for _, v := range data {
		return fmt.Sprintf("%v", v)
	}
	return raw
}
