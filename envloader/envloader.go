package envloader

import (
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Load preenche uma struct com valores de variáveis de ambiente baseado nas
// tags `env` e `envDefault`. Structs aninhadas (e ponteiros para struct) são
// percorridas recursivamente. Campos sem tag `env` são ignorados.
//
// Tipos suportados: string, inteiros (com e sem sinal), bool, floats,
// time.Duration (formato do time.ParseDuration) e []string (separado por
// vírgula).
func Load(config any) error {
	val := reflect.ValueOf(config)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return &InvalidConfigError{Value: val.Type()}
	}

	return loadStruct(val.Elem())
}

// MustLoad é o Load que entra em pânico em caso de erro. Uso restrito a
// inicialização de programa.
func MustLoad(config any) {
	if err := Load(config); err != nil {
		panic(err)
	}
}

func loadStruct(val reflect.Value) error {
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !field.CanSet() {
			continue
		}

		// time.Duration é um int64 nomeado: precisa ser tratado antes da
		// recursão e do switch por Kind
		if field.Type() == durationType {
			if err := applyEnv(field, fieldType); err != nil {
				return err
			}
			continue
		}

		if field.Kind() == reflect.Struct {
			if err := loadStruct(field); err != nil {
				return err
			}
			continue
		}

		if field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct {
			if field.IsNil() {
				field.Set(reflect.New(field.Type().Elem()))
			}
			if err := loadStruct(field.Elem()); err != nil {
				return err
			}
			continue
		}

		if err := applyEnv(field, fieldType); err != nil {
			return err
		}
	}

	return nil
}

func applyEnv(field reflect.Value, fieldType reflect.StructField) error {
	envTag := fieldType.Tag.Get("env")
	if envTag == "" {
		return nil
	}

	envValue := os.Getenv(envTag)
	if envValue == "" {
		envValue = fieldType.Tag.Get("envDefault")
	}
	if envValue == "" {
		return nil
	}

	if err := setFieldValue(field, envValue); err != nil {
		return &FieldError{
			FieldName: fieldType.Name,
			EnvVar:    envTag,
			Value:     envValue,
			Err:       err,
		}
	}
	return nil
}

func setFieldValue(field reflect.Value, value string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(intValue)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		uintValue, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetUint(uintValue)

	case reflect.Bool:
		boolValue, err := strconv.ParseBool(strings.ToLower(value))
		if err != nil {
			return err
		}
		field.SetBool(boolValue)

	case reflect.Float32, reflect.Float64:
		floatValue, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(floatValue)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return &UnsupportedTypeError{Type: field.Type()}
		}
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field.Set(reflect.ValueOf(parts))

	default:
		return &UnsupportedTypeError{Type: field.Type()}
	}

	return nil
}
