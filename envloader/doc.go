// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Package envloader carrega variáveis de ambiente diretamente para campos de
// uma struct Go via reflection, usando as tags `env` (nome da variável) e
// `envDefault` (valor padrão quando a variável não está definida).
//
// Tipos suportados: string, inteiros (com e sem sinal), bool, float,
// time.Duration (formato aceito pelo time.ParseDuration, ex.: "1s", "500ms"),
// []string (lista separada por vírgula) e structs aninhadas (inclusive via
// ponteiro).
//
// Exemplo:
//
//	type Config struct {
//	    TableName    string        `env:"DYNAMODB_TABLE_NAME" envDefault:"students"`
//	    PollInterval time.Duration `env:"TABLE_POLL_INTERVAL" envDefault:"1s"`
//	}
//
//	var cfg Config
//	if err := envloader.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Campos sem a tag `env` são ignorados; erros de conversão chegam como
// *FieldError com a variável e o valor bruto que falhou.
package envloader
