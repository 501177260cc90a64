// Package students implementa a camada de acesso aos registros de estudantes
// sobre o adaptador `dyndb`.
//
// Ele reúne duas responsabilidades:
//
//   - `TableManager`: provisionamento preguiçoso e idempotente da tabela
//     (describe → create → polling até ACTIVE), mais operações de diagnóstico
//     (Describe, ListAll);
//   - `Service`: as operações de registro (Create, GetAll, GetByID, Update,
//     Delete, Search, SearchByAddress, SearchByEmailDomain).
//
// Convenção de erros: "não encontrado" nunca é erro — GetByID e Update devolvem
// (nil, nil) quando o id não existe. Falhas reais chegam como um único erro
// achatado por operação ("failed to <op> student(s): ...").
package students
