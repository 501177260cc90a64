package students_test

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/raywall/student-records-service/dyndb"
	"github.com/raywall/student-records-service/students"
)

// fakeStore é um Store[Student] em memória para os testes do serviço. Os
// filtros de ScanAll são avaliados de verdade: a expressão é construída e as
// cláusulas `contains(#n, :n)` são resolvidas contra os campos do registro,
// combinadas com OR (o único formato que o serviço emite).
type fakeStore struct {
	mu    sync.Mutex
	items map[string]students.Student

	exists        bool
	status        types.TableStatus
	describeCalls int
	createCalls   int
	// número de describes pós-criação antes do status virar ACTIVE
	activateAfter int
}

var containsClause = regexp.MustCompile(`contains \((#\w+), (:\w+)\)`)

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:  map[string]students.Student{},
		exists: true,
		status: types.TableStatusActive,
	}
}

func (f *fakeStore) Get(ctx context.Context, hashKey any) (*students.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	st, ok := f.items[hashKey.(string)]
	if !ok {
		return nil, dyndb.ErrNotFound
	}
	return &st, nil
}

func (f *fakeStore) Put(ctx context.Context, item students.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items[item.ID] = item
	return nil
}

func (f *fakeStore) Update(ctx context.Context, hashKey any, set map[string]any) (*students.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	st, ok := f.items[hashKey.(string)]
	if !ok {
		return nil, dyndb.ErrNotFound
	}
	for name, value := range set {
		s, _ := value.(string)
		switch name {
		case "fullName":
			st.FullName = s
		case "address":
			st.Address = s
		case "email":
			st.Email = s
		case "phoneNumber":
			st.PhoneNumber = s
		case "updatedAt":
			st.UpdatedAt = s
		}
	}
	f.items[st.ID] = st
	return &st, nil
}

func (f *fakeStore) Delete(ctx context.Context, hashKey any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.items, hashKey.(string))
	return nil
}

func (f *fakeStore) ScanAll(ctx context.Context, filter *expression.ConditionBuilder) ([]students.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]students.Student, 0, len(f.items))
	for _, st := range f.items {
		if filter == nil || matchesFilter(st, filter) {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func matchesFilter(st students.Student, filter *expression.ConditionBuilder) bool {
	expr, err := expression.NewBuilder().WithFilter(*filter).Build()
	if err != nil {
		return false
	}

	for _, clause := range containsClause.FindAllStringSubmatch(aws.ToString(expr.Filter()), -1) {
		field := expr.Names()[clause[1]]
		value, ok := expr.Values()[clause[2]].(*types.AttributeValueMemberS)
		if !ok {
			continue
		}
		if strings.Contains(fieldOf(st, field), value.Value) {
			return true
		}
	}
	return false
}

func fieldOf(st students.Student, name string) string {
	switch name {
	case "fullName":
		return st.FullName
	case "address":
		return st.Address
	case "email":
		return st.Email
	case "phoneNumber":
		return st.PhoneNumber
	default:
		return ""
	}
}

func (f *fakeStore) Describe(ctx context.Context) (*types.TableDescription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.describeCalls++
	if !f.exists {
		return nil, nil
	}
	if f.status != types.TableStatusActive && f.activateAfter > 0 {
		f.activateAfter--
		if f.activateAfter == 0 {
			f.status = types.TableStatusActive
		}
	}
	return &types.TableDescription{
		TableName:   aws.String("students"),
		TableStatus: f.status,
	}, nil
}

func (f *fakeStore) CreateTable(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++
	f.exists = true
	if f.status == "" {
		f.status = types.TableStatusCreating
	}
	return nil
}

func (f *fakeStore) ListTables(ctx context.Context) ([]string, error) {
	return []string{"students"}, nil
}
