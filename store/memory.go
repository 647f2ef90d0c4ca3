package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/joCur/later-server/domain"
)

// Memory is a process-local Store with the same contract as Postgres,
// including cascade deletes and referential checks. It backs tests and the
// database-free dev mode, the role local storage played in the app's first
// generation.
type Memory struct {
	mu     sync.Mutex
	tables map[string]map[string]Row
	seq    int64
}

func NewMemory() *Memory {
	m := &Memory{tables: make(map[string]map[string]Row, len(schemas))}
	for table := range schemas {
		m.tables[table] = make(map[string]Row)
	}
	return m
}

func (m *Memory) Insert(_ context.Context, table string, row Row) (Row, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if err := checkColumns(table, sortedColumns(row)); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id, _ := row["id"].(string)
	if id == "" {
		return nil, domain.InvalidArgumentf("insert into %s without id", table)
	}
	if _, exists := m.tables[table][id]; exists {
		return nil, domain.Errorf(domain.KindConstraintViolation, "duplicate id %s in %s", id, table)
	}
	if err := m.checkParents(table, row); err != nil {
		return nil, err
	}

	stored := row.Clone()
	m.seq++
	stored["__seq"] = m.seq
	m.tables[table][id] = stored
	return publicRow(stored), nil
}

func (m *Memory) SelectByID(_ context.Context, table, id string) (Row, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.tables[table][id]
	if !ok {
		return nil, domain.NotFoundf("%s/%s", table, id)
	}
	return publicRow(row), nil
}

func (m *Memory) SelectByParent(_ context.Context, table, parentCol, parentID string) ([]Row, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if err := checkColumns(table, []string{parentCol}); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := make([]Row, 0)
	for _, row := range m.tables[table] {
		if row[parentCol] == parentID {
			matched = append(matched, row)
		}
	}
	orderRows(table, matched)
	out := make([]Row, len(matched))
	for i, row := range matched {
		out[i] = publicRow(row)
	}
	return out, nil
}

func (m *Memory) Update(_ context.Context, table, id string, patch Row) (Row, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if err := checkColumns(table, sortedColumns(patch)); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.tables[table][id]
	if !ok {
		return nil, domain.NotFoundf("%s/%s", table, id)
	}
	if err := m.checkParents(table, patch); err != nil {
		return nil, err
	}
	for k, v := range patch.Clone() {
		row[k] = v
	}
	return publicRow(row), nil
}

func (m *Memory) Delete(_ context.Context, table, id string) error {
	if err := checkTable(table); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cascadeDelete(table, id)
	return nil
}

func (m *Memory) DeleteByParent(_ context.Context, table, parentCol, parentID string) (int64, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	if err := checkColumns(table, []string{parentCol}); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, row := range m.tables[table] {
		if row[parentCol] == parentID {
			m.cascadeDelete(table, id)
			n++
		}
	}
	return n, nil
}

func (m *Memory) CountByParent(_ context.Context, table, parentCol, parentID string) (int, error) {
	return m.countWhere(table, parentCol, parentID, "", false, false)
}

func (m *Memory) CountByParentWhere(_ context.Context, table, parentCol, parentID, boolCol string, value bool) (int, error) {
	return m.countWhere(table, parentCol, parentID, boolCol, value, true)
}

func (m *Memory) countWhere(table, parentCol, parentID, boolCol string, value, filtered bool) (int, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	colsToCheck := []string{parentCol}
	if filtered {
		colsToCheck = append(colsToCheck, boolCol)
	}
	if err := checkColumns(table, colsToCheck); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, row := range m.tables[table] {
		if row[parentCol] != parentID {
			continue
		}
		if filtered {
			if b, _ := row[boolCol].(bool); b != value {
				continue
			}
		}
		n++
	}
	return n, nil
}

func (m *Memory) MaxIntByParent(_ context.Context, table, col, parentCol, parentID string) (int, bool, error) {
	if err := checkTable(table); err != nil {
		return 0, false, err
	}
	if err := checkColumns(table, []string{col, parentCol}); err != nil {
		return 0, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	max, found := 0, false
	for _, row := range m.tables[table] {
		if row[parentCol] != parentID {
			continue
		}
		v := asInt(row[col])
		if !found || v > max {
			max, found = v, true
		}
	}
	return max, found, nil
}

func (m *Memory) AdjustCounter(_ context.Context, table, id string, col string, delta int) (int, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	if err := checkColumns(table, []string{col}); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.tables[table][id]
	if !ok {
		return 0, domain.NotFoundf("%s/%s", table, id)
	}
	n := asInt(row[col]) + delta
	if n < 0 {
		n = 0
	}
	row[col] = n
	return n, nil
}

// cascadeDelete mirrors the ON DELETE CASCADE foreign keys of the Postgres
// schema. Caller holds the lock.
func (m *Memory) cascadeDelete(table, id string) {
	if _, ok := m.tables[table][id]; !ok {
		return
	}
	delete(m.tables[table], id)
	for child, fkCol := range schemas[table].children {
		for childID, row := range m.tables[child] {
			if row[fkCol] == id {
				m.cascadeDelete(child, childID)
			}
		}
	}
}

// checkParents rejects rows referencing absent parents, standing in for the
// schema's foreign keys. Caller holds the lock.
func (m *Memory) checkParents(table string, row Row) error {
	for parent, s := range schemas {
		fkCol, ok := s.children[table]
		if !ok {
			continue
		}
		ref, ok := row[fkCol].(string)
		if !ok || ref == "" {
			continue
		}
		if _, exists := m.tables[parent][ref]; !exists {
			return domain.Errorf(domain.KindConstraintViolation,
				"%s.%s references missing %s/%s", table, fkCol, parent, ref)
		}
	}
	return nil
}

func orderRows(table string, rows []Row) {
	orderBy := schemas[table].orderBy
	sort.SliceStable(rows, func(i, j int) bool {
		for _, col := range orderBy {
			if c := compareValues(rows[i][col], rows[j][col]); c != 0 {
				return c < 0
			}
		}
		return asInt64(rows[i]["__seq"]) < asInt64(rows[j]["__seq"])
	})
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case int, int32, int64:
		ai, bi := asInt64(a), asInt64(b)
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	case time.Time:
		bt, _ := b.(time.Time)
		switch {
		case av.Before(bt):
			return -1
		case av.After(bt):
			return 1
		}
		return 0
	case string:
		bs, _ := b.(string)
		switch {
		case av < bs:
			return -1
		case av > bs:
			return 1
		}
		return 0
	}
	return 0
}

func asInt(v any) int {
	return int(asInt64(v))
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	}
	return 0
}

func publicRow(stored Row) Row {
	out := stored.Clone()
	delete(out, "__seq")
	return out
}
