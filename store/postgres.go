package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joCur/later-server/domain"
)

// Postgres implements Store on a pgx connection pool. Per-owner row security
// policies, when used, are provisioned on the database outside the shipped
// migrations; this layer only ships the owner_id column along with every row.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, classify(err)
	}
	return pool, nil
}

func (p *Postgres) Insert(ctx context.Context, table string, row Row) (Row, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	columns := sortedColumns(row)
	if err := checkColumns(table, columns); err != nil {
		return nil, err
	}

	placeholders := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = row[col]
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "),
	)
	return p.queryOne(ctx, query, args...)
}

func (p *Postgres) SelectByID(ctx context.Context, table, id string) (Row, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT * FROM %s WHERE id = $1", table)
	return p.queryOne(ctx, query, id)
}

func (p *Postgres) SelectByParent(ctx context.Context, table, parentCol, parentID string) ([]Row, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	if err := checkColumns(table, []string{parentCol}); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(
		"SELECT * FROM %s WHERE %s = $1 ORDER BY %s",
		table, parentCol, orderClause(table),
	)
	rows, err := p.pool.Query(ctx, query, parentID)
	if err != nil {
		return nil, classify(err)
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, classify(err)
	}
	out := make([]Row, len(maps))
	for i, m := range maps {
		out[i] = normalizeRow(m)
	}
	return out, nil
}

func (p *Postgres) Update(ctx context.Context, table, id string, patch Row) (Row, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	columns := sortedColumns(patch)
	if err := checkColumns(table, columns); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, domain.InvalidArgumentf("empty patch for %s/%s", table, id)
	}

	assignments := make([]string, len(columns))
	args := make([]any, 0, len(columns)+1)
	for i, col := range columns {
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+1)
		args = append(args, patch[col])
	}
	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d RETURNING *",
		table, strings.Join(assignments, ", "), len(args),
	)
	return p.queryOne(ctx, query, args...)
}

func (p *Postgres) Delete(ctx context.Context, table, id string) error {
	if err := checkTable(table); err != nil {
		return err
	}
	// Zero rows affected is fine: delete is idempotent.
	_, err := p.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	return classify(err)
}

func (p *Postgres) DeleteByParent(ctx context.Context, table, parentCol, parentID string) (int64, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	if err := checkColumns(table, []string{parentCol}); err != nil {
		return 0, err
	}
	tag, err := p.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table, parentCol), parentID)
	if err != nil {
		return 0, classify(err)
	}
	return tag.RowsAffected(), nil
}

func (p *Postgres) CountByParent(ctx context.Context, table, parentCol, parentID string) (int, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	if err := checkColumns(table, []string{parentCol}); err != nil {
		return 0, err
	}
	var n int
	query := fmt.Sprintf("SELECT count(*) FROM %s WHERE %s = $1", table, parentCol)
	if err := p.pool.QueryRow(ctx, query, parentID).Scan(&n); err != nil {
		return 0, classify(err)
	}
	return n, nil
}

func (p *Postgres) CountByParentWhere(ctx context.Context, table, parentCol, parentID, boolCol string, value bool) (int, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	if err := checkColumns(table, []string{parentCol, boolCol}); err != nil {
		return 0, err
	}
	var n int
	query := fmt.Sprintf("SELECT count(*) FROM %s WHERE %s = $1 AND %s = $2", table, parentCol, boolCol)
	if err := p.pool.QueryRow(ctx, query, parentID, value).Scan(&n); err != nil {
		return 0, classify(err)
	}
	return n, nil
}

func (p *Postgres) MaxIntByParent(ctx context.Context, table, col, parentCol, parentID string) (int, bool, error) {
	if err := checkTable(table); err != nil {
		return 0, false, err
	}
	if err := checkColumns(table, []string{col, parentCol}); err != nil {
		return 0, false, err
	}
	var max *int
	query := fmt.Sprintf("SELECT max(%s) FROM %s WHERE %s = $1", col, table, parentCol)
	if err := p.pool.QueryRow(ctx, query, parentID).Scan(&max); err != nil {
		return 0, false, classify(err)
	}
	if max == nil {
		return 0, false, nil
	}
	return *max, true, nil
}

func (p *Postgres) AdjustCounter(ctx context.Context, table, id string, col string, delta int) (int, error) {
	if err := checkTable(table); err != nil {
		return 0, err
	}
	if err := checkColumns(table, []string{col}); err != nil {
		return 0, err
	}
	var n int
	query := fmt.Sprintf("UPDATE %s SET %s = GREATEST(%s + $1, 0) WHERE id = $2 RETURNING %s", table, col, col, col)
	if err := p.pool.QueryRow(ctx, query, delta, id).Scan(&n); err != nil {
		return 0, classify(err)
	}
	return n, nil
}

func (p *Postgres) queryOne(ctx context.Context, query string, args ...any) (Row, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, classify(err)
	}
	return normalizeRow(m), nil
}

func sortedColumns(row Row) []string {
	columns := make([]string, 0, len(row))
	for col := range row {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns
}

func checkTable(table string) error {
	if !validTable(table) {
		return domain.InvalidArgumentf("unknown table %q", table)
	}
	return nil
}

func checkColumns(table string, columns []string) error {
	for _, col := range columns {
		if !validColumn(table, col) {
			return domain.InvalidArgumentf("unknown column %q on %s", col, table)
		}
	}
	return nil
}

func orderClause(table string) string {
	return strings.Join(schemas[table].orderBy, ", ")
}

// normalizeRow flattens driver-specific values into the plain forms the
// repositories expect: uuid bytes become strings, text arrays become
// []string.
func normalizeRow(m map[string]any) Row {
	out := make(Row, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case [16]byte:
			out[k] = uuid.UUID(val).String()
		case []any:
			ss := make([]string, 0, len(val))
			for _, e := range val {
				if s, ok := e.(string); ok {
					ss = append(ss, s)
				}
			}
			out[k] = ss
		default:
			out[k] = v
		}
	}
	return out
}

