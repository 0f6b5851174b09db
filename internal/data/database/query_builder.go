// Package database builds parameterized SELECT statements for list endpoints.
package database

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

type ConditionType string

const (
	Equal              ConditionType = "="
	NotEqual           ConditionType = "!="
	GreaterThan        ConditionType = ">"
	LessThan           ConditionType = "<"
	LessThanOrEqual    ConditionType = "<="
	GreaterThanOrEqual ConditionType = ">="
	ILike              ConditionType = "ILIKE"
	In                 ConditionType = "IN"
	Any                ConditionType = "ANY"
	IsNull             ConditionType = "IS NULL"
	Custom             ConditionType = "CUSTOM"

	unset = -1
)

// Condition is one AND-ed predicate of a WHERE clause.
type Condition struct {
	Field  string
	Type   ConditionType
	Value  any
	raw    string
	params []any
}

// WhereCond builds a predicate on a column. Field may be qualified ("j.status").
func WhereCond(field string, condType ConditionType, value any) Condition {
	if condType == Custom {
		//nolint:forbidigo // raw SQL must go through WhereRaw
		panic("database: use WhereRaw for custom conditions")
	}
	return Condition{Field: field, Type: condType, Value: value}
}

// WhereRaw builds a predicate from SQL using local placeholders $1..$n that
// refer to params. Placeholders are renumbered when the clause is assembled.
// The SQL text is not sanitized.
func WhereRaw(sql string, params ...any) Condition {
	return Condition{Type: Custom, raw: sql, params: params}
}

// ListQueryOptions describes one SELECT.
type ListQueryOptions struct {
	Table      string
	Alias      string
	Columns    []string
	CountOnly  bool
	Conditions []Condition
	OrderBy    []string
	Limit      int
	Offset     int
}

type ListQueryOption func(*ListQueryOptions)

// NewListQueryOptions starts a query on table.
func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	o := &ListQueryOptions{Table: table, Limit: unset, Offset: unset}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithAlias sets the table alias used by qualified columns.
func WithAlias(alias string) ListQueryOption {
	return func(o *ListQueryOptions) { o.Alias = alias }
}

// WithColumns sets the selected columns. "x.*" is kept unquoted.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) { o.Columns = cols }
}

// WithCondition appends cond.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = append(o.Conditions, cond) }
}

// WithConditions appends every cond.
func WithConditions(conds ...Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = append(o.Conditions, conds...) }
}

// WithOrderBy appends an ORDER BY term. Directions other than ASC or DESC are dropped.
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) {
		term := quoteQualified(column)
		if d := strings.ToUpper(direction); d == "ASC" || d == "DESC" {
			term += " " + d
		}
		o.OrderBy = append(o.OrderBy, term)
	}
}

// WithLimit sets LIMIT. Negative values are ignored.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// WithOffset sets OFFSET. Negative values are ignored.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if offset >= 0 {
			o.Offset = offset
		}
	}
}

// WithCountOnly turns the query into SELECT COUNT(*) without ordering or paging.
func WithCountOnly() ListQueryOption {
	return func(o *ListQueryOptions) { o.CountOnly = true }
}

func quoteQualified(ident string) string {
	parts := strings.Split(ident, ".")
	if parts[len(parts)-1] == "*" {
		if len(parts) == 1 {
			return "*"
		}
		return pgx.Identifier(parts[:len(parts)-1]).Sanitize() + ".*"
	}
	return pgx.Identifier(parts).Sanitize()
}

// BuildListQuery renders the statement and its positional arguments.
//
//	q, args := BuildListQuery(NewListQueryOptions("jobs",
//		WithAlias("j"),
//		WithColumns("j.*"),
//		WithCondition(WhereCond("j.status", Any, []string{"pending", "assigned"})),
//		WithOrderBy("j.created_at", "DESC"),
//		WithLimit(15),
//	))
func BuildListQuery(o *ListQueryOptions) (string, []any) {
	if o == nil {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	switch {
	case o.CountOnly:
		b.WriteString("COUNT(*)")
	case len(o.Columns) == 0:
		b.WriteString("*")
	default:
		cols := make([]string, len(o.Columns))
		for i, c := range o.Columns {
			cols[i] = quoteQualified(c)
		}
		b.WriteString(strings.Join(cols, ", "))
	}
	b.WriteString(" FROM ")
	b.WriteString(pgx.Identifier{o.Table}.Sanitize())
	if o.Alias != "" {
		b.WriteString(" ")
		b.WriteString(pgx.Identifier{o.Alias}.Sanitize())
	}

	where, args := buildWhere(o.Conditions)
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	if o.CountOnly {
		return b.String(), args
	}

	if len(o.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(o.OrderBy, ", "))
	}
	if o.Limit != unset {
		args = append(args, o.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if o.Offset != unset {
		args = append(args, o.Offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}
	return b.String(), args
}

func buildWhere(conds []Condition) (string, []any) {
	parts := make([]string, 0, len(conds))
	args := []any{}
	for _, c := range conds {
		sql, next := renderCondition(c, args)
		if sql == "" {
			continue
		}
		parts = append(parts, sql)
		args = next
	}
	return strings.Join(parts, " AND "), args
}

var placeholderRE = regexp.MustCompile(`\$(\d+)`)

// renderCondition returns the predicate SQL and args extended with its
// parameters. Conditions that cannot be rendered safely yield "".
func renderCondition(c Condition, args []any) (string, []any) {
	if c.Type == Custom {
		return renderRaw(c, args)
	}
	if c.Field == "" {
		return "", args
	}
	field := quoteQualified(c.Field)

	switch c.Type {
	case IsNull:
		return field + " IS NULL", args
	case In:
		rv := reflect.ValueOf(c.Value)
		if rv.Kind() != reflect.Slice || rv.Len() == 0 {
			return "", args
		}
		ph := make([]string, rv.Len())
		for i := range rv.Len() {
			args = append(args, rv.Index(i).Interface())
			ph[i] = "$" + strconv.Itoa(len(args))
		}
		return fmt.Sprintf("%s IN (%s)", field, strings.Join(ph, ", ")), args
	case Any:
		rv := reflect.ValueOf(c.Value)
		if rv.Kind() != reflect.Slice || rv.Len() == 0 {
			return "", args
		}
		args = append(args, c.Value)
		return fmt.Sprintf("%s = ANY($%d)", field, len(args)), args
	case Equal, NotEqual, GreaterThan, LessThan, LessThanOrEqual, GreaterThanOrEqual, ILike:
		args = append(args, c.Value)
		return fmt.Sprintf("%s %s $%d", field, c.Type, len(args)), args
	case Custom:
	}
	return "", args
}

func renderRaw(c Condition, args []any) (string, []any) {
	if strings.TrimSpace(c.raw) == "" {
		return "", args
	}
	base := len(args)
	used := 0
	valid := true
	sql := placeholderRE.ReplaceAllStringFunc(c.raw, func(m string) string {
		n, err := strconv.Atoi(m[1:])
		if err != nil || n < 1 || n > len(c.params) {
			valid = false
			return m
		}
		used = max(used, n)
		return "$" + strconv.Itoa(base+n)
	})
	if !valid {
		return "", args
	}
	args = append(args, c.params[:used]...)
	return "(" + sql + ")", args
}
