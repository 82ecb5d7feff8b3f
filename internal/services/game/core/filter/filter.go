// Package filter provides AIP-160 filter expression parsing and SQL translation.
package filter

import (
	"fmt"
	"strings"
	"time"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// Field declares one filterable identifier and the column it maps to.
type Field struct {
	Name   string
	Column string
	Type   *expr.Type
}

// Schema is the set of fields a listing accepts in its filter.
type Schema struct {
	fields map[string]Field
	order  []string
}

// NewSchema builds a schema from field declarations.
func NewSchema(fields ...Field) Schema {
	s := Schema{fields: make(map[string]Field, len(fields))}
	for _, f := range fields {
		s.fields[f.Name] = f
		s.order = append(s.order, f.Name)
	}
	return s
}

// AuditSchema describes the filterable audit journal fields.
func AuditSchema() Schema {
	return NewSchema(
		Field{Name: "game_id", Column: "game_id", Type: filtering.TypeString},
		Field{Name: "event_name", Column: "event_name", Type: filtering.TypeString},
		Field{Name: "severity", Column: "severity", Type: filtering.TypeString},
		Field{Name: "method", Column: "method", Type: filtering.TypeString},
		Field{Name: "code", Column: "code", Type: filtering.TypeString},
		Field{Name: "ts", Column: "timestamp", Type: filtering.TypeTimestamp},
	)
}

// Declarations returns the AIP declarations for the schema.
func (s Schema) Declarations() (*filtering.Declarations, error) {
	opts := []filtering.DeclarationOption{filtering.DeclareStandardFunctions()}
	for _, name := range s.order {
		opts = append(opts, filtering.DeclareIdent(name, s.fields[name].Type))
	}
	return filtering.NewDeclarations(opts...)
}

// SQLCondition represents a SQL WHERE clause fragment with parameters.
type SQLCondition struct {
	// Clause is the SQL WHERE clause (e.g., "game_id = ?").
	Clause string
	// Params are the positional parameters for the clause.
	Params []any
}

// ParseAuditFilter parses a filter over AuditSchema.
func ParseAuditFilter(filterStr string) (SQLCondition, error) {
	return AuditSchema().Parse(filterStr)
}

// Parse parses an AIP-160 filter expression and returns a SQL condition.
// An empty filter yields an empty condition.
func (s Schema) Parse(filterStr string) (SQLCondition, error) {
	if strings.TrimSpace(filterStr) == "" {
		return SQLCondition{}, nil
	}
	decls, err := s.Declarations()
	if err != nil {
		return SQLCondition{}, fmt.Errorf("create declarations: %w", err)
	}
	parsed, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return SQLCondition{}, fmt.Errorf("parse filter: %w", err)
	}
	return s.translateExpr(parsed.CheckedExpr.GetExpr())
}

var comparisonOps = map[string]string{
	"_==_": "=", "=": "=",
	"_!=_": "!=", "!=": "!=",
	"_<_": "<", "<": "<",
	"_<=_": "<=", "<=": "<=",
	"_>_": ">", ">": ">",
	"_>=_": ">=", ">=": ">=",
}

func (s Schema) translateExpr(e *expr.Expr) (SQLCondition, error) {
	if e == nil {
		return SQLCondition{}, nil
	}
	call, ok := e.ExprKind.(*expr.Expr_CallExpr)
	if !ok {
		return SQLCondition{}, fmt.Errorf("unsupported expression type: %T", e.ExprKind)
	}
	fn := call.CallExpr.GetFunction()
	args := call.CallExpr.GetArgs()

	switch fn {
	case "_&&_", filtering.FunctionAnd:
		return s.translateLogical(args, "AND")
	case "_||_", filtering.FunctionOr:
		return s.translateLogical(args, "OR")
	case "!_", filtering.FunctionNot:
		if len(args) != 1 {
			return SQLCondition{}, fmt.Errorf("NOT requires 1 argument")
		}
		inner, err := s.translateExpr(args[0])
		if err != nil {
			return SQLCondition{}, err
		}
		return SQLCondition{Clause: "NOT (" + inner.Clause + ")", Params: inner.Params}, nil
	}
	if op, ok := comparisonOps[fn]; ok {
		return s.translateComparison(args, op)
	}
	return SQLCondition{}, fmt.Errorf("unsupported function: %s", fn)
}

func (s Schema) translateLogical(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("%s requires 2 arguments", op)
	}
	left, err := s.translateExpr(args[0])
	if err != nil {
		return SQLCondition{}, err
	}
	right, err := s.translateExpr(args[1])
	if err != nil {
		return SQLCondition{}, err
	}
	return SQLCondition{
		Clause: fmt.Sprintf("(%s %s %s)", left.Clause, op, right.Clause),
		Params: append(left.Params, right.Params...),
	}, nil
}

func (s Schema) translateComparison(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("comparison requires 2 arguments")
	}
	ident, ok := args[0].GetExprKind().(*expr.Expr_IdentExpr)
	if !ok {
		return SQLCondition{}, fmt.Errorf("expected identifier, got %T", args[0].GetExprKind())
	}
	field, ok := s.fields[ident.IdentExpr.GetName()]
	if !ok {
		return SQLCondition{}, fmt.Errorf("unknown field: %s", ident.IdentExpr.GetName())
	}
	value, err := extractValue(args[1])
	if err != nil {
		return SQLCondition{}, err
	}
	return SQLCondition{
		Clause: fmt.Sprintf("%s %s ?", field.Column, op),
		Params: []any{value},
	}, nil
}

func extractValue(e *expr.Expr) (any, error) {
	switch kind := e.GetExprKind().(type) {
	case *expr.Expr_ConstExpr:
		return extractConstValue(kind.ConstExpr)
	case *expr.Expr_CallExpr:
		if kind.CallExpr.GetFunction() == filtering.FunctionTimestamp && len(kind.CallExpr.GetArgs()) == 1 {
			return extractTimestampMillis(kind.CallExpr.GetArgs()[0])
		}
		return nil, fmt.Errorf("unsupported function in value position: %s", kind.CallExpr.GetFunction())
	default:
		return nil, fmt.Errorf("expected constant or timestamp, got %T", kind)
	}
}

func extractConstValue(c *expr.Constant) (any, error) {
	switch kind := c.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_Uint64Value:
		return kind.Uint64Value, nil
	case *expr.Constant_DoubleValue:
		return kind.DoubleValue, nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}

// extractTimestampMillis converts timestamp("...") to unix milliseconds, the
// storage format of the timestamp column.
func extractTimestampMillis(e *expr.Expr) (int64, error) {
	constant, ok := e.GetExprKind().(*expr.Expr_ConstExpr)
	if !ok {
		return 0, fmt.Errorf("timestamp argument must be a constant string")
	}
	str, ok := constant.ConstExpr.GetConstantKind().(*expr.Constant_StringValue)
	if !ok {
		return 0, fmt.Errorf("timestamp argument must be a string")
	}
	t, err := time.Parse(time.RFC3339Nano, str.StringValue)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp format: %s", str.StringValue)
	}
	return t.UTC().UnixMilli(), nil
}
