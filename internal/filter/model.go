package filter

import (
	"regexp"
	"strconv"
	"strings"
)

type NodeType string

const (
	NodeTypeCondition NodeType = "condition"
	NodeTypeLogical   NodeType = "logical"
)

type LogicalOperator string

const (
	LogicalOperatorAnd LogicalOperator = "and"
	LogicalOperatorOr  LogicalOperator = "or"
)

type ComparisonOperator string

const (
	OperatorEquals         ComparisonOperator = "eq"
	OperatorNotEquals      ComparisonOperator = "ne"
	OperatorGreaterThan    ComparisonOperator = "gt"
	OperatorGreaterOrEqual ComparisonOperator = "gte"
	OperatorLessThan       ComparisonOperator = "lt"
	OperatorLessOrEqual    ComparisonOperator = "lte"
	OperatorLike           ComparisonOperator = "like"
	OperatorILike          ComparisonOperator = "ilike"
	OperatorIn             ComparisonOperator = "in"
	OperatorNotIn          ComparisonOperator = "not_in"
	OperatorIsNull         ComparisonOperator = "is_null"
	OperatorIsNotNull      ComparisonOperator = "is_not_null"
	OperatorDateEquals     ComparisonOperator = "date_eq"
	OperatorDateNotEquals  ComparisonOperator = "date_ne"
	OperatorDateBefore     ComparisonOperator = "date_before"
	OperatorDateAfter      ComparisonOperator = "date_after"
	OperatorDateBetween    ComparisonOperator = "date_between"
	OperatorDateNotBetween ComparisonOperator = "date_not_between"
	OperatorDateToday      ComparisonOperator = "date_today"
	OperatorDateYesterday  ComparisonOperator = "date_yesterday"
	OperatorDateThisWeek   ComparisonOperator = "date_this_week"
	OperatorDateLastWeek   ComparisonOperator = "date_last_week"
	OperatorDateThisMonth  ComparisonOperator = "date_this_month"
	OperatorDateLastMonth  ComparisonOperator = "date_last_month"
	OperatorDateThisYear   ComparisonOperator = "date_this_year"
	OperatorDateLastYear   ComparisonOperator = "date_last_year"
)

// Node is the tagged union of a leaf condition and a logical group.
type Node struct {
	Type      NodeType
	Condition *Condition
	Logic     *Group
}

// Condition is one field/operator/value leaf.
type Condition struct {
	Field    string
	Operator ComparisonOperator
	Value    any
}

// Group joins sub-filters with a single logical operator. Children may
// themselves be logical, nested to arbitrary depth.
type Group struct {
	Operator LogicalOperator
	Children []Node
}

func ConditionNode(field string, operator ComparisonOperator, value any) Node {
	return Node{
		Type:      NodeTypeCondition,
		Condition: &Condition{Field: field, Operator: operator, Value: value},
	}
}

func GroupNode(operator LogicalOperator, children ...Node) Node {
	return Node{
		Type:  NodeTypeLogical,
		Logic: &Group{Operator: operator, Children: children},
	}
}

type SortDirection string

const (
	SortAscending  SortDirection = "ASC"
	SortDescending SortDirection = "DESC"
)

type SortOption struct {
	Field     string
	Direction SortDirection
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type Pagination struct {
	Page  int
	Limit int
}

func DefaultPagination() Pagination {
	return Pagination{Page: DefaultPage, Limit: DefaultLimit}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

var canonicalOperators = map[string]ComparisonOperator{}

func init() {
	for _, operator := range []ComparisonOperator{
		OperatorEquals, OperatorNotEquals,
		OperatorGreaterThan, OperatorGreaterOrEqual,
		OperatorLessThan, OperatorLessOrEqual,
		OperatorLike, OperatorILike,
		OperatorIn, OperatorNotIn,
		OperatorIsNull, OperatorIsNotNull,
		OperatorDateEquals, OperatorDateNotEquals,
		OperatorDateBefore, OperatorDateAfter,
		OperatorDateBetween, OperatorDateNotBetween,
		OperatorDateToday, OperatorDateYesterday,
		OperatorDateThisWeek, OperatorDateLastWeek,
		OperatorDateThisMonth, OperatorDateLastMonth,
		OperatorDateThisYear, OperatorDateLastYear,
	} {
		canonicalOperators[string(operator)] = operator
	}
}

// legacyAliases maps the human operator tokens of the flattened
// field@OPERATOR grammar onto canonical operators.
var legacyAliases = map[string]ComparisonOperator{
	"equals":       OperatorEquals,
	"not_equals":   OperatorNotEquals,
	"greater_than": OperatorGreaterThan,
	"less_than":    OperatorLessThan,
	"contains":     OperatorLike,
	"null":         OperatorIsNull,
	"not_null":     OperatorIsNotNull,
	"after":        OperatorDateAfter,
	"before":       OperatorDateBefore,
	"between":      OperatorDateBetween,
	"not_between":  OperatorDateNotBetween,
	"on":           OperatorDateEquals,
	"not_on":       OperatorDateNotEquals,
	"today":        OperatorDateToday,
	"yesterday":    OperatorDateYesterday,
	"this_week":    OperatorDateThisWeek,
	"last_week":    OperatorDateLastWeek,
	"this_month":   OperatorDateThisMonth,
	"last_month":   OperatorDateLastMonth,
	"this_year":    OperatorDateThisYear,
	"last_year":    OperatorDateLastYear,
}

// ParseOperator resolves a structured-grammar operator token,
// case-insensitively, with bracket characters stripped defensively.
// Legacy aliases are accepted as a fallback.
func ParseOperator(token string) (ComparisonOperator, bool) {
	token = strings.ToLower(strings.Trim(strings.TrimSpace(token), "[]"))
	if operator, ok := canonicalOperators[token]; ok {
		return operator, true
	}
	if operator, ok := legacyAliases[token]; ok {
		return operator, true
	}
	return "", false
}

// RequiresValue reports whether the operator needs an input value.
// Nullness checks and the current-time date buckets do not.
func RequiresValue(operator ComparisonOperator) bool {
	switch operator {
	case OperatorIsNull, OperatorIsNotNull,
		OperatorDateToday, OperatorDateYesterday,
		OperatorDateThisWeek, OperatorDateLastWeek,
		OperatorDateThisMonth, OperatorDateLastMonth,
		OperatorDateThisYear, OperatorDateLastYear:
		return false
	default:
		return true
	}
}

var fieldNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// IsValidFieldName guards column names that end up interpolated into
// query fragments; bound values are always parameterized separately.
func IsValidFieldName(field string) bool {
	return fieldNamePattern.MatchString(field)
}

// CoerceScalar converts a raw string value the way leaf conditions
// expect: numeric strings become numbers, true/false become booleans,
// everything else passes through unchanged.
func CoerceScalar(value string) any {
	trimmed := strings.TrimSpace(value)

	if intValue, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return intValue
	}
	if floatValue, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return floatValue
	}

	switch strings.ToLower(trimmed) {
	case "true":
		return true
	case "false":
		return false
	}

	return value
}
