package query

import (
	"fmt"
	"strings"
	"time"

	"storefront/internal/filter"
	"storefront/internal/util/timeutil"

	"gorm.io/gorm"
)

// Translator walks a filter tree and renders one parameterized
// condition string with globally unique named parameters (@p_0,
// @p_1, ...), so the same field/operator pair can repeat anywhere in
// the tree without bind-name collisions. Logical groups render as
// bracketed sub-expressions matching the declared nesting.
//
// Unknown operators and invalid field names translate to no condition
// at all: the caller treats that as a no-op, never as "match nothing".
type Translator struct {
	now func() time.Time
}

func NewTranslator() *Translator {
	return &Translator{now: time.Now}
}

// NewTranslatorAt pins the clock used by the relative date-bucket
// operators; tests rely on this.
func NewTranslatorAt(now func() time.Time) *Translator {
	return &Translator{now: now}
}

// Translate renders the tree. The returned condition is empty when
// nothing translatable remains; params then carries no entries.
func (t *Translator) Translate(node *filter.Node) (string, map[string]any) {
	state := &translation{
		params: map[string]any{},
		now:    t.now().UTC(),
	}

	condition := state.renderNode(node)
	return condition, state.params
}

// Apply attaches the translated condition to the query when the tree
// produced one.
func (t *Translator) Apply(db *gorm.DB, node *filter.Node) *gorm.DB {
	condition, params := t.Translate(node)
	if condition == "" {
		return db
	}
	return db.Where(condition, params)
}

// ApplySort adds each sort field in order, falling back to a single
// descending sort on defaultField when none is given.
func ApplySort(db *gorm.DB, sorts []filter.SortOption, defaultField string) *gorm.DB {
	applied := false

	for _, sortOption := range sorts {
		if !filter.IsValidFieldName(sortOption.Field) {
			continue
		}
		db = db.Order(fmt.Sprintf("%s %s", sortOption.Field, sortOption.Direction))
		applied = true
	}

	if !applied && defaultField != "" && filter.IsValidFieldName(defaultField) {
		db = db.Order(fmt.Sprintf("%s %s", defaultField, filter.SortDescending))
	}

	return db
}

type translation struct {
	params  map[string]any
	counter int
	now     time.Time
}

func (s *translation) renderNode(node *filter.Node) string {
	if node == nil {
		return ""
	}

	switch node.Type {
	case filter.NodeTypeCondition:
		if node.Condition == nil {
			return ""
		}
		return s.renderCondition(node.Condition)
	case filter.NodeTypeLogical:
		if node.Logic == nil || len(node.Logic.Children) == 0 {
			return ""
		}
		return s.renderGroup(node.Logic)
	default:
		return ""
	}
}

func (s *translation) renderGroup(group *filter.Group) string {
	joiner := " AND "
	if group.Operator == filter.LogicalOperatorOr {
		joiner = " OR "
	}

	parts := make([]string, 0, len(group.Children))
	for i := range group.Children {
		if part := s.renderNode(&group.Children[i]); part != "" {
			parts = append(parts, part)
		}
	}

	if len(parts) == 0 {
		return ""
	}

	return "(" + strings.Join(parts, joiner) + ")"
}

func (s *translation) renderCondition(condition *filter.Condition) string {
	field := strings.TrimSpace(condition.Field)
	if !filter.IsValidFieldName(field) {
		return ""
	}

	switch condition.Operator {
	case filter.OperatorEquals:
		return s.comparison(field, "=", condition.Value)
	case filter.OperatorNotEquals:
		return s.comparison(field, "<>", condition.Value)
	case filter.OperatorGreaterThan:
		return s.comparison(field, ">", condition.Value)
	case filter.OperatorGreaterOrEqual:
		return s.comparison(field, ">=", condition.Value)
	case filter.OperatorLessThan:
		return s.comparison(field, "<", condition.Value)
	case filter.OperatorLessOrEqual:
		return s.comparison(field, "<=", condition.Value)

	case filter.OperatorLike:
		name := s.bind(wrapLike(condition.Value))
		return fmt.Sprintf("%s LIKE @%s", field, name)
	case filter.OperatorILike:
		name := s.bind(wrapLike(condition.Value))
		return fmt.Sprintf("UPPER(%s) LIKE UPPER(@%s)", field, name)

	case filter.OperatorIn:
		return s.membership(field, "IN", condition.Value)
	case filter.OperatorNotIn:
		return s.membership(field, "NOT IN", condition.Value)

	case filter.OperatorIsNull:
		return fmt.Sprintf("%s IS NULL", field)
	case filter.OperatorIsNotNull:
		return fmt.Sprintf("%s IS NOT NULL", field)

	case filter.OperatorDateEquals:
		return s.dayRange(field, "BETWEEN", condition.Value)
	case filter.OperatorDateNotEquals:
		return s.dayRange(field, "NOT BETWEEN", condition.Value)

	case filter.OperatorDateBefore:
		date, ok := asTime(condition.Value)
		if !ok {
			return ""
		}
		return fmt.Sprintf("%s < @%s", field, s.bind(date))
	case filter.OperatorDateAfter:
		date, ok := asTime(condition.Value)
		if !ok {
			return ""
		}
		return fmt.Sprintf("%s > @%s", field, s.bind(date))

	case filter.OperatorDateBetween:
		return s.dateRange(field, "BETWEEN", condition.Value)
	case filter.OperatorDateNotBetween:
		return s.dateRange(field, "NOT BETWEEN", condition.Value)

	case filter.OperatorDateToday, filter.OperatorDateYesterday,
		filter.OperatorDateThisWeek, filter.OperatorDateLastWeek,
		filter.OperatorDateThisMonth, filter.OperatorDateLastMonth,
		filter.OperatorDateThisYear, filter.OperatorDateLastYear:
		start, end, ok := s.bucketBounds(condition.Operator)
		if !ok {
			return ""
		}
		return s.between(field, "BETWEEN", start, end)

	default:
		return "" // unknown operator is a no-op, not match-nothing
	}
}

func (s *translation) comparison(field, operator string, value any) string {
	if raw, ok := value.(string); ok {
		value = filter.CoerceScalar(raw)
	}
	return fmt.Sprintf("%s %s @%s", field, operator, s.bind(value))
}

func (s *translation) membership(field, operator string, value any) string {
	items := asList(value)
	if len(items) == 0 {
		return ""
	}
	return fmt.Sprintf("%s %s @%s", field, operator, s.bind(items))
}

// dayRange expands a single date to that calendar day's bounds.
func (s *translation) dayRange(field, operator string, value any) string {
	date, ok := asTime(value)
	if !ok {
		return ""
	}
	start, end := timeutil.DayBounds(date)
	return s.between(field, operator, start, end)
}

func (s *translation) dateRange(field, operator string, value any) string {
	bounds, ok := asTimePair(value)
	if !ok {
		return ""
	}
	return s.between(field, operator, bounds[0], bounds[1])
}

func (s *translation) between(field, operator string, start, end time.Time) string {
	name := s.nextName()
	startName := name + "_start"
	endName := name + "_end"
	s.params[startName] = start
	s.params[endName] = end
	return fmt.Sprintf("%s %s @%s AND @%s", field, operator, startName, endName)
}

func (s *translation) bucketBounds(operator filter.ComparisonOperator) (time.Time, time.Time, bool) {
	now := s.now

	switch operator {
	case filter.OperatorDateToday:
		start, end := timeutil.DayBounds(now)
		return start, end, true
	case filter.OperatorDateYesterday:
		start, end := timeutil.DayBounds(now.AddDate(0, 0, -1))
		return start, end, true
	case filter.OperatorDateThisWeek:
		start := timeutil.WeekStart(now)
		return start, start.AddDate(0, 0, 7).Add(-time.Millisecond), true
	case filter.OperatorDateLastWeek:
		start := timeutil.WeekStart(now).AddDate(0, 0, -7)
		return start, start.AddDate(0, 0, 7).Add(-time.Millisecond), true
	case filter.OperatorDateThisMonth:
		start := timeutil.MonthStart(now)
		return start, start.AddDate(0, 1, 0).Add(-time.Millisecond), true
	case filter.OperatorDateLastMonth:
		start := timeutil.MonthStart(now).AddDate(0, -1, 0)
		return start, start.AddDate(0, 1, 0).Add(-time.Millisecond), true
	case filter.OperatorDateThisYear:
		start := timeutil.YearStart(now)
		return start, start.AddDate(1, 0, 0).Add(-time.Millisecond), true
	case filter.OperatorDateLastYear:
		start := timeutil.YearStart(now).AddDate(-1, 0, 0)
		return start, start.AddDate(1, 0, 0).Add(-time.Millisecond), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

func (s *translation) bind(value any) string {
	name := s.nextName()
	s.params[name] = value
	return name
}

func (s *translation) nextName() string {
	name := fmt.Sprintf("p_%d", s.counter)
	s.counter++
	return name
}

func wrapLike(value any) string {
	return "%" + fmt.Sprintf("%v", value) + "%"
}

func asTime(value any) (time.Time, bool) {
	switch typed := value.(type) {
	case time.Time:
		return typed, true
	case *time.Time:
		if typed == nil {
			return time.Time{}, false
		}
		return *typed, true
	case string:
		date, err := timeutil.ParseDate(typed)
		if err != nil {
			return time.Time{}, false
		}
		return date, true
	default:
		return time.Time{}, false
	}
}

func asTimePair(value any) ([2]time.Time, bool) {
	switch typed := value.(type) {
	case [2]time.Time:
		return typed, true
	case []time.Time:
		if len(typed) != 2 {
			return [2]time.Time{}, false
		}
		return [2]time.Time{typed[0], typed[1]}, true
	case []any:
		if len(typed) != 2 {
			return [2]time.Time{}, false
		}
		from, okFrom := asTime(typed[0])
		to, okTo := asTime(typed[1])
		if !okFrom || !okTo {
			return [2]time.Time{}, false
		}
		return [2]time.Time{from, to}, true
	case string:
		parts := strings.Split(typed, ",")
		if len(parts) != 2 {
			return [2]time.Time{}, false
		}
		from, errFrom := timeutil.ParseDate(parts[0])
		to, errTo := timeutil.ParseDate(parts[1])
		if errFrom != nil || errTo != nil {
			return [2]time.Time{}, false
		}
		return [2]time.Time{from, to}, true
	default:
		return [2]time.Time{}, false
	}
}

func asList(value any) []any {
	switch typed := value.(type) {
	case []any:
		return typed
	case []string:
		items := make([]any, len(typed))
		for i, item := range typed {
			items[i] = item
		}
		return items
	case string:
		parts := strings.Split(typed, ",")
		items := make([]any, 0, len(parts))
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			items = append(items, filter.CoerceScalar(part))
		}
		return items
	default:
		return nil
	}
}
