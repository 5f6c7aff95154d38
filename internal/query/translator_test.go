package query

import (
	"strings"
	"testing"
	"time"

	"storefront/internal/filter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	// Thursday, mid-month, mid-year
	return time.Date(2023, 6, 15, 13, 45, 0, 0, time.UTC)
}

func Test_Translate_NilNode_ReturnsNoCondition(t *testing.T) {
	translator := NewTranslator()

	condition, params := translator.Translate(nil)

	assert.Empty(t, condition)
	assert.Empty(t, params)
}

func Test_Translate_EqualityLeaf_RendersParameterizedFragment(t *testing.T) {
	translator := NewTranslator()
	node := filter.ConditionNode("name", filter.OperatorEquals, "Laptop")

	condition, params := translator.Translate(&node)

	assert.Equal(t, "name = @p_0", condition)
	assert.Equal(t, map[string]any{"p_0": "Laptop"}, params)
}

func Test_Translate_NumericStringValue_CoercedToNumber(t *testing.T) {
	translator := NewTranslator()
	node := filter.ConditionNode("price", filter.OperatorGreaterThan, "100")

	_, params := translator.Translate(&node)

	assert.Equal(t, int64(100), params["p_0"])
}

func Test_Translate_BooleanStringValue_CoercedToBool(t *testing.T) {
	translator := NewTranslator()
	node := filter.ConditionNode("active", filter.OperatorEquals, "true")

	_, params := translator.Translate(&node)

	assert.Equal(t, true, params["p_0"])
}

func Test_Translate_PriceRangeAnd_RendersBothBounds(t *testing.T) {
	// price >= 1000 AND price <= 5000 keeps 1500 and 5000, drops 500 and 6000
	translator := NewTranslator()
	node := filter.GroupNode(filter.LogicalOperatorAnd,
		filter.ConditionNode("price", filter.OperatorGreaterOrEqual, 1000),
		filter.ConditionNode("price", filter.OperatorLessOrEqual, 5000),
	)

	condition, params := translator.Translate(&node)

	assert.Equal(t, "(price >= @p_0 AND price <= @p_1)", condition)
	assert.Equal(t, 1000, params["p_0"])
	assert.Equal(t, 5000, params["p_1"])
}

func Test_Translate_RepeatedFieldOperator_NeverReusesParameterNames(t *testing.T) {
	translator := NewTranslator()
	node := filter.GroupNode(filter.LogicalOperatorOr,
		filter.ConditionNode("status", filter.OperatorEquals, "active"),
		filter.ConditionNode("status", filter.OperatorEquals, "pending"),
		filter.ConditionNode("status", filter.OperatorEquals, "archived"),
	)

	condition, params := translator.Translate(&node)

	assert.Len(t, params, 3)
	assert.Contains(t, condition, "@p_0")
	assert.Contains(t, condition, "@p_1")
	assert.Contains(t, condition, "@p_2")
}

func Test_Translate_OneBoundParameterPerValueCarryingLeaf(t *testing.T) {
	translator := NewTranslator()
	node := filter.GroupNode(filter.LogicalOperatorAnd,
		filter.ConditionNode("a", filter.OperatorEquals, 1),
		filter.ConditionNode("b", filter.OperatorLessThan, 2),
		filter.ConditionNode("c", filter.OperatorIsNull, nil),
		filter.ConditionNode("d", filter.OperatorLike, "x"),
	)

	_, params := translator.Translate(&node)

	// is_null binds nothing; the other three leaves bind one each
	assert.Len(t, params, 3)
}

func Test_Translate_AndOfOrVersusOrOfAnd_DifferentBracketStructure(t *testing.T) {
	translator := NewTranslator()

	a := filter.ConditionNode("price", filter.OperatorGreaterOrEqual, 100)
	b := filter.ConditionNode("stock", filter.OperatorEquals, 0)
	c := filter.ConditionNode("active", filter.OperatorEquals, true)

	andOfOr := filter.GroupNode(filter.LogicalOperatorAnd,
		filter.GroupNode(filter.LogicalOperatorOr, a, b), c)
	orOfAnd := filter.GroupNode(filter.LogicalOperatorOr,
		filter.GroupNode(filter.LogicalOperatorAnd, a, b), c)

	first, _ := translator.Translate(&andOfOr)
	second, _ := translator.Translate(&orOfAnd)

	assert.Equal(t, "((price >= @p_0 OR stock = @p_1) AND active = @p_2)", first)
	assert.Equal(t, "((price >= @p_0 AND stock = @p_1) OR active = @p_2)", second)
	assert.NotEqual(t, first, second)
}

func Test_Translate_DeeplyNestedGroups_BracketPerLevel(t *testing.T) {
	translator := NewTranslator()
	node := filter.GroupNode(filter.LogicalOperatorOr,
		filter.GroupNode(filter.LogicalOperatorAnd,
			filter.ConditionNode("a", filter.OperatorEquals, 1),
			filter.GroupNode(filter.LogicalOperatorOr,
				filter.ConditionNode("b", filter.OperatorEquals, 2),
				filter.ConditionNode("c", filter.OperatorEquals, 3),
			),
		),
		filter.ConditionNode("d", filter.OperatorEquals, 4),
	)

	condition, _ := translator.Translate(&node)

	assert.Equal(t, "((a = @p_0 AND (b = @p_1 OR c = @p_2)) OR d = @p_3)", condition)
}

func Test_Translate_Like_WrapsValueInPercents(t *testing.T) {
	translator := NewTranslator()
	node := filter.ConditionNode("name", filter.OperatorLike, "phone")

	condition, params := translator.Translate(&node)

	assert.Equal(t, "name LIKE @p_0", condition)
	assert.Equal(t, "%phone%", params["p_0"])
}

func Test_Translate_ILike_MatchesCaseInsensitively(t *testing.T) {
	// name@ilike=phone must match "iPhone 15" and "Phone Case", not "Laptop"
	translator := NewTranslator()
	node := filter.ConditionNode("name", filter.OperatorILike, "phone")

	condition, params := translator.Translate(&node)

	assert.Equal(t, "UPPER(name) LIKE UPPER(@p_0)", condition)
	assert.Equal(t, "%phone%", params["p_0"])
}

func Test_Translate_InWithCommaSeparatedString_BindsList(t *testing.T) {
	translator := NewTranslator()
	node := filter.ConditionNode("status", filter.OperatorIn, "active,pending")

	condition, params := translator.Translate(&node)

	assert.Equal(t, "status IN @p_0", condition)
	assert.Equal(t, []any{"active", "pending"}, params["p_0"])
}

func Test_Translate_NotIn_RendersNotInFragment(t *testing.T) {
	translator := NewTranslator()
	node := filter.ConditionNode("status", filter.OperatorNotIn, []any{"archived"})

	condition, _ := translator.Translate(&node)

	assert.Equal(t, "status NOT IN @p_0", condition)
}

func Test_Translate_IsNullAndIsNotNull_NoBoundValues(t *testing.T) {
	translator := NewTranslator()
	node := filter.GroupNode(filter.LogicalOperatorAnd,
		filter.ConditionNode("deleted_at", filter.OperatorIsNull, nil),
		filter.ConditionNode("name", filter.OperatorIsNotNull, nil),
	)

	condition, params := translator.Translate(&node)

	assert.Equal(t, "(deleted_at IS NULL AND name IS NOT NULL)", condition)
	assert.Empty(t, params)
}

func Test_Translate_DateEquals_ExpandsToCalendarDayBounds(t *testing.T) {
	translator := NewTranslator()
	node := filter.ConditionNode("created_at", filter.OperatorDateEquals,
		time.Date(2023, 1, 15, 10, 30, 0, 0, time.UTC))

	condition, params := translator.Translate(&node)

	assert.Equal(t, "created_at BETWEEN @p_0_start AND @p_0_end", condition)
	assert.Equal(t, time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), params["p_0_start"])
	assert.Equal(t,
		time.Date(2023, 1, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		params["p_0_end"])
}

func Test_Translate_DateNotEquals_RendersNotBetween(t *testing.T) {
	translator := NewTranslator()
	node := filter.ConditionNode("created_at", filter.OperatorDateNotEquals, "2023-01-15")

	condition, _ := translator.Translate(&node)

	assert.Equal(t, "created_at NOT BETWEEN @p_0_start AND @p_0_end", condition)
}

func Test_Translate_DateBetween_BindsBothBounds(t *testing.T) {
	// 2023-01-01..2023-01-31 keeps 2023-01-15, drops 2022-12-31 and 2023-02-01
	translator := NewTranslator()
	node := filter.ConditionNode("created_at", filter.OperatorDateBetween,
		"2023-01-01,2023-01-31")

	condition, params := translator.Translate(&node)

	assert.Equal(t, "created_at BETWEEN @p_0_start AND @p_0_end", condition)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), params["p_0_start"])
	assert.Equal(t, time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC), params["p_0_end"])
}

func Test_Translate_DateBeforeAndAfter_RenderComparisons(t *testing.T) {
	translator := NewTranslator()
	node := filter.GroupNode(filter.LogicalOperatorAnd,
		filter.ConditionNode("created_at", filter.OperatorDateAfter, "2023-01-01"),
		filter.ConditionNode("created_at", filter.OperatorDateBefore, "2023-02-01"),
	)

	condition, params := translator.Translate(&node)

	assert.Equal(t, "(created_at > @p_0 AND created_at < @p_1)", condition)
	assert.Len(t, params, 2)
}

func Test_Translate_DateToday_UsesEvaluationClock(t *testing.T) {
	translator := NewTranslatorAt(fixedClock)
	node := filter.ConditionNode("created_at", filter.OperatorDateToday, nil)

	condition, params := translator.Translate(&node)

	assert.Equal(t, "created_at BETWEEN @p_0_start AND @p_0_end", condition)
	assert.Equal(t, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), params["p_0_start"])
	assert.Equal(t,
		time.Date(2023, 6, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		params["p_0_end"])
}

func Test_Translate_DateLastWeek_CoversPreviousMondayBasedWeek(t *testing.T) {
	translator := NewTranslatorAt(fixedClock)
	node := filter.ConditionNode("created_at", filter.OperatorDateLastWeek, nil)

	_, params := translator.Translate(&node)

	// week containing 2023-06-15 starts Monday 2023-06-12
	assert.Equal(t, time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC), params["p_0_start"])
	assert.Equal(t,
		time.Date(2023, 6, 11, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		params["p_0_end"])
}

func Test_Translate_DateLastMonth_CoversFullPreviousMonth(t *testing.T) {
	translator := NewTranslatorAt(fixedClock)
	node := filter.ConditionNode("created_at", filter.OperatorDateLastMonth, nil)

	_, params := translator.Translate(&node)

	assert.Equal(t, time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), params["p_0_start"])
	assert.Equal(t,
		time.Date(2023, 5, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		params["p_0_end"])
}

func Test_Translate_DateThisYear_CoversWholeYear(t *testing.T) {
	translator := NewTranslatorAt(fixedClock)
	node := filter.ConditionNode("created_at", filter.OperatorDateThisYear, nil)

	_, params := translator.Translate(&node)

	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), params["p_0_start"])
	assert.Equal(t,
		time.Date(2023, 12, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		params["p_0_end"])
}

func Test_Translate_UnknownOperator_ProducesNoCondition(t *testing.T) {
	translator := NewTranslator()
	node := filter.ConditionNode("price", "definitely_not_an_operator", 100)

	condition, params := translator.Translate(&node)

	assert.Empty(t, condition)
	assert.Empty(t, params)
}

func Test_Translate_UnknownOperatorInsideGroup_SiblingsSurvive(t *testing.T) {
	translator := NewTranslator()
	node := filter.GroupNode(filter.LogicalOperatorAnd,
		filter.ConditionNode("price", "bogus", 100),
		filter.ConditionNode("name", filter.OperatorEquals, "x"),
	)

	condition, params := translator.Translate(&node)

	assert.Equal(t, "(name = @p_0)", condition)
	assert.Len(t, params, 1)
}

func Test_Translate_InvalidFieldName_ProducesNoCondition(t *testing.T) {
	translator := NewTranslator()
	node := filter.ConditionNode("price; DROP TABLE products", filter.OperatorEquals, 1)

	condition, params := translator.Translate(&node)

	assert.Empty(t, condition)
	assert.Empty(t, params)
}

func Test_Translate_ParsedTreeEndToEnd_BindsOneParamPerLeaf(t *testing.T) {
	translator := NewTranslator()
	node := filter.GroupNode(filter.LogicalOperatorOr,
		filter.GroupNode(filter.LogicalOperatorAnd,
			filter.ConditionNode("price", filter.OperatorGreaterOrEqual, 100),
			filter.ConditionNode("price", filter.OperatorLessOrEqual, 200),
		),
		filter.ConditionNode("stock", filter.OperatorEquals, 0),
	)

	condition, params := translator.Translate(&node)

	require.NotEmpty(t, condition)
	assert.Len(t, params, 3)
	for name := range params {
		assert.Equal(t, 1, strings.Count(condition, "@"+name))
	}
}
