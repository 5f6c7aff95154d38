package filter

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"storefront/internal/util/timeutil"
)

// Parser converts query-string key/value pairs into a filter tree,
// sort options and pagination. Two surface grammars are supported:
// the structured filter[field][operator]=value form (with nestable
// filter[or|and][index][...] groups) and the legacy flattened
// field@OPERATOR=value form, used only when no structured key exists.
//
// The parser is lenient: leaves with unknown operators or values it
// cannot coerce are dropped, never partially applied.
type Parser struct {
	maxLimit int
}

// NewParser creates a parser. maxLimit clamps the page size when
// positive; zero disables clamping.
func NewParser(maxLimit int) *Parser {
	return &Parser{maxLimit: maxLimit}
}

var reservedKeys = map[string]bool{
	"page":          true,
	"limit":         true,
	"sortBy":        true,
	"sortDirection": true,
	"filter":        true,
	"sort":          true,
}

// Parse extracts the filter tree, sort options and pagination from
// the given query values. Filter and sorts are nil when absent.
func (p *Parser) Parse(values url.Values) (*Node, []SortOption, Pagination) {
	tree := buildKeyTree(values)

	var node *Node
	if filterRoot, ok := tree.children["filter"]; ok {
		node = p.parseStructured(filterRoot)
	} else {
		node = p.parseLegacy(values)
	}

	return node, p.parseSort(values), p.parsePagination(values)
}

// keyNode is the generic tree a bracketed query key expands into:
// filter[or][0][price][gte]=100 becomes a path of four child levels
// below "filter" with the raw value stored at the last node.
type keyNode struct {
	children map[string]*keyNode
	values   []string
}

func newKeyNode() *keyNode {
	return &keyNode{children: map[string]*keyNode{}}
}

func buildKeyTree(values url.Values) *keyNode {
	root := newKeyNode()

	for key, keyValues := range values {
		segments := splitKey(key)
		if len(segments) == 0 {
			continue
		}

		node := root
		for _, segment := range segments {
			child, ok := node.children[segment]
			if !ok {
				child = newKeyNode()
				node.children[segment] = child
			}
			node = child
		}
		node.values = append(node.values, keyValues...)
	}

	return root
}

// splitKey decomposes "filter[or][0][price][gte]" into its segments.
// A key without brackets is a single segment.
func splitKey(key string) []string {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return []string{key}
	}

	segments := []string{key[:open]}
	rest := key[open:]

	for rest != "" {
		if rest[0] != '[' {
			return []string{key} // malformed, treat as opaque
		}
		close := strings.IndexByte(rest, ']')
		if close < 0 {
			return []string{key}
		}
		segments = append(segments, rest[1:close])
		rest = rest[close+1:]
	}

	return segments
}

func (p *Parser) parseStructured(root *keyNode) *Node {
	return p.parseNode(root)
}

func (p *Parser) parseNode(node *keyNode) *Node {
	var children []Node

	for _, key := range sortedChildKeys(node) {
		child := node.children[key]

		switch strings.ToLower(key) {
		case "and":
			if group := p.parseIndexedGroup(child, LogicalOperatorAnd); group != nil {
				children = append(children, *group)
			}
		case "or":
			if group := p.parseIndexedGroup(child, LogicalOperatorOr); group != nil {
				children = append(children, *group)
			}
		default:
			children = append(children, p.parseFieldLeaves(key, child)...)
		}
	}

	switch len(children) {
	case 0:
		return nil
	case 1:
		return &children[0]
	default:
		group := GroupNode(LogicalOperatorAnd, children...)
		return &group
	}
}

// parseIndexedGroup handles filter[or][0]...[n] style children where
// each index holds a sub-filter, itself possibly logical.
func (p *Parser) parseIndexedGroup(node *keyNode, operator LogicalOperator) *Node {
	var children []Node

	for _, key := range sortedChildKeys(node) {
		if sub := p.parseNode(node.children[key]); sub != nil {
			children = append(children, *sub)
		}
	}

	if len(children) == 0 {
		return nil
	}

	group := GroupNode(operator, children...)
	return &group
}

func (p *Parser) parseFieldLeaves(field string, node *keyNode) []Node {
	if !IsValidFieldName(field) {
		return nil
	}

	var leaves []Node

	// filter[field]=value without an operator key is an equality test
	for _, raw := range node.values {
		leaves = append(leaves, ConditionNode(field, OperatorEquals, CoerceScalar(raw)))
	}

	for _, operatorKey := range sortedChildKeys(node) {
		operator, ok := ParseOperator(operatorKey)
		if !ok {
			continue // unrecognized operator tokens are dropped
		}

		child := node.children[operatorKey]
		if !RequiresValue(operator) {
			leaves = append(leaves, ConditionNode(field, operator, nil))
			continue
		}

		for _, raw := range child.values {
			value, ok := coerceValue(operator, raw)
			if !ok {
				continue
			}
			leaves = append(leaves, ConditionNode(field, operator, value))
		}
	}

	return leaves
}

func (p *Parser) parseLegacy(values url.Values) *Node {
	var leaves []Node

	for _, key := range sortedValueKeys(values) {
		if reservedKeys[key] || strings.ContainsAny(key, "[]") {
			continue
		}

		raw := values.Get(key)

		field := key
		operator := OperatorEquals

		if at := strings.IndexByte(key, '@'); at >= 0 {
			field = key[:at]
			parsed, ok := ParseOperator(key[at+1:])
			if !ok {
				continue
			}
			operator = parsed
		}

		if !IsValidFieldName(field) {
			continue
		}

		if !RequiresValue(operator) {
			leaves = append(leaves, ConditionNode(field, operator, nil))
			continue
		}

		value, ok := coerceValue(operator, raw)
		if !ok {
			continue
		}

		leaves = append(leaves, ConditionNode(field, operator, value))
	}

	switch len(leaves) {
	case 0:
		return nil
	case 1:
		return &leaves[0]
	default:
		group := GroupNode(LogicalOperatorAnd, leaves...)
		return &group
	}
}

// coerceValue converts the raw string per the operator's rule. A false
// result means the leaf must be dropped, never partially applied.
func coerceValue(operator ComparisonOperator, raw string) (any, bool) {
	switch operator {
	case OperatorEquals, OperatorNotEquals,
		OperatorGreaterThan, OperatorGreaterOrEqual,
		OperatorLessThan, OperatorLessOrEqual:
		return CoerceScalar(raw), true

	case OperatorLike, OperatorILike:
		if raw == "" {
			return nil, false
		}
		return raw, true

	case OperatorIn, OperatorNotIn:
		parts := strings.Split(raw, ",")
		items := make([]any, 0, len(parts))
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			items = append(items, CoerceScalar(part))
		}
		if len(items) == 0 {
			return nil, false
		}
		return items, true

	case OperatorDateEquals, OperatorDateNotEquals,
		OperatorDateBefore, OperatorDateAfter:
		date, err := timeutil.ParseDate(raw)
		if err != nil {
			return nil, false
		}
		return date, true

	case OperatorDateBetween, OperatorDateNotBetween:
		parts := strings.Split(raw, ",")
		if len(parts) != 2 {
			return nil, false
		}
		from, err := timeutil.ParseDate(parts[0])
		if err != nil {
			return nil, false
		}
		to, err := timeutil.ParseDate(parts[1])
		if err != nil {
			return nil, false
		}
		return []any{from, to}, true

	default:
		return nil, false
	}
}

func (p *Parser) parseSort(values url.Values) []SortOption {
	if raw := values.Get("sort"); raw != "" {
		var sorts []SortOption

		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}

			field := part
			direction := SortAscending

			if colon := strings.IndexByte(part, ':'); colon >= 0 {
				field = part[:colon]
				direction = parseSortDirection(part[colon+1:])
			}

			if !IsValidFieldName(field) {
				continue
			}

			sorts = append(sorts, SortOption{Field: field, Direction: direction})
		}

		return sorts
	}

	if field := values.Get("sortBy"); field != "" && IsValidFieldName(field) {
		return []SortOption{{
			Field:     field,
			Direction: parseSortDirection(values.Get("sortDirection")),
		}}
	}

	return nil
}

// parseSortDirection defaults unknown tokens to ascending.
func parseSortDirection(token string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(token), "desc") {
		return SortDescending
	}
	return SortAscending
}

func (p *Parser) parsePagination(values url.Values) Pagination {
	pagination := DefaultPagination()

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page >= 1 {
		pagination.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit >= 1 {
		pagination.Limit = limit
	}

	if p.maxLimit > 0 && pagination.Limit > p.maxLimit {
		pagination.Limit = p.maxLimit
	}

	return pagination
}

// sortedChildKeys orders sibling keys deterministically, with numeric
// group indices compared as numbers so [2] sorts before [10].
func sortedChildKeys(node *keyNode) []string {
	keys := make([]string, 0, len(node.children))
	for key := range node.children {
		keys = append(keys, key)
	}
	sortNumericAware(keys)
	return keys
}

func sortedValueKeys(values url.Values) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sortNumericAware(keys)
	return keys
}

func sortNumericAware(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
}
