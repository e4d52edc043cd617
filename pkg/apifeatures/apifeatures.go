// Package apifeatures turns list request parameters into database query parts.
//
// A request like
//
//	GET /api/post?likesCount[gte]=5&sort=-likesCount,createdAt&fields=text&page=2&limit=10
//
// is parsed once into filter conditions, sort keys, a projection and a page
// window, which are then applied to a mongo find or a gorm query.
package apifeatures

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/anonto42/chirp/backend/pkg/apperror"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
)

var reservedParams = map[string]bool{
	"page":   true,
	"sort":   true,
	"limit":  true,
	"fields": true,
}

// Kind is the stored type a query value is cast to.
type Kind int

const (
	String Kind = iota
	Int
	Bool
	ObjectID
	Time
)

// Field describes a queryable field. Column is the stored name.
type Field struct {
	Column string
	Kind   Kind
}

// Schema maps public field names to their storage description.
type Schema map[string]Field

// Operator is a filter comparison.
type Operator string

const (
	Eq  Operator = "eq"
	Gt  Operator = "gt"
	Gte Operator = "gte"
	Lt  Operator = "lt"
	Lte Operator = "lte"
)

// Condition is one parsed filter term.
type Condition struct {
	Column   string
	Operator Operator
	Value    interface{}
}

// SortKey is one parsed sort term.
type SortKey struct {
	Column     string
	Descending bool
}

// APIFeatures holds the parsed query. Steps are applied in call order and the
// first failure short-circuits the rest.
type APIFeatures struct {
	params url.Values
	schema Schema

	conditions []Condition
	sortKeys   []SortKey
	include    []string
	exclude    []string
	page       int64
	limit      int64

	err error
}

// New wraps the request parameters for the given schema.
func New(params url.Values, schema Schema) *APIFeatures {
	return &APIFeatures{
		params: params,
		schema: schema,
		page:   DefaultPage,
		limit:  DefaultLimit,
	}
}

// Err returns the first error raised by any step.
func (f *APIFeatures) Err() error {
	return f.err
}

// Filter turns every non-reserved parameter into a condition. Parameters that
// are not part of the schema are ignored. Conditions come out in key order.
func (f *APIFeatures) Filter() *APIFeatures {
	if f.err != nil {
		return f
	}
	keys := make([]string, 0, len(f.params))
	for key := range f.params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		values := f.params[key]
		if len(values) == 0 {
			continue
		}
		name, op := splitOperator(key)
		if reservedParams[name] {
			continue
		}
		field, ok := f.schema[name]
		if !ok {
			continue
		}
		value, err := cast(name, values[0], field.Kind)
		if err != nil {
			f.err = err
			return f
		}
		f.conditions = append(f.conditions, Condition{Column: field.Column, Operator: op, Value: value})
	}
	return f
}

// Sort reads a comma separated sort list. A leading "-" sorts descending.
func (f *APIFeatures) Sort() *APIFeatures {
	if f.err != nil {
		return f
	}
	raw := f.params.Get("sort")
	if raw == "" {
		createdAt := "createdAt"
		if field, ok := f.schema["createdAt"]; ok {
			createdAt = field.Column
		}
		f.sortKeys = []SortKey{
			{Column: createdAt, Descending: true},
			{Column: "_id"},
		}
		return f
	}
	for _, part := range splitList(raw) {
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")
		column, err := f.column(name)
		if err != nil {
			f.err = err
			return f
		}
		f.sortKeys = append(f.sortKeys, SortKey{Column: column, Descending: desc})
	}
	return f
}

// LimitFields reads the comma separated projection list. A leading "-"
// excludes the field; inclusion and exclusion can't be mixed.
func (f *APIFeatures) LimitFields() *APIFeatures {
	if f.err != nil {
		return f
	}
	raw := f.params.Get("fields")
	if raw == "" {
		return f
	}
	for _, part := range splitList(raw) {
		exclude := strings.HasPrefix(part, "-")
		column, err := f.column(strings.TrimPrefix(part, "-"))
		if err != nil {
			f.err = err
			return f
		}
		if exclude {
			f.exclude = append(f.exclude, column)
		} else {
			f.include = append(f.include, column)
		}
	}
	if len(f.include) > 0 && len(f.exclude) > 0 {
		f.err = apperror.New("Cannot mix field inclusion and exclusion", http.StatusBadRequest)
	}
	return f
}

// Paginate reads page and limit.
func (f *APIFeatures) Paginate() *APIFeatures {
	if f.err != nil {
		return f
	}
	page, err := parsePositive("page", f.params.Get("page"), DefaultPage)
	if err != nil {
		f.err = err
		return f
	}
	limit, err := parsePositive("limit", f.params.Get("limit"), DefaultLimit)
	if err != nil {
		f.err = err
		return f
	}
	if page-1 > math.MaxInt64/limit {
		f.err = apperror.NewCastError("page", f.params.Get("page"), errors.New("page out of range"))
		return f
	}
	f.page, f.limit = page, limit
	return f
}

func (f *APIFeatures) Conditions() []Condition { return f.conditions }
func (f *APIFeatures) SortKeys() []SortKey     { return f.sortKeys }
func (f *APIFeatures) Page() int64             { return f.page }
func (f *APIFeatures) Limit() int64            { return f.limit }
func (f *APIFeatures) Skip() int64             { return (f.page - 1) * f.limit }

func (f *APIFeatures) column(name string) (string, error) {
	if name == "_id" || name == "id" {
		if field, ok := f.schema[name]; ok {
			return field.Column, nil
		}
		return "_id", nil
	}
	field, ok := f.schema[name]
	if !ok {
		return "", apperror.New(fmt.Sprintf("Unknown field: %s", name), http.StatusBadRequest)
	}
	return field.Column, nil
}

// splitOperator parses "likesCount[gte]" into ("likesCount", Gte).
func splitOperator(key string) (string, Operator) {
	open := strings.IndexByte(key, '[')
	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, Eq
	}
	name, op := key[:open], Operator(key[open+1:len(key)-1])
	switch op {
	case Gt, Gte, Lt, Lte:
		return name, op
	default:
		return name, Eq
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parsePositive(name, raw string, fallback int64) (int64, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.NewCastError(name, raw, err)
	}
	if n < 1 {
		return fallback, nil
	}
	return n, nil
}

func cast(path, raw string, kind Kind) (interface{}, error) {
	switch kind {
	case Int:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, apperror.NewCastError(path, raw, err)
		}
		return n, nil
	case Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, apperror.NewCastError(path, raw, err)
		}
		return b, nil
	case ObjectID:
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, apperror.NewCastError(path, raw, err)
		}
		return id, nil
	case Time:
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			return ts, nil
		}
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, apperror.NewCastError(path, raw, err)
		}
		return time.UnixMilli(ms).UTC(), nil
	default:
		return raw, nil
	}
}
