package builtin

import (
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/rulekit/pkg/constraint"
	"github.com/dmitrymomot/rulekit/pkg/fields"
	"github.com/dmitrymomot/rulekit/pkg/store"
)

func handle(s *constraint.Scope) (*store.Handle, error) {
	h, err := s.Store()
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, fmt.Errorf("%w: rule %q on %s.%s", ErrNoSession, s.Rule(), s.Owner(), s.Property())
	}
	return h, nil
}

// excluded returns the target's own identifier so updates do not collide
// with the row being updated. Zero identifiers mean a new record.
func excluded(target any, column string) any {
	if column == "" {
		return nil
	}
	id, ok := fields.Lookup(target, column)
	if !ok {
		return nil
	}
	id = deref(id)
	if id == nil || reflect.ValueOf(id).IsZero() {
		return nil
	}
	return id
}

func scalar(v any) bool {
	if _, raw := v.([]byte); raw {
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return false
	}
	return true
}

func option(opts map[string]string, key, fallback string) string {
	if v := opts[key]; v != "" {
		return v
	}
	return fallback
}

// Unique rejects values already stored in another SQL row. Param is a
// table name or a map with keys table, column (default: the property) and
// exclude (default: id).
func Unique() constraint.Definition {
	return constraint.Definition{
		Name:           "unique",
		Persistent:     true,
		DefaultMessage: "Property [{0}] of class [{1}] with value [{2}] must be unique",
		ValidateParam: func(param any, _, _ string) error {
			opts, err := toOptions(param, "table")
			if err != nil {
				return err
			}
			if opts["table"] == "" {
				return fmt.Errorf("%w: unique needs a table", ErrInvalidParam)
			}
			return nil
		},
		Validate: constraint.Func2(func(s *constraint.Scope, value, target any) (bool, error) {
			value = deref(value)
			if isEmpty(value) {
				return true, nil
			}
			if !scalar(value) {
				return false, fmt.Errorf("%w: unique compares single values, got %T", ErrUnsupportedValue, value)
			}
			opts, err := toOptions(s.Param(), "table")
			if err != nil {
				return false, err
			}
			h, err := handle(s)
			if err != nil {
				return false, err
			}

			exclude := option(opts, "exclude", "id")
			found, err := h.Exists(s.Context(), store.Lookup{
				Table:         opts["table"],
				Column:        option(opts, "column", s.Property()),
				Value:         value,
				ExcludeColumn: exclude,
				ExcludeValue:  excluded(target, exclude),
			})
			if err != nil {
				return false, err
			}
			return !found, nil
		}),
	}
}

// UniqueDocument rejects values already stored in another document. Param
// is a collection name or a map with keys collection, field (default: the
// property), exclude (default: _id) and key, the target property holding
// the excluded identifier (default: id).
func UniqueDocument() constraint.Definition {
	return constraint.Definition{
		Name:           "uniqueDocument",
		Persistent:     true,
		DefaultMessage: "Property [{0}] of class [{1}] with value [{2}] must be unique",
		ValidateParam: func(param any, _, _ string) error {
			opts, err := toOptions(param, "collection")
			if err != nil {
				return err
			}
			if opts["collection"] == "" {
				return fmt.Errorf("%w: uniqueDocument needs a collection", ErrInvalidParam)
			}
			return nil
		},
		Validate: constraint.Func2(func(s *constraint.Scope, value, target any) (bool, error) {
			value = deref(value)
			if isEmpty(value) {
				return true, nil
			}
			opts, err := toOptions(s.Param(), "collection")
			if err != nil {
				return false, err
			}
			h, err := handle(s)
			if err != nil {
				return false, err
			}

			filter := bson.M{option(opts, "field", s.Property()): value}
			if id := excluded(target, option(opts, "key", "id")); id != nil {
				filter[option(opts, "exclude", "_id")] = bson.M{"$ne": id}
			}
			n, err := h.CountDocuments(s.Context(), opts["collection"], filter)
			if err != nil {
				return false, err
			}
			return n == 0, nil
		}),
	}
}

// NotBlocked rejects values that are members of the redis set named in param.
func NotBlocked() constraint.Definition {
	return constraint.Definition{
		Name:           "notBlocked",
		Persistent:     true,
		DefaultMessage: "Property [{0}] of class [{1}] with value [{2}] is blocked",
		ValidateParam: func(param any, _, _ string) error {
			if key, ok := param.(string); !ok || key == "" {
				return fmt.Errorf("%w: notBlocked needs a set key", ErrInvalidParam)
			}
			return nil
		},
		Validate: constraint.Func1(func(s *constraint.Scope, value any) (bool, error) {
			value = deref(value)
			if isEmpty(value) {
				return true, nil
			}
			h, err := handle(s)
			if err != nil {
				return false, err
			}
			key, _ := s.Param().(string)
			member, err := h.IsMember(s.Context(), key, fmt.Sprint(value))
			if err != nil {
				return false, err
			}
			return !member, nil
		}),
	}
}
