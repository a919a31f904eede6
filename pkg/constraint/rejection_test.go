package constraint_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rulekit/pkg/constraint"
)

func TestCollector(t *testing.T) {
	t.Run("empty collector converts to nil", func(t *testing.T) {
		c := constraint.NewCollector()
		assert.False(t, c.HasErrors())
		assert.Nil(t, c.ValidationErrors(nil))
	})

	t.Run("converts with fallback messages", func(t *testing.T) {
		c := constraint.NewCollector()
		c.Reject(constraint.Rejection{
			Rule:           "required",
			Property:       "email",
			Owner:          "user",
			Value:          "",
			MessageCode:    "default.invalid.required.message",
			FailureCode:    "invalid.required",
			DefaultMessage: "is required",
			Args:           []any{"email", "user", "", nil},
		})
		c.Reject(constraint.Rejection{Rule: "email", Property: "email", FailureCode: "invalid.email"})

		verrs := c.ValidationErrors(nil)
		require.Len(t, verrs, 2)
		assert.Equal(t, "is required", verrs[0].Message)
		assert.Equal(t, "default.invalid.required.message", verrs[0].TranslationKey)
		assert.Equal(t, "user", verrs[0].TranslationValues["owner"])
		assert.Contains(t, verrs[0].TranslationValues, "param")
		assert.Equal(t, "invalid.email", verrs[1].Message)
		assert.Equal(t, []string{"email"}, verrs.Fields())
		assert.Equal(t, []string{"is required", "invalid.email"}, verrs.Get("email"))
	})

	t.Run("renderer overrides message", func(t *testing.T) {
		c := constraint.NewCollector()
		c.Reject(constraint.Rejection{Property: "name", DefaultMessage: "raw"})

		verrs := c.ValidationErrors(constraint.RendererFunc(func(r constraint.Rejection) string {
			return "rendered " + r.Property
		}))
		assert.Equal(t, "rendered name", verrs[0].Message)
	})

	t.Run("concurrent rejects", func(t *testing.T) {
		c := constraint.NewCollector()
		var wg sync.WaitGroup
		for i := range 100 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Reject(constraint.Rejection{Property: fmt.Sprint(i)})
			}()
		}
		wg.Wait()
		assert.Equal(t, 100, c.Len())
	})
}

func TestValidationErrors(t *testing.T) {
	t.Run("error text", func(t *testing.T) {
		var empty constraint.ValidationErrors
		assert.Equal(t, "validation failed", empty.Error())

		verrs := constraint.ValidationErrors{
			{Field: "email", Message: "is required"},
			{Field: "password", Message: "too short"},
		}
		assert.Equal(t, "validation failed: email: is required; password: too short", verrs.Error())
		assert.True(t, verrs.Has("password"))
		assert.False(t, verrs.Has("name"))
	})

	t.Run("extract through wrapping", func(t *testing.T) {
		verrs := constraint.ValidationErrors{{Field: "email", Message: "bad"}}
		wrapped := fmt.Errorf("saving user: %w", verrs)

		assert.True(t, constraint.IsValidationError(wrapped))
		assert.Equal(t, verrs, constraint.ExtractValidationErrors(wrapped))
		assert.False(t, constraint.IsValidationError(errors.New("other")))
		assert.Nil(t, constraint.ExtractValidationErrors(nil))
	})
}
