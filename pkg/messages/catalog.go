package messages

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/rulekit/pkg/constraint"
)

// Fallback is rendered when no code resolves and the rejection has no default message.
const Fallback = "Property [{0}] of [{1}] with value [{2}] is invalid"

var (
	_ constraint.MessageSource = (*Catalog)(nil)
	_ constraint.Renderer      = (*Catalog)(nil)
)

// Catalog maps message codes to templates. It is safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	messages map[string]string
}

// New returns a catalog seeded with messages.
func New(messages map[string]string) *Catalog {
	c := &Catalog{messages: make(map[string]string, len(messages))}
	maps.Copy(c.messages, messages)
	return c
}

// Load reads a YAML catalog from r.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}
	return Parse(data)
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	return Parse(data)
}

// Parse decodes YAML catalog content.
func Parse(data []byte) (*Catalog, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}

	flat := make(map[string]string)
	if err := flatten("", raw, flat); err != nil {
		return nil, err
	}
	return &Catalog{messages: flat}, nil
}

func flatten(prefix string, in map[string]any, out map[string]string) error {
	for key, val := range in {
		if prefix != "" {
			key = prefix + "." + key
		}
		switch v := val.(type) {
		case string:
			out[key] = v
		case map[string]any:
			if err := flatten(key, v, out); err != nil {
				return err
			}
		case int, int64, float64, bool:
			out[key] = fmt.Sprint(v)
		default:
			return fmt.Errorf("%w: key %q has type %T", ErrInvalidCatalog, key, val)
		}
	}
	return nil
}

// Message returns the template stored under code.
func (c *Catalog) Message(code string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	msg, ok := c.messages[code]
	return msg, ok
}

// Set stores or replaces a template.
func (c *Catalog) Set(code, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages[code] = message
}

// Merge copies every message of other into c, replacing existing codes.
func (c *Catalog) Merge(other *Catalog) {
	other.mu.RLock()
	snapshot := maps.Clone(other.messages)
	other.mu.RUnlock()

	c.mu.Lock()
	maps.Copy(c.messages, snapshot)
	c.mu.Unlock()
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// Codes returns the lookup order Resolve uses for r.
func Codes(r constraint.Rejection) []string {
	codes := make([]string, 0, 4)
	if r.Owner != "" && r.Property != "" {
		prefix := r.Owner + "." + r.Property + "."
		if r.FailureCode != "" {
			codes = append(codes, prefix+r.FailureCode)
		}
		if r.Rule != "" {
			codes = append(codes, prefix+r.Rule)
		}
	}
	if r.FailureCode != "" {
		codes = append(codes, r.FailureCode)
	}
	if r.MessageCode != "" {
		codes = append(codes, r.MessageCode)
	}
	return codes
}

// Resolve picks the most specific template for r and interpolates its args.
func (c *Catalog) Resolve(r constraint.Rejection) string {
	for _, code := range Codes(r) {
		if tmpl, ok := c.Message(code); ok {
			return Render(tmpl, r.Args...)
		}
	}
	if r.DefaultMessage != "" {
		return Render(r.DefaultMessage, r.Args...)
	}
	return Render(Fallback, r.Args...)
}

// Render implements constraint.Renderer.
func (c *Catalog) Render(r constraint.Rejection) string { return c.Resolve(r) }

// Render replaces {N} placeholders with the N-th argument. Placeholders
// without a matching argument are left as is; '{{' emits a literal brace.
func Render(tmpl string, args ...any) string {
	if !strings.Contains(tmpl, "{") {
		return tmpl
	}

	var b strings.Builder
	b.Grow(len(tmpl))
	for i := 0; i < len(tmpl); i++ {
		ch := tmpl[i]
		if ch != '{' {
			b.WriteByte(ch)
			continue
		}
		if i+1 < len(tmpl) && tmpl[i+1] == '{' {
			b.WriteByte('{')
			i++
			continue
		}
		end := strings.IndexByte(tmpl[i:], '}')
		if end < 0 {
			b.WriteString(tmpl[i:])
			break
		}
		idx, err := strconv.Atoi(tmpl[i+1 : i+end])
		if err != nil || idx < 0 || idx >= len(args) {
			b.WriteString(tmpl[i : i+end+1])
		} else {
			b.WriteString(format(args[idx]))
		}
		i += end
	}
	return b.String()
}

func format(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
