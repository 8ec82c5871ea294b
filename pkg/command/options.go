// Package command turns Jest options into a command line and finds the
// jest executable for a project.
package command

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Option is one Jest CLI option. Value is a bool, string, number or a list
// of those. One-letter keys become short flags, everything else long flags;
// a key ending in "=" is glued to its value ("coverageReporters=").
type Option struct {
	Key   string `yaml:"key" json:"key"`
	Value any    `yaml:"value" json:"value"`
}

// Options keeps insertion order, which is the order flags appear on the command line.
type Options []Option

// Get returns the value stored under key.
func (o Options) Get(key string) (any, bool) {
	for _, opt := range o {
		if opt.Key == key {
			return opt.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present, whatever its value.
func (o Options) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set replaces the value of key in place, or appends it.
func (o Options) Set(key string, value any) Options {
	for i := range o {
		if o[i].Key == key {
			out := append(Options(nil), o...)
			out[i].Value = value
			return out
		}
	}
	return append(append(Options(nil), o...), Option{Key: key, Value: value})
}

// Merge returns explicit followed by every key of each layer not already
// present. Earlier layers take precedence over later ones.
func Merge(explicit Options, layers ...Options) Options {
	out := append(Options(nil), explicit...)
	for _, layer := range layers {
		for _, opt := range layer {
			if !out.Has(opt.Key) {
				out = append(out, opt)
			}
		}
	}
	return out
}

// ParseOption parses "key=value", "key" (true) or "key==value" (glued form
// for a "key=" option) as given on the jester command line.
func ParseOption(s string) (Option, error) {
	s = strings.TrimLeft(s, "-")
	if s == "" {
		return Option{}, fmt.Errorf("empty option")
	}

	key, value, found := strings.Cut(s, "=")
	if key == "" {
		return Option{}, fmt.Errorf("option %q has no key", s)
	}
	if !found {
		return Option{Key: key, Value: true}, nil
	}
	if strings.HasPrefix(value, "=") {
		return Option{Key: key + "=", Value: value[1:]}, nil
	}

	switch value {
	case "true":
		return Option{Key: key, Value: true}, nil
	case "false":
		return Option{Key: key, Value: false}, nil
	}
	return Option{Key: key, Value: value}, nil
}

// BuildArgs appends the flags for opts to cmd. Options whose value is false,
// empty or zero are skipped.
func BuildArgs(opts Options, cmd []string) []string {
	for _, opt := range opts {
		if opt.Key == "" || !truthy(opt.Value) {
			continue
		}

		values, isList := listValues(opt.Value)

		switch {
		case len(opt.Key) == 1:
			if isList {
				for _, v := range values {
					cmd = append(cmd, "-"+opt.Key, v)
				}
				continue
			}
			cmd = append(cmd, "-"+opt.Key)
			if opt.Value != true {
				cmd = append(cmd, formatValue(opt.Value))
			}
		case strings.HasSuffix(opt.Key, "="):
			if isList {
				for _, v := range values {
					cmd = append(cmd, "--"+opt.Key+v)
				}
				continue
			}
			cmd = append(cmd, "--"+opt.Key+formatValue(opt.Value))
		default:
			if isList {
				for _, v := range values {
					cmd = append(cmd, "--"+opt.Key, v)
				}
				continue
			}
			cmd = append(cmd, "--"+opt.Key)
			if opt.Value != true {
				cmd = append(cmd, formatValue(opt.Value))
			}
		}
	}
	return cmd
}

func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	default:
		return true
	}
}

func listValues(v any) ([]string, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out = append(out, formatValue(rv.Index(i).Interface()))
	}
	return out, true
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// UnmarshalYAML decodes a YAML mapping, keeping key order.
func (o *Options) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*o = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: options must be a mapping", node.Line)
	}

	out := make(Options, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var value any
		if err := node.Content[i+1].Decode(&value); err != nil {
			return fmt.Errorf("option %q: %w", node.Content[i].Value, err)
		}
		out = append(out, Option{Key: node.Content[i].Value, Value: value})
	}
	*o = out
	return nil
}

// MarshalYAML encodes the options as an ordered mapping.
func (o Options) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, opt := range o {
		var value yaml.Node
		if err := value.Encode(opt.Value); err != nil {
			return nil, fmt.Errorf("option %q: %w", opt.Key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: opt.Key},
			&value,
		)
	}
	return node, nil
}
