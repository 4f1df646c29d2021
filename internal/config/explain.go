package config

import (
	"fmt"
	"reflect"
	"strings"
)

// Explain returns the effective value at a dotted YAML path (for example
// "placement.margin" or "chroma_key.color") and where it came from.
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

// Paths lists every explainable path in declaration order.
func Paths() []string {
	var out []string
	collectPaths(reflect.TypeOf(Config{}), "", &out)
	return out
}

func collectPaths(t reflect.Type, prefix string, out *[]string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := yamlName(f)
		if name == "" {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		if f.Type.Kind() == reflect.Struct {
			collectPaths(f.Type, path, out)
			continue
		}
		*out = append(*out, path)
	}
}

func lookupValue(cfg *Config, path string) (any, error) {
	v := reflect.ValueOf(cfg).Elem()
	for _, part := range strings.Split(path, ".") {
		if v.Kind() != reflect.Struct {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		field, ok := fieldByYAMLName(v, part)
		if !ok {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		v = field
	}
	if v.Kind() == reflect.Struct {
		return nil, fmt.Errorf("path %s is a section, not a value", path)
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}
	return v.Interface(), nil
}

func fieldByYAMLName(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if yamlName(t.Field(i)) == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func yamlName(f reflect.StructField) string {
	tag := f.Tag.Get("yaml")
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}
