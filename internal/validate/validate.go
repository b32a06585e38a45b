// Package validate holds pure validation helpers for index names, index
// settings, mappings, template bodies and documents. Validators either accept
// a value or return an error naming the violated rule; they never coerce.
package validate

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/loykin/esrun/internal/common"
)

const maxIndexNameBytes = 255

// invalidIndexChars mirrors the characters Elasticsearch rejects in index names.
var invalidIndexChars = []string{"\\", "/", "*", "?", "\"", "<", ">", "|", " ", ",", "#"}

// IndexName validates an Elasticsearch index name:
// non-empty, at most 255 bytes, not "." or "..", lowercase only,
// must not start with '-', '_' or '+', and must not contain
// \ / * ? " < > | space , #.
func IndexName(name string) error {
	if name == "" {
		return fmt.Errorf("index name cannot be empty")
	}
	if len(name) > maxIndexNameBytes {
		return fmt.Errorf("index name must be %d bytes or less", maxIndexNameBytes)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("index name cannot be '.' or '..'")
	}
	switch name[0] {
	case '-', '_', '+':
		return fmt.Errorf("index name cannot start with %q", string(name[0]))
	}
	for _, r := range name {
		if unicode.IsLetter(r) && unicode.IsUpper(r) {
			return fmt.Errorf("index name must be lowercase")
		}
	}
	for _, c := range invalidIndexChars {
		if strings.Contains(name, c) {
			return fmt.Errorf("index name cannot contain %q", c)
		}
	}
	return nil
}

// IndexSettings validates index settings. Only the shard and replica counts
// are checked when present; everything else passes through to the cluster.
// Integer values may arrive as int, int64, float64 (YAML/JSON decoding) or
// numeric strings (properties files).
func IndexSettings(settings map[string]interface{}) error {
	if settings == nil {
		return fmt.Errorf("index settings must be a mapping")
	}
	if v, ok := settings["number_of_shards"]; ok {
		shards, err := asInt(v)
		if err != nil {
			return fmt.Errorf("number_of_shards must be an integer")
		}
		if shards <= 0 {
			return fmt.Errorf("number_of_shards must be greater than 0")
		}
	}
	if v, ok := settings["number_of_replicas"]; ok {
		replicas, err := asInt(v)
		if err != nil {
			return fmt.Errorf("number_of_replicas must be an integer")
		}
		if replicas < 0 {
			return fmt.Errorf("number_of_replicas must be 0 or greater")
		}
	}
	return nil
}

// IndexMappings validates index mappings. The "properties" value must be a
// mapping of field name to field definition mapping. A field definition
// without a "type" is only a warning since nested objects do not need one.
func IndexMappings(mappings map[string]interface{}) error {
	if mappings == nil {
		return fmt.Errorf("index mappings must be a mapping")
	}
	props, ok := mappings["properties"]
	if !ok {
		return nil
	}
	propsMap, ok := toStringMap(props)
	if !ok {
		return fmt.Errorf("mappings 'properties' must be a mapping")
	}
	logger := common.GetLogger().WithComponent("validate")
	for field, def := range propsMap {
		defMap, ok := toStringMap(def)
		if !ok {
			return fmt.Errorf("field definition for %q must be a mapping", field)
		}
		if _, ok := defMap["type"]; !ok {
			logger.Warn("field has no 'type' specified", "field", field)
		}
	}
	return nil
}

// Document validates a document body to be indexed. An empty document is
// allowed but logged as a warning.
func Document(document map[string]interface{}) error {
	if document == nil {
		return fmt.Errorf("document must be a mapping")
	}
	if len(document) == 0 {
		common.GetLogger().WithComponent("validate").Warn("document is empty")
	}
	return nil
}

// TemplateBody validates an index template body: a non-empty list of string
// index patterns, plus recursive validation of nested settings/mappings when
// present (both the composable "template" section and the flat legacy shape).
func TemplateBody(body map[string]interface{}) error {
	if body == nil {
		return fmt.Errorf("index template body must be a mapping")
	}
	rawPatterns, ok := body["index_patterns"]
	if !ok {
		return fmt.Errorf("index template must have 'index_patterns'")
	}
	patterns, ok := toSlice(rawPatterns)
	if !ok {
		return fmt.Errorf("'index_patterns' must be a list")
	}
	if len(patterns) == 0 {
		return fmt.Errorf("'index_patterns' cannot be empty")
	}
	for i, p := range patterns {
		if _, ok := p.(string); !ok {
			return fmt.Errorf("index_patterns[%d] must be a string", i)
		}
	}
	sections := []map[string]interface{}{body}
	if tmpl, ok := toStringMap(body["template"]); ok {
		sections = append(sections, tmpl)
	}
	for _, section := range sections {
		if s, ok := toStringMap(section["settings"]); ok {
			if err := IndexSettings(s); err != nil {
				return err
			}
		}
		if m, ok := toStringMap(section["mappings"]); ok {
			if err := IndexMappings(m); err != nil {
				return err
			}
		}
	}
	return nil
}

func asInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("not an integer: %v", v)
		}
		return int(n), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(n))
	default:
		return 0, fmt.Errorf("not an integer: %v", v)
	}
}

// toStringMap normalizes the mapping shapes YAML decoders produce.
func toStringMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func toSlice(v interface{}) ([]interface{}, bool) {
	switch s := v.(type) {
	case []interface{}:
		return s, true
	case []string:
		out := make([]interface{}, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	default:
		return nil, false
	}
}
