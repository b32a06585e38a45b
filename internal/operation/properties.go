package operation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/magiconair/properties"
	"github.com/tidwall/gjson"
)

// DecodeProperties decodes a legacy key=value operation definition into the
// canonical representation. Legacy field names (indexname, templatename,
// docid, shards, replicas, indexpattern, inputjson) are normalized here so
// the dispatcher only ever sees the canonical schema.
func DecodeProperties(data []byte, source string) (*Operation, error) {
	p, err := properties.Load(data, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("failed to parse properties file: %w", err)
	}

	tag, ok := p.Get("operation")
	if !ok || strings.TrimSpace(tag) == "" {
		return nil, fmt.Errorf("missing 'operation' field")
	}
	kind, err := ParseKind(strings.TrimSpace(tag))
	if err != nil {
		return nil, err
	}

	getTrim := func(key string) string {
		v, _ := p.Get(key)
		return strings.TrimSpace(v)
	}

	op := &Operation{Kind: kind, Source: source}
	switch kind {
	case KindCreateIndex:
		settings, err := propsSettings(p)
		if err != nil {
			return nil, err
		}
		var mappings map[string]interface{}
		if body, err := propsInputJSON(p); err != nil {
			return nil, err
		} else if body != nil {
			if s, ok := body["settings"].(map[string]interface{}); ok {
				settings = s
			}
			if m, ok := body["mappings"].(map[string]interface{}); ok {
				mappings = m
			}
		}
		op.CreateIndex = &CreateIndexOp{
			Index:    getTrim("indexname"),
			Settings: settings,
			Mappings: mappings,
		}
	case KindDeleteIndex:
		op.DeleteIndex = &DeleteIndexOp{Index: getTrim("indexname")}
	case KindUpdateIndexSettings:
		settings, err := propsInputJSON(p)
		if err != nil {
			return nil, err
		}
		op.UpdateIndexSettings = &UpdateIndexSettingsOp{
			Index:    getTrim("indexname"),
			Settings: settings,
		}
	case KindCreateIndexTemplate:
		body, err := propsInputJSON(p)
		if err != nil {
			return nil, err
		}
		if pattern := getTrim("indexpattern"); pattern != "" {
			if body == nil {
				body = map[string]interface{}{}
			}
			if _, exists := body["index_patterns"]; !exists {
				parts := strings.Split(pattern, ",")
				patterns := make([]interface{}, 0, len(parts))
				for _, part := range parts {
					patterns = append(patterns, strings.TrimSpace(part))
				}
				body["index_patterns"] = patterns
			}
		}
		op.CreateTemplate = &CreateTemplateOp{
			Template: getTrim("templatename"),
			Body:     body,
		}
	case KindDeleteIndexTemplate:
		op.DeleteTemplate = &DeleteTemplateOp{Template: getTrim("templatename")}
	case KindIndexDocument:
		doc, err := propsInputJSON(p)
		if err != nil {
			return nil, err
		}
		op.IndexDocument = &IndexDocumentOp{
			Index:    getTrim("indexname"),
			Document: doc,
			DocID:    getTrim("docid"),
		}
	case KindDeleteDocument:
		op.DeleteDocument = &DeleteDocumentOp{
			Index: getTrim("indexname"),
			DocID: getTrim("docid"),
		}
	}
	return op, nil
}

// propsSettings builds an index settings map from the shards/replicas keys.
func propsSettings(p *properties.Properties) (map[string]interface{}, error) {
	settings := map[string]interface{}{}
	if v, ok := p.Get("shards"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("invalid 'shards' value %q", v)
		}
		settings["number_of_shards"] = n
	}
	if v, ok := p.Get("replicas"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("invalid 'replicas' value %q", v)
		}
		settings["number_of_replicas"] = n
	}
	if len(settings) == 0 {
		return nil, nil
	}
	return settings, nil
}

// propsInputJSON parses the inputjson key, which carries a JSON object as a
// single property value.
func propsInputJSON(p *properties.Properties) (map[string]interface{}, error) {
	raw, ok := p.Get("inputjson")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	raw = strings.TrimSpace(raw)
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("invalid JSON in 'inputjson'")
	}
	value := gjson.Parse(raw).Value()
	obj, ok := value.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("'inputjson' must be a JSON object")
	}
	return obj, nil
}
