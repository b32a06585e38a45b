package operation

import (
	"fmt"
	"io"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// yamlDoc is the structured operation file schema.
type yamlDoc struct {
	Operation     string                 `mapstructure:"operation"`
	IndexName     string                 `mapstructure:"index_name"`
	Settings      map[string]interface{} `mapstructure:"settings"`
	Mappings      map[string]interface{} `mapstructure:"mappings"`
	TemplateName  string                 `mapstructure:"template_name"`
	Body          map[string]interface{} `mapstructure:"body"`
	IndexPatterns []string               `mapstructure:"index_patterns"`
	Document      map[string]interface{} `mapstructure:"document"`
	DocID         string                 `mapstructure:"doc_id"`
}

// DecodeYAML decodes a single structured operation definition into the
// canonical representation.
func DecodeYAML(r io.Reader, source string) (*Operation, error) {
	var raw map[string]interface{}
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode YAML operation definition: %w", err)
	}

	var doc yamlDoc
	md, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := md.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid operation definition: %w", err)
	}

	if doc.Operation == "" {
		return nil, fmt.Errorf("missing 'operation' field")
	}
	kind, err := ParseKind(doc.Operation)
	if err != nil {
		return nil, err
	}

	op := &Operation{Kind: kind, Source: source}
	switch kind {
	case KindCreateIndex:
		op.CreateIndex = &CreateIndexOp{
			Index:    doc.IndexName,
			Settings: doc.Settings,
			Mappings: doc.Mappings,
		}
	case KindDeleteIndex:
		op.DeleteIndex = &DeleteIndexOp{Index: doc.IndexName}
	case KindUpdateIndexSettings:
		op.UpdateIndexSettings = &UpdateIndexSettingsOp{
			Index:    doc.IndexName,
			Settings: doc.Settings,
		}
	case KindCreateIndexTemplate:
		op.CreateTemplate = &CreateTemplateOp{
			Template: doc.TemplateName,
			Body:     assembleTemplateBody(doc),
		}
	case KindDeleteIndexTemplate:
		op.DeleteTemplate = &DeleteTemplateOp{Template: doc.TemplateName}
	case KindIndexDocument:
		op.IndexDocument = &IndexDocumentOp{
			Index:    doc.IndexName,
			Document: doc.Document,
			DocID:    doc.DocID,
		}
	case KindDeleteDocument:
		op.DeleteDocument = &DeleteDocumentOp{
			Index: doc.IndexName,
			DocID: doc.DocID,
		}
	}
	return op, nil
}

// assembleTemplateBody prefers an explicit body and otherwise builds the
// composable template shape from index_patterns plus settings/mappings.
func assembleTemplateBody(doc yamlDoc) map[string]interface{} {
	if doc.Body != nil {
		return doc.Body
	}
	body := map[string]interface{}{}
	if len(doc.IndexPatterns) > 0 {
		patterns := make([]interface{}, len(doc.IndexPatterns))
		for i, p := range doc.IndexPatterns {
			patterns[i] = p
		}
		body["index_patterns"] = patterns
	}
	section := map[string]interface{}{}
	if doc.Settings != nil {
		section["settings"] = doc.Settings
	}
	if doc.Mappings != nil {
		section["mappings"] = doc.Mappings
	}
	if len(section) > 0 {
		body["template"] = section
	}
	if len(body) == 0 {
		return nil
	}
	return body
}
