// Package operation defines the canonical representation of a declarative
// Elasticsearch operation and the format adapters (YAML documents and
// key=value properties files) that produce it.
package operation

import (
	"fmt"

	"github.com/loykin/esrun/internal/validate"
)

// Kind identifies one of the supported operation kinds.
type Kind string

const (
	KindCreateIndex         Kind = "create_index"
	KindDeleteIndex         Kind = "delete_index"
	KindUpdateIndexSettings Kind = "update_index_settings"
	KindCreateIndexTemplate Kind = "create_index_template"
	KindDeleteIndexTemplate Kind = "delete_index_template"
	KindIndexDocument       Kind = "index_document"
	KindDeleteDocument      Kind = "delete_document"
)

// legacy tags from the properties schema normalize onto the canonical kinds.
var kindAliases = map[string]Kind{
	"update_index":    KindUpdateIndexSettings,
	"create_template": KindCreateIndexTemplate,
	"delete_template": KindDeleteIndexTemplate,
}

// ParseKind resolves an operation tag to a Kind. Unknown tags are an error;
// the dispatcher records it as a failed operation rather than aborting.
func ParseKind(tag string) (Kind, error) {
	switch Kind(tag) {
	case KindCreateIndex, KindDeleteIndex, KindUpdateIndexSettings,
		KindCreateIndexTemplate, KindDeleteIndexTemplate,
		KindIndexDocument, KindDeleteDocument:
		return Kind(tag), nil
	}
	if k, ok := kindAliases[tag]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown operation type: %s", tag)
}

// CreateIndexOp creates an index with optional settings and mappings.
type CreateIndexOp struct {
	Index    string
	Settings map[string]interface{}
	Mappings map[string]interface{}
}

// DeleteIndexOp deletes an index. Deleting a nonexistent index is not an error.
type DeleteIndexOp struct {
	Index string
}

// UpdateIndexSettingsOp applies new settings to an existing index.
type UpdateIndexSettingsOp struct {
	Index    string
	Settings map[string]interface{}
}

// CreateTemplateOp creates an index template from an assembled body.
type CreateTemplateOp struct {
	Template string
	Body     map[string]interface{}
}

// DeleteTemplateOp deletes an index template. Deleting a nonexistent template
// is not an error.
type DeleteTemplateOp struct {
	Template string
}

// IndexDocumentOp indexes a document, with an optional explicit ID.
type IndexDocumentOp struct {
	Index    string
	Document map[string]interface{}
	DocID    string
}

// DeleteDocumentOp deletes a document by ID.
type DeleteDocumentOp struct {
	Index string
	DocID string
}

// Operation is the tagged canonical form fed to the dispatcher. Exactly one
// payload pointer matching Kind is non-nil.
type Operation struct {
	Kind   Kind
	Source string // file the definition was loaded from

	CreateIndex         *CreateIndexOp
	DeleteIndex         *DeleteIndexOp
	UpdateIndexSettings *UpdateIndexSettingsOp
	CreateTemplate      *CreateTemplateOp
	DeleteTemplate      *DeleteTemplateOp
	IndexDocument       *IndexDocumentOp
	DeleteDocument      *DeleteDocumentOp
}

// Validate checks per-kind required fields and runs the value validators.
// A validation error is recorded by the dispatcher as a failed operation.
func (o *Operation) Validate() error {
	switch o.Kind {
	case KindCreateIndex:
		p := o.CreateIndex
		if p == nil || p.Index == "" {
			return fmt.Errorf("missing 'index_name' for %s", o.Kind)
		}
		if err := validate.IndexName(p.Index); err != nil {
			return err
		}
		if p.Settings != nil {
			if err := validate.IndexSettings(p.Settings); err != nil {
				return err
			}
		}
		if p.Mappings != nil {
			if err := validate.IndexMappings(p.Mappings); err != nil {
				return err
			}
		}
	case KindDeleteIndex:
		p := o.DeleteIndex
		if p == nil || p.Index == "" {
			return fmt.Errorf("missing 'index_name' for %s", o.Kind)
		}
		return validate.IndexName(p.Index)
	case KindUpdateIndexSettings:
		p := o.UpdateIndexSettings
		if p == nil || p.Index == "" {
			return fmt.Errorf("missing 'index_name' for %s", o.Kind)
		}
		if err := validate.IndexName(p.Index); err != nil {
			return err
		}
		if p.Settings == nil {
			return fmt.Errorf("missing 'settings' for %s", o.Kind)
		}
		return validate.IndexSettings(p.Settings)
	case KindCreateIndexTemplate:
		p := o.CreateTemplate
		if p == nil || p.Template == "" {
			return fmt.Errorf("missing 'template_name' for %s", o.Kind)
		}
		return validate.TemplateBody(p.Body)
	case KindDeleteIndexTemplate:
		p := o.DeleteTemplate
		if p == nil || p.Template == "" {
			return fmt.Errorf("missing 'template_name' for %s", o.Kind)
		}
	case KindIndexDocument:
		p := o.IndexDocument
		if p == nil || p.Index == "" {
			return fmt.Errorf("missing 'index_name' for %s", o.Kind)
		}
		if err := validate.IndexName(p.Index); err != nil {
			return err
		}
		if p.Document == nil {
			return fmt.Errorf("missing 'document' for %s", o.Kind)
		}
		return validate.Document(p.Document)
	case KindDeleteDocument:
		p := o.DeleteDocument
		if p == nil || p.Index == "" {
			return fmt.Errorf("missing 'index_name' for %s", o.Kind)
		}
		if err := validate.IndexName(p.Index); err != nil {
			return err
		}
		if p.DocID == "" {
			return fmt.Errorf("missing 'doc_id' for %s", o.Kind)
		}
	default:
		return fmt.Errorf("unknown operation type: %s", o.Kind)
	}
	return nil
}

// Source pairs a discovered operation file with its parse outcome. Files that
// fail to parse are carried through so the dispatcher can record them as
// failed operations instead of silently dropping them.
type Source struct {
	Path string
	Name string
	Op   *Operation
	Err  error
}
