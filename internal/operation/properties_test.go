package operation

import (
	"strings"
	"testing"
)

func TestDecodePropertiesCreateIndex(t *testing.T) {
	data := []byte("operation=create_index\nindexname=my-index\nshards=3\nreplicas=1\n")
	op, err := DecodeProperties(data, "001_create.properties")
	if err != nil {
		t.Fatalf("DecodeProperties: %v", err)
	}
	if op.Kind != KindCreateIndex {
		t.Fatalf("kind = %s", op.Kind)
	}
	p := op.CreateIndex
	if p.Index != "my-index" {
		t.Errorf("index = %q", p.Index)
	}
	if p.Settings["number_of_shards"] != 3 || p.Settings["number_of_replicas"] != 1 {
		t.Errorf("settings = %v", p.Settings)
	}
	if p.Mappings != nil {
		t.Errorf("mappings = %v, want nil", p.Mappings)
	}
	if err := op.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestDecodePropertiesCreateIndexInputJSON(t *testing.T) {
	data := []byte(`operation=create_index
indexname=users
inputjson={"settings":{"number_of_shards":2},"mappings":{"properties":{"name":{"type":"keyword"}}}}
`)
	op, err := DecodeProperties(data, "users.properties")
	if err != nil {
		t.Fatalf("DecodeProperties: %v", err)
	}
	p := op.CreateIndex
	if p.Settings["number_of_shards"] != float64(2) {
		t.Errorf("settings = %v", p.Settings)
	}
	if p.Mappings == nil {
		t.Error("mappings not extracted from inputjson")
	}
}

func TestDecodePropertiesTemplateAlias(t *testing.T) {
	data := []byte(`operation=create_template
templatename=logs-template
indexpattern=logs-*, events-*
inputjson={"template":{"settings":{"number_of_shards":1}}}
`)
	op, err := DecodeProperties(data, "tmpl.properties")
	if err != nil {
		t.Fatalf("DecodeProperties: %v", err)
	}
	if op.Kind != KindCreateIndexTemplate {
		t.Fatalf("kind = %s", op.Kind)
	}
	p := op.CreateTemplate
	if p.Template != "logs-template" {
		t.Errorf("template = %q", p.Template)
	}
	patterns, ok := p.Body["index_patterns"].([]interface{})
	if !ok || len(patterns) != 2 || patterns[1] != "events-*" {
		t.Fatalf("index_patterns = %v", p.Body["index_patterns"])
	}
	if err := op.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestDecodePropertiesDocumentOps(t *testing.T) {
	data := []byte(`operation=index_document
indexname=users
docid=7
inputjson={"name":"bob"}
`)
	op, err := DecodeProperties(data, "doc.properties")
	if err != nil {
		t.Fatalf("DecodeProperties: %v", err)
	}
	p := op.IndexDocument
	if p.Index != "users" || p.DocID != "7" || p.Document["name"] != "bob" {
		t.Errorf("payload = %+v", p)
	}

	data = []byte("operation=delete_document\nindexname=users\ndocid=7\n")
	op, err = DecodeProperties(data, "del.properties")
	if err != nil {
		t.Fatalf("DecodeProperties: %v", err)
	}
	if op.DeleteDocument.DocID != "7" {
		t.Errorf("doc_id = %q", op.DeleteDocument.DocID)
	}
}

func TestDecodePropertiesErrors(t *testing.T) {
	cases := []struct {
		name    string
		data    string
		wantSub string
	}{
		{"missing operation", "indexname=logs\n", "missing 'operation'"},
		{"unknown operation", "operation=optimize\n", "unknown operation type"},
		{"bad shards", "operation=create_index\nindexname=logs\nshards=many\n", "invalid 'shards'"},
		{"invalid inputjson", "operation=update_index\nindexname=logs\ninputjson={broken\n", "invalid JSON"},
		{"inputjson not object", "operation=update_index\nindexname=logs\ninputjson=[1,2]\n", "JSON object"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeProperties([]byte(tc.data), "bad.properties")
			if err == nil {
				t.Fatal("want error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("error = %q, want substring %q", err, tc.wantSub)
			}
		})
	}
}
