package domain

import "encoding/json"

// Framework identifies the CSS framework a template was built against.
type Framework struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// TemplateMeta is the editor-supplied display metadata carried alongside a
// save. Title and tags feed the metadata record's change detection.
type TemplateMeta struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// TemplateDocument is the compiled template blob stored in the object store
// keyed by TemplateID. Page and style payloads are editor-defined JSON and
// pass through opaque; the backend never interprets them.
type TemplateDocument struct {
	TemplateID string            `json:"templateId"`
	Pages      []json.RawMessage `json:"pages"`
	CSSFiles   json.RawMessage   `json:"cssFiles,omitempty"`
	Palette    json.RawMessage   `json:"palette,omitempty"`
	Framework  Framework         `json:"framework"`
	Meta       TemplateMeta      `json:"templateMeta"`
}

// CompileDocument assembles the blob document from the parts of a save
// event, mirroring the shape the editor reads back.
func CompileDocument(templateID string, pages []json.RawMessage, cssFiles, palette json.RawMessage, framework Framework, meta TemplateMeta) *TemplateDocument {
	return &TemplateDocument{
		TemplateID: templateID,
		Pages:      pages,
		CSSFiles:   cssFiles,
		Palette:    palette,
		Framework:  framework,
		Meta:       meta,
	}
}
