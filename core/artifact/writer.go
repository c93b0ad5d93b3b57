// Package artifact persists the extraction record as staged workspace
// artifacts: the cleaned content HTML with provenance, the converter-facing
// metadata record, and a full raw-metadata dump for auditing.
//
// Both artifacts are built with structured construction (html/template,
// yaml marshalling) rather than string concatenation, so titles and
// excerpts containing quotes or markup stay well-formed.
package artifact

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/bookbind/core"
	"github.com/gaurav-prasanna/bookbind/core/workspace"
)

// contentTemplate renders the extracted-content artifact: an optional
// excerpt heading, the article body, and a provenance line back to the
// source URL.
var contentTemplate = template.Must(template.New("content").Parse(`<!DOCTYPE html>
<html{{if .Language}} lang="{{.Language}}"{{end}}>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{if .Excerpt}}<h2 class="excerpt">{{.Excerpt}}</h2>
{{end}}{{.Body}}
<p class="provenance">Source: <a href="{{.URL}}">{{.URL}}</a></p>
</body>
</html>
`))

// converterMetadata is the metadata record the external converter reads.
// Absent fields are omitted entirely, never written as empty strings.
type converterMetadata struct {
	Title  string `yaml:"title,omitempty"`
	Author string `yaml:"author,omitempty"`
	Date   string `yaml:"date,omitempty"`
	Lang   string `yaml:"lang,omitempty"`
}

// metadataDump retains every extractor field except the body/text,
// which is large and already captured by the content artifact.
type metadataDump struct {
	Title       string     `yaml:"title,omitempty"`
	Byline      string     `yaml:"byline,omitempty"`
	Excerpt     string     `yaml:"excerpt,omitempty"`
	SiteName    string     `yaml:"site_name,omitempty"`
	Language    string     `yaml:"language,omitempty"`
	Image       string     `yaml:"image,omitempty"`
	Favicon     string     `yaml:"favicon,omitempty"`
	TextLength  int        `yaml:"text_length"`
	PublishedAt *time.Time `yaml:"published_at,omitempty"`
	ModifiedAt  *time.Time `yaml:"modified_at,omitempty"`
}

// Writer persists extraction records into a document workspace.
type Writer struct{}

// NewWriter creates a Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteContent builds and persists the extracted-content artifact.
func (w *Writer) WriteContent(ws *workspace.Workspace, pageURL string, rec *core.ExtractionRecord) error {
	data := struct {
		Title    string
		Language string
		Excerpt  string
		Body     template.HTML
		URL      string
	}{
		Title:    rec.Title,
		Language: rec.Language,
		Excerpt:  rec.Excerpt,
		Body:     template.HTML(rec.Content),
		URL:      pageURL,
	}

	var buf bytes.Buffer
	if err := contentTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("rendering content artifact: %w", err)
	}
	return ws.Write(ws.ContentPath(), buf.Bytes())
}

// WriteMetadata persists the converter-facing metadata artifact and the
// full raw-metadata dump.
func (w *Writer) WriteMetadata(ws *workspace.Workspace, rec *core.ExtractionRecord) error {
	meta := converterMetadata{
		Title:  rec.Title,
		Author: rec.Byline,
		Lang:   rec.Language,
	}
	if rec.PublishedAt != nil {
		meta.Date = rec.PublishedAt.Format("2006-01-02")
	}

	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}
	if err := ws.Write(ws.MetadataPath(), data); err != nil {
		return err
	}

	dump, err := yaml.Marshal(metadataDump{
		Title:       rec.Title,
		Byline:      rec.Byline,
		Excerpt:     rec.Excerpt,
		SiteName:    rec.SiteName,
		Language:    rec.Language,
		Image:       rec.Image,
		Favicon:     rec.Favicon,
		TextLength:  rec.TextLength,
		PublishedAt: rec.PublishedAt,
		ModifiedAt:  rec.ModifiedAt,
	})
	if err != nil {
		return fmt.Errorf("marshalling metadata dump: %w", err)
	}
	return ws.Write(ws.MetadataDumpPath(), dump)
}
