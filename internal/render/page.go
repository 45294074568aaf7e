package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/Masterminds/sprig"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

// PageData is everything the chat page shows.
type PageData struct {
	AssistantName string
	Conversation  ConversationView
	Sidebar       []SidebarEntry
	Notice        string
	Busy          bool // a reply is pending; the send form is disabled
}

func parsePage() (*template.Template, error) {
	t, err := template.New("page.html.tmpl").
		Funcs(sprig.FuncMap()).
		ParseFS(templateFiles, "templates/page.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	return t, nil
}

// Page writes the full chat page.
func (r *Renderer) Page(w io.Writer, data *PageData) error {
	return r.page.Execute(w, data)
}
