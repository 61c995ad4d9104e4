package output

import (
	"bytes"
	"sync"
	"text/template"

	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/hwbench/pkg/hwbench/rank"
	"github.com/jamesainslie/hwbench/pkg/hwbench/types"
)

// TemplateFormatter renders the board with a user supplied text/template.
// The template receives the *rank.Board.
type TemplateFormatter struct {
	templateStr string
	template    *template.Template
	mu          sync.Mutex
}

// NewTemplateFormatter creates a template formatter.
func NewTemplateFormatter(templateStr string) *TemplateFormatter {
	return &TemplateFormatter{
		templateStr: templateStr,
	}
}

// SetTemplate replaces the template.
func (f *TemplateFormatter) SetTemplate(templateStr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templateStr = templateStr
	f.template = nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		// {{score .Value.Result}} -> "12,345.68"
		"score": types.FormatScore,

		// {{comma .Total}}
		"comma": func(n int) string {
			return humanize.Comma(int64(n))
		},

		// {{ordinal .Position}} is one-based: "1st", "2nd".
		"ordinal": func(pos int) string {
			return humanize.Ordinal(pos + 1)
		},

		"bytes": func(n uint64) string {
			return humanize.IBytes(n)
		},
	}
}

// Format writes the formatted output to the buffer.
func (f *TemplateFormatter) Format(w *bytes.Buffer, b *rank.Board) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.template == nil {
		tmpl, err := template.New("output").Funcs(templateFuncs()).Parse(f.templateStr)
		if err != nil {
			return err
		}
		f.template = tmpl
	}
	return f.template.Execute(w, b)
}

const defaultTemplate = `{{range .Rows}}{{ordinal .Position}}	{{score .Value.Result}}	{{.Label}}
{{end}}`

func init() {
	Register("template", func() Formatter {
		return NewTemplateFormatter(defaultTemplate)
	})
}

var _ Formatter = (*TemplateFormatter)(nil)
