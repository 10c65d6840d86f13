package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/okian/standings/internal/domain/ranking"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var detailedTemplate = template.Must(
	template.New("detailed.html.tmpl").
		Funcs(template.FuncMap{
			"score": ranking.FormatScore,
			"deref": func(v *float64) string {
				if v == nil {
					return ""
				}
				return fmt.Sprintf("%.3f s", *v)
			},
			"mem": func(v *int64) string {
				if v == nil {
					return ""
				}
				return fmt.Sprintf("%.1f MiB", float64(*v)/(1<<20))
			},
		}).
		ParseFS(templateFS, "templates/detailed.html.tmpl"),
)

// WriteDetailed renders the detailed report as a standalone HTML page.
func WriteDetailed(w io.Writer, rep ranking.DetailedReport) error {
	if err := detailedTemplate.Execute(w, rep); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
