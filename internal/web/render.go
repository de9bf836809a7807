package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/socialchef/creativechef/internal/services/recipe"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const AppTitle = "AI Based Creative Cooking Web Application"

// Renderer executes the page templates.
type Renderer struct {
	page *template.Template
}

func NewRenderer() (*Renderer, error) {
	page, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{page: page}, nil
}

type pageData struct {
	AppTitle        string
	State           State
	DishTypeOptions []recipe.Option
	RegionOptions   []recipe.Option
	Recipe          Succeeded
}

// Render writes the full page for s with the given status code. The page is
// rendered to a buffer first so a template error never yields a partial page.
func (r *Renderer) Render(w http.ResponseWriter, status int, s State) error {
	data := pageData{
		AppTitle:        AppTitle,
		State:           s,
		DishTypeOptions: recipe.DishTypeOptions,
		RegionOptions:   recipe.RegionOptions,
	}
	if rec, ok := s.Recipe(); ok {
		data.Recipe = rec
	}

	var buf bytes.Buffer
	if err := r.page.ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// StaticHandler serves the embedded stylesheet under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
