package echoweb

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/trezcool/eduhelp/core/session"
	appfs "github.com/trezcool/eduhelp/fs"
)

const (
	pagesDir     = "templates/pages"
	layoutFile   = pagesDir + "/_layout.gohtml"
	contentDir   = "content"
	pageFileExt  = ".gohtml"
	contentFlExt = ".md"

	aboutContent     = "about"
	portfolioContent = "portfolio"
)

var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
)

type (
	// view is the data handed to every page.
	view struct {
		AppName  string
		Title    string
		Path     string
		CSRF     string
		Identity *session.Identity
		Errors   map[string]string
		Flash    string
		Refresh  string // meta refresh content, eg. "3;url=/"
		Data     interface{}
	}

	renderer struct {
		appName string
		pages   map[string]*template.Template
	}
)

func newView(ctx echo.Context, title string, data interface{}) *view {
	v := &view{
		Title:    title,
		Path:     ctx.Request().URL.Path,
		Identity: contextIdentity(ctx),
		Data:     data,
	}
	if token, ok := ctx.Get("csrf").(string); ok {
		v.CSRF = token
	}
	return v
}

func (v *view) withErrors(fields map[string]string) *view {
	v.Errors = fields
	return v
}

func (v *view) refreshAfter(d time.Duration, url string) *view {
	v.Refresh = strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + ";url=" + url
	return v
}

var funcMap = template.FuncMap{
	"price": func(p int) string { return fmt.Sprintf("$%d", p) },
	"money": func(p float64) string { return fmt.Sprintf("$%.2f", p) },
	"title": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
	"join": strings.Join,
	"dict": func(kv ...interface{}) (map[string]interface{}, error) {
		if len(kv)%2 != 0 {
			return nil, errors.New("dict: odd number of arguments")
		}
		m := make(map[string]interface{}, len(kv)/2)
		for i := 0; i < len(kv); i += 2 {
			k, ok := kv[i].(string)
			if !ok {
				return nil, errors.Errorf("dict: key %v is not a string", kv[i])
			}
			m[k] = kv[i+1]
		}
		return m, nil
	},
	"stars": func(n int) string {
		n = clamp(n, 0, 5)
		return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
	},
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// newRenderer parses every page under templates/pages together with the layout.
// Files starting with `_` are partials.
func newRenderer() (*renderer, error) {
	files, err := fs.Glob(appfs.FS, pagesDir+"/*"+pageFileExt)
	if err != nil {
		return nil, err
	}
	r := &renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), pageFileExt)
		if strings.HasPrefix(name, "_") {
			continue
		}
		tmpl, err := template.New(name).Funcs(funcMap).ParseFS(appfs.FS, layoutFile, file)
		if err != nil {
			return nil, errors.Wrap(err, file)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return errors.Errorf("page %q not found", name)
	}
	if v, ok := data.(*view); ok && v.AppName == "" {
		v.AppName = r.appName
	}
	// buffered: nothing is written when the template fails
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return errors.Wrap(err, name)
	}
	_, err := buf.WriteTo(w)
	return err
}

// loadContents renders the named markdown documents of the content directory.
func loadContents(names ...string) (map[string]template.HTML, error) {
	contents := make(map[string]template.HTML, len(names))
	for _, name := range names {
		src, err := appfs.FS.ReadFile(contentDir + "/" + name + contentFlExt)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := mdRenderer.Convert(src, &buf); err != nil {
			return nil, errors.Wrap(err, name)
		}
		contents[name] = template.HTML(buf.String())
	}
	return contents, nil
}
