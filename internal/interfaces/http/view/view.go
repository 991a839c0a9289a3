// Package view renders the server-side HTML fragments of the storefront:
// the pagination control and the product grid it sits under.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strconv"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/catalog"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/pagination"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageParam is the query parameter page links set
const PageParam = "page"

// Renderer executes the embedded fragment templates
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("view").Funcs(template.FuncMap{
		"thb": FormatTHB,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse view templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// PageItem is one rendered entry of the page strip
type PageItem struct {
	Page     int
	Label    string
	Href     string
	Ellipsis bool
	Current  bool
}

// PaginationView is the template data of the pagination control
type PaginationView struct {
	Items   []PageItem
	Prev    int
	Next    int
	HasPrev bool
	HasNext bool
}

// NewPaginationView lays out ctl. Page links keep baseURL and set the page
// query parameter. Prev and next point at the current page when disabled.
func NewPaginationView(ctl pagination.Control, baseURL string) (PaginationView, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return PaginationView{}, fmt.Errorf("parse base url: %w", err)
	}

	v := PaginationView{
		Items:   make([]PageItem, 0, len(ctl.Markers)),
		Prev:    ctl.Current,
		Next:    ctl.Current,
		HasPrev: ctl.HasPrev,
		HasNext: ctl.HasNext,
	}
	if p, ok := ctl.Prev(); ok {
		v.Prev = p
	}
	if p, ok := ctl.Next(); ok {
		v.Next = p
	}
	for _, m := range ctl.Markers {
		if m.IsEllipsis() {
			v.Items = append(v.Items, PageItem{Label: pagination.EllipsisText, Ellipsis: true})
			continue
		}
		v.Items = append(v.Items, PageItem{
			Page:    m.Page,
			Label:   strconv.Itoa(m.Page),
			Href:    pageHref(base, m.Page),
			Current: m.Page == ctl.Current,
		})
	}
	return v, nil
}

func pageHref(base *url.URL, page int) string {
	u := *base
	q := u.Query()
	q.Set(PageParam, strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

// ProductsView is the template data of a product grid page
type ProductsView struct {
	Products   []catalog.Product
	Total      int64
	Pagination PaginationView
}

// Pagination writes the pagination control. It is rendered for a single
// page too, with both buttons disabled.
func (r *Renderer) Pagination(w io.Writer, ctl pagination.Control, baseURL string) error {
	v, err := NewPaginationView(ctl, baseURL)
	if err != nil {
		return err
	}
	return r.execute(w, "pagination", v)
}

// Products writes a product grid followed by its pagination control
func (r *Renderer) Products(w io.Writer, v ProductsView) error {
	return r.execute(w, "products", v)
}

// execute renders into a buffer first so a failing template writes nothing
func (r *Renderer) execute(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
