// Package web provides the embedded keypad UI for the calculator.
//
// The UI keeps no server-side state: the current display travels in a hidden
// form field and every key press posts it back together with the key.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/lemonberrylabs/shuntcalc/pkg/keypad"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler serves the web UI pages.
type Handler struct {
	maxLength int
	funcMap   template.FuncMap
}

// pageData wraps all page-specific data with common fields.
type pageData struct {
	Title string
	Data  interface{}
}

type keypadContent struct {
	Display string
	Failed  bool
	Rows    [][]keypad.Button
	Notice  string
}

// New creates a new web UI handler. Displays longer than maxLength bytes are
// rejected.
func New(maxLength int) *Handler {
	return &Handler{
		maxLength: maxLength,
		funcMap: template.FuncMap{
			"spacer": func(b keypad.Button) bool { return b.Key == "" },
			"accent": accent,
		},
	}
}

func (h *Handler) render(c *fiber.Ctx, status int, page string, data interface{}) error {
	tmpl, err := template.New("").Funcs(h.funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
	if err != nil {
		return c.Status(500).SendString(fmt.Sprintf("template error: %v", err))
	}

	pd := pageData{
		Title: "Calculator",
		Data:  data,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, page, pd); err != nil {
		return c.Status(500).SendString(fmt.Sprintf("template error: %v", err))
	}

	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Status(status).Send(buf.Bytes())
}

// Register adds web UI routes to the Fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/ui", h.keypad)
	app.Post("/ui/press", h.press)

	// Redirect root to UI
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/ui")
	})
}

func (h *Handler) keypad(c *fiber.Ctx) error {
	return h.render(c, 200, "keypad.html", newKeypadContent(keypad.Display{}, ""))
}

func (h *Handler) press(c *fiber.Ctx) error {
	d := keypad.Display{Text: c.FormValue("display")}
	if len(d.Text) > h.maxLength {
		msg := fmt.Sprintf("Display exceeds %d characters", h.maxLength)
		return h.render(c, 400, "keypad.html", newKeypadContent(keypad.Display{}, msg))
	}

	next := d.Press(keypad.Key(c.FormValue("key")))
	return h.render(c, 200, "keypad.html", newKeypadContent(next, ""))
}

func newKeypadContent(d keypad.Display, notice string) keypadContent {
	return keypadContent{
		Display: d.Text,
		Failed:  d.Failed(),
		Rows:    keypad.Rows(),
		Notice:  notice,
	}
}

// accent returns the CSS class for a button.
func accent(b keypad.Button) string {
	switch b.Key {
	case keypad.KeySolve:
		return "key key-solve"
	case keypad.KeyClear, keypad.KeyDelete:
		return "key key-edit"
	case "+", "-", "*", "/", "^", keypad.KeyNegate:
		return "key key-op"
	default:
		return "key"
	}
}
