// Package keypad models the calculator's display: the text a user builds up
// by pressing keys, and the result that replaces it when "=" is pressed.
//
// A Display is a plain value. Press returns the next display rather than
// mutating shared state, so callers can carry it in a form field, a request
// body or a local variable.
package keypad

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lemonberrylabs/shuntcalc/pkg/shunt"
)

// ErrorText is shown after a failed computation.
const ErrorText = "ERROR"

// NegAlias is the ASCII stand-in for shunt.NegGlyph accepted by Normalize.
const NegAlias = '~'

// Key is a keypad button.
type Key string

// Keys with an action other than appending their own text.
const (
	KeyClear  Key = "C"
	KeyDelete Key = "⌫"
	KeySolve  Key = "="
	KeyNegate Key = "(-)"
)

// Button is a key as laid out on the keypad.
type Button struct {
	Key   Key
	Label string
}

// Display is the text currently shown on the calculator.
type Display struct {
	Text string
}

// Failed reports whether the display shows the error indicator.
func (d Display) Failed() bool {
	return d.Text == ErrorText
}

// spent reports whether the display holds text that cannot be built on: the
// error indicator or a non-finite result the tokenizer would drop.
func (d Display) spent() bool {
	switch d.Text {
	case ErrorText, "NaN", "Inf", "-Inf", string(shunt.NegGlyph) + "Inf":
		return true
	}
	return false
}

// Press applies a key and returns the resulting display. Unknown keys leave
// the display unchanged.
func (d Display) Press(k Key) Display {
	if d.spent() && k != KeySolve {
		d.Text = ""
	}

	switch k {
	case KeyClear:
		return Display{}
	case KeyDelete, "DEL", "del", "backspace":
		return d.deleteLast()
	case KeySolve:
		return d.Compute()
	case KeyNegate, "neg":
		return Display{Text: d.Text + string(shunt.NegGlyph)}
	}

	text, ok := appendText(k)
	if !ok {
		return d
	}
	return Display{Text: d.Text + text}
}

// PressAll applies each key in order.
func (d Display) PressAll(keys ...Key) Display {
	for _, k := range keys {
		d = d.Press(k)
	}
	return d
}

// Compute evaluates the display text and replaces it with the formatted
// result, or with ErrorText if evaluation fails. A negative result is shown
// with shunt.NegGlyph so the display stays a valid expression.
func (d Display) Compute() Display {
	v, err := shunt.Solve(d.Text)
	if err != nil {
		return Display{Text: ErrorText}
	}
	text := FormatResult(v)
	if rest, ok := strings.CutPrefix(text, "-"); ok {
		text = string(shunt.NegGlyph) + rest
	}
	return Display{Text: text}
}

func (d Display) deleteLast() Display {
	if d.Text == "" {
		return d
	}
	_, size := utf8.DecodeLastRuneInString(d.Text)
	return Display{Text: d.Text[:len(d.Text)-size]}
}

func appendText(k Key) (string, bool) {
	s := string(k)
	if utf8.RuneCountInString(s) != 1 {
		return "", false
	}
	r, _ := utf8.DecodeRuneInString(s)
	switch {
	case r >= '0' && r <= '9':
		return s, true
	case strings.ContainsRune(".()+-*/^", r):
		return s, true
	case r == shunt.NegGlyph:
		return s, true
	}
	return "", false
}

// FormatResult renders a computed value for the display.
func FormatResult(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case v == 0:
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Normalize rewrites NegAlias to shunt.NegGlyph so plain-ASCII clients can
// request unary negation.
func Normalize(text string) string {
	return strings.ReplaceAll(text, string(NegAlias), string(shunt.NegGlyph))
}

// Layout returns the keypad as four columns, top to bottom. Empty buttons are
// spacers.
func Layout() [][]Button {
	return [][]Button{
		{{}, {Key: "(", Label: "("}, {Key: "1", Label: "1"}, {Key: "4", Label: "4"}, {Key: "7", Label: "7"}, {Key: ".", Label: "."}},
		{{}, {Key: ")", Label: ")"}, {Key: "2", Label: "2"}, {Key: "5", Label: "5"}, {Key: "8", Label: "8"}, {Key: "0", Label: "0"}},
		{{Key: KeyClear, Label: "C"}, {Key: "^", Label: "^"}, {Key: "3", Label: "3"}, {Key: "6", Label: "6"}, {Key: "9", Label: "9"}, {Key: KeyNegate, Label: "(-)"}},
		{{Key: KeyDelete, Label: "⌫"}, {Key: "+", Label: "+"}, {Key: "-", Label: "-"}, {Key: "*", Label: "*"}, {Key: "/", Label: "/"}, {Key: KeySolve, Label: "="}},
	}
}

// Rows returns Layout transposed into rows, the order a renderer draws them.
func Rows() [][]Button {
	cols := Layout()
	rows := make([][]Button, len(cols[0]))
	for r := range rows {
		rows[r] = make([]Button, len(cols))
		for c := range cols {
			rows[r][c] = cols[c][r]
		}
	}
	return rows
}
