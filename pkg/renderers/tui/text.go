package tui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/goliatone/go-geoidentify/pkg/render"
	"github.com/goliatone/go-geoidentify/pkg/view"
)

// TextName is the registry name of the plain-text renderer.
const TextName = "text"

// TextRenderer prints a page as plain text: checkbox groups, the error line,
// the results table and the evidence list.
type TextRenderer struct {
	translator render.Translator
	theme      Theme
}

var _ render.Renderer = (*TextRenderer)(nil)

// NewTextRenderer builds a text renderer. A nil translator uses the built-in
// catalog.
func NewTextRenderer(translator render.Translator, theme Theme) *TextRenderer {
	if translator == nil {
		translator = render.NewCatalog()
	}
	return &TextRenderer{translator: translator, theme: theme}
}

func (r *TextRenderer) Name() string {
	return TextName
}

func (r *TextRenderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render implements render.Renderer.
func (r *TextRenderer) Render(ctx context.Context, page view.Page) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(render.Text(r.translator, page.Locale, render.KeyPageTitle))
	buf.WriteString("\n\n")

	if len(page.Form.Groups) == 0 {
		buf.WriteString(render.Text(r.translator, page.Locale, render.KeyEmptyTaxonomy))
		buf.WriteString("\n")
	}
	for _, group := range page.Form.Groups {
		fmt.Fprintf(&buf, "%s\n", group.Name)
		for _, box := range group.Checkboxes {
			mark := " "
			if box.Checked {
				mark = "x"
			}
			fmt.Fprintf(&buf, "  [%s] %s (%s)\n", mark, box.Label, box.ID)
		}
	}

	if page.Error != "" {
		buf.WriteString("\n")
		buf.WriteString(r.ErrorLine(page.Error))
		buf.WriteString("\n")
	}
	if page.Results != nil {
		buf.WriteString("\n")
		buf.WriteString(r.Results(page.Locale, *page.Results))
	}
	return buf.Bytes(), nil
}

// ErrorLine formats an error message with the theme prefix.
func (r *TextRenderer) ErrorLine(msg string) string {
	return r.theme.ErrorPrefix + msg
}

// Results formats the results table followed by the evidence list.
func (r *TextRenderer) Results(locale string, results view.Results) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(results.Table.Headers)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	for _, row := range results.Table.Rows {
		table.Append([]string{row.Country, row.Probability, row.Score})
	}
	table.Render()

	buf.WriteString("\n")
	buf.WriteString(render.Text(r.translator, locale, render.KeyPageEvidence))
	buf.WriteString(":\n")
	for _, item := range results.Evidence {
		fmt.Fprintf(&buf, "  - %s\n", strings.TrimSpace(item.Text))
	}
	return buf.String()
}
