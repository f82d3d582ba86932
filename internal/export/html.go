package export

import (
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/piwi3910/labelsheet/internal/model"
)

// cssPx formats a length in mm as CSS pixels at the reference density.
func cssPx(mm float64) string {
	v := float64(int64(model.MmToPx(mm, model.ScreenDPI)*100+0.5)) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

func cssNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// justify maps a text alignment to a flexbox justify-content value.
func justify(align string) string {
	switch align {
	case "left":
		return "flex-start"
	case "right":
		return "flex-end"
	default:
		return "center"
	}
}

// LabelStyle returns the inline CSS that places and styles one label.
func LabelStyle(label model.PlacedLabel, cfg model.PageConfig) string {
	fontSize := OptimalFontSize(label.Text, label.Dimensions.Width, label.Dimensions.Height, cfg.FontSize)
	decls := []string{
		"position: absolute",
		"left: " + cssPx(label.Position.X),
		"top: " + cssPx(label.Position.Y),
		"width: " + cssPx(label.Dimensions.Width),
		"height: " + cssPx(label.Dimensions.Height),
		"font-size: " + cssNum(fontSize) + "pt",
		"font-family: " + cfg.FontFamily + ", sans-serif",
		"font-weight: " + cfg.FontWeight,
		"color: " + normalizeHex(cfg.TextColor),
		"background-color: " + normalizeHex(cfg.BackgroundColor),
		"border: " + cssNum(cfg.BorderWidth) + "px solid " + normalizeHex(cfg.BorderColor),
		"display: flex",
		"align-items: center",
		"justify-content: " + justify(cfg.TextAlign),
		"text-align: " + cfg.TextAlign,
		"padding: 2px",
		"box-sizing: border-box",
		"overflow: hidden",
		"white-space: nowrap",
	}
	if cfg.Code == model.CodeCode128 {
		decls = append(decls, "flex-direction: column")
	}
	return strings.Join(decls, "; ")
}

// PageStyle returns the inline CSS of one printed sheet.
func PageStyle(cfg model.PageConfig) string {
	return strings.Join([]string{
		"position: relative",
		"width: " + cssPx(cfg.PageWidth),
		"height: " + cssPx(cfg.PageHeight),
		"background: #ffffff",
		"overflow: hidden",
	}, "; ")
}

// printCSS sets the physical page size so the browser prints 1:1.
func printCSS(cfg model.PageConfig) string {
	return fmt.Sprintf(`@page { size: %smm %smm; margin: 0; }
body { margin: 0; }
.page { page-break-after: always; }
.page:last-child { page-break-after: auto; }
.label img { max-height: 100%%; max-width: 50%%; }
`, cssNum(cfg.PageWidth), cssNum(cfg.PageHeight))
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// ExportPrintHTML writes the print document to path.
func ExportPrintHTML(path string, pages []model.Page, cfg model.PageConfig) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create HTML file: %w", err)
	}
	if err := WritePrintHTML(f, pages, cfg); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}
	slog.Info("exported print HTML", "path", path, "pages", len(pages))
	return nil
}

// WritePrintHTML renders a self-contained HTML document with one absolutely
// positioned element per label, ready for the browser's print dialog.
func WritePrintHTML(w io.Writer, pages []model.Page, cfg model.PageConfig) error {
	if len(pages) == 0 {
		return ErrNoPages
	}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	root := element(atom.Html)
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, "charset", "utf-8"))
	title := element(atom.Title)
	title.AppendChild(text("Labels"))
	head.AppendChild(title)
	style := element(atom.Style)
	style.AppendChild(text(printCSS(cfg)))
	head.AppendChild(style)
	root.AppendChild(head)

	body := element(atom.Body)
	root.AppendChild(body)
	for _, page := range pages {
		pageNode := element(atom.Div,
			"class", "page",
			"data-page", strconv.Itoa(page.PageIndex+1),
			"style", PageStyle(cfg))
		for _, label := range page.Labels {
			labelNode, err := labelElement(label, cfg)
			if err != nil {
				return err
			}
			pageNode.AppendChild(labelNode)
		}
		body.AppendChild(pageNode)
	}

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}
	return nil
}

func labelElement(label model.PlacedLabel, cfg model.PageConfig) (*html.Node, error) {
	n := element(atom.Div,
		"class", "label",
		"id", label.ID,
		"data-item", label.SourceItemID,
		"style", LabelStyle(label, cfg))

	span := element(atom.Span)
	span.AppendChild(text(label.Text))
	n.AppendChild(span)

	code, err := encodeCode(cfg.Code, label.Text)
	if err != nil {
		return nil, fmt.Errorf("label %s: %w", label.ID, err)
	}
	if code != nil {
		n.AppendChild(element(atom.Img,
			"alt", string(cfg.Code),
			"src", "data:image/png;base64,"+base64.StdEncoding.EncodeToString(code)))
	}
	return n, nil
}
