package export

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const mdExtensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock

// parseMarkdown parses sticky note content. A parser cannot be reused, so
// every call gets a fresh one.
func parseMarkdown(src string) ast.Node {
	return parser.NewWithExtensions(mdExtensions).Parse([]byte(src))
}

// StickyHTML renders note content to an HTML fragment. Raw HTML in the
// content is dropped.
func StickyHTML(src string) string {
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.SkipHTML | html.HrefTargetBlank,
	})
	return string(markdown.Render(parseMarkdown(src), renderer))
}

// StickyPlainText flattens note content to text lines: markup is removed,
// list items become "- " lines and every block starts on a new line.
func StickyPlainText(src string) string {
	var b strings.Builder
	newline := func() {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
		}
	}
	ast.WalkFunc(parseMarkdown(src), func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.Text:
			if entering {
				b.Write(n.Literal)
			}
		case *ast.Code:
			if entering {
				b.Write(n.Literal)
			}
		case *ast.CodeBlock:
			if entering {
				newline()
				b.Write(n.Literal)
			}
		case *ast.Softbreak, *ast.Hardbreak:
			if entering {
				b.WriteByte('\n')
			}
		case *ast.ListItem:
			if entering {
				newline()
				b.WriteString("- ")
			} else {
				newline()
			}
		case *ast.Paragraph, *ast.Heading:
			if !entering {
				newline()
			}
		}
		return ast.GoToNext
	})
	return strings.TrimSpace(b.String())
}
