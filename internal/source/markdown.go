package source

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Flatten returns the readable text of a markdown document: headings, paragraphs, list items, and code blocks, without markup. Blocks are separated by a blank line, except
// consecutive items of a tight list, which are separated by a single newline. Soft line breaks inside a paragraph become spaces. Raw HTML and thematic breaks are dropped.
func Flatten(src []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var out strings.Builder
	prevTight := false
	add := func(block string, tight bool) {
		block = strings.TrimSpace(block)
		if block == "" {
			return
		}
		if out.Len() > 0 {
			if tight && prevTight {
				out.WriteString("\n")
			} else {
				out.WriteString("\n\n")
			}
		}
		out.WriteString(block)
		prevTight = tight
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph:
			add(inlineText(node, src), false)
			return ast.WalkSkipChildren, nil
		case *ast.TextBlock:
			add(inlineText(node, src), true)
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			add(blockLines(node, src), false)
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.ThematicBreak:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return out.String()
}

func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.HardLineBreak() {
				buf.Truncate(len(bytes.TrimRight(buf.Bytes(), " \t")))
				buf.WriteByte('\n')
			} else if node.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.AutoLink:
			buf.Write(node.Label(src))
		case *ast.RawHTML:
		default:
			buf.WriteString(inlineText(c, src))
		}
	}
	return buf.String()
}

func blockLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return buf.String()
}
