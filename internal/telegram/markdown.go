package telegram

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/russross/blackfriday"
	"golang.org/x/net/html"
)

// Telegram's HTML parse mode accepts only a small tag set; everything else
// must be unwrapped or rewritten before sending.
var allowedTags = map[string]string{
	"b": "b", "strong": "b",
	"i": "i", "em": "i",
	"u": "u",
	"s": "s", "del": "s", "strike": "s",
	"code": "code",
	"pre":  "pre",
}

// RenderHTML converts model-produced markdown into Telegram-safe HTML.
// Unsupported structure (headings, lists, paragraphs) is flattened into
// plain text with line breaks.
func RenderHTML(markdown string) string {
	rendered := blackfriday.MarkdownCommon([]byte(markdown))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(rendered)))
	if err != nil {
		return markdown
	}
	var b strings.Builder
	doc.Find("body").Each(func(_ int, sel *goquery.Selection) {
		for _, n := range sel.Nodes {
			for child := n.FirstChild; child != nil; child = child.NextSibling {
				renderNode(&b, child)
			}
		}
	})
	return strings.TrimSpace(collapseBlankLines(b.String()))
}

func renderNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(html.EscapeString(n.Data))
	case html.ElementNode:
		switch {
		case allowedTags[n.Data] != "":
			tag := allowedTags[n.Data]
			b.WriteString("<" + tag + ">")
			renderChildren(b, n)
			b.WriteString("</" + tag + ">")
		case n.Data == "a":
			href := attrValue(n, "href")
			if href == "" {
				renderChildren(b, n)
				return
			}
			b.WriteString(`<a href="` + html.EscapeString(href) + `">`)
			renderChildren(b, n)
			b.WriteString("</a>")
		case n.Data == "br":
			b.WriteString("\n")
		case n.Data == "p" || n.Data == "div" || n.Data == "ul" || n.Data == "ol" || n.Data == "blockquote":
			renderChildren(b, n)
			b.WriteString("\n\n")
		case n.Data == "li":
			b.WriteString("• ")
			renderChildren(b, n)
			b.WriteString("\n")
		case len(n.Data) == 2 && n.Data[0] == 'h' && n.Data[1] >= '1' && n.Data[1] <= '6':
			b.WriteString("<b>")
			renderChildren(b, n)
			b.WriteString("</b>\n\n")
		default:
			renderChildren(b, n)
		}
	}
}

func renderChildren(b *strings.Builder, n *html.Node) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		renderNode(b, child)
	}
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func collapseBlankLines(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}

// SplitMessage splits a message into chunks of maxLen runes, preferring to
// split at newlines when one falls in the second half of the chunk.
func SplitMessage(text string, maxLen int) []string {
	if utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	for len(text) > 0 {
		if utf8.RuneCountInString(text) <= maxLen {
			parts = append(parts, text)
			break
		}

		runes := []rune(text)
		splitAt := maxLen

		chunk := string(runes[:maxLen])
		if lastNewline := strings.LastIndex(chunk, "\n"); lastNewline > len(chunk)/2 {
			splitAt = utf8.RuneCountInString(chunk[:lastNewline]) + 1
		}

		parts = append(parts, string(runes[:splitAt]))
		text = string(runes[splitAt:])
	}

	return parts
}
