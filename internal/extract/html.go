package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// FromHTML extracts the text of an HTML export, preferring <main> or
// <article> and falling back to <body>. Block elements and table rows end
// lines so bullets and unit headers keep their own line; table cells are
// joined with " - ".
func FromHTML(input []byte) Document {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return Document{}
	}

	title := strings.TrimSpace(findTitle(node))
	content := findFirst(node, "main")
	if content == nil {
		content = findFirst(node, "article")
	}
	if content == nil {
		content = findFirst(node, "body")
	}
	var b strings.Builder
	if content != nil {
		collectText(&b, content)
	}
	return Document{Title: title, Text: joinLines(b.String())}
}

func findTitle(n *html.Node) string {
	head := findFirst(n, "head")
	if head == nil {
		return ""
	}
	t := findFirst(head, "title")
	if t == nil || t.FirstChild == nil {
		return ""
	}
	return t.FirstChild.Data
}

func findFirst(n *html.Node, tag string) *html.Node {
	var res *html.Node
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if res != nil {
			return
		}
		if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, tag) {
			res = cur
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(n)
	return res
}

func collectText(b *strings.Builder, n *html.Node) {
	var name string
	if n.Type == html.ElementNode {
		name = strings.ToLower(n.Data)
		switch name {
		case "script", "style", "noscript", "nav", "footer", "aside", "iframe", "head":
			return
		case "br", "hr":
			b.WriteString("\n")
		case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6", "tr", "ul", "ol", "table":
			b.WriteString("\n")
		case "li":
			// Keep list items recognizable as bullets downstream.
			b.WriteString("\n- ")
		case "td", "th":
			if hasPrevElement(n) {
				b.WriteString(" - ")
			}
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(n.Data))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
	switch name {
	case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6", "li", "tr":
		b.WriteString("\n")
	}
}

func hasPrevElement(n *html.Node) bool {
	for p := n.PrevSibling; p != nil; p = p.PrevSibling {
		if p.Type == html.ElementNode {
			return true
		}
	}
	return false
}

// joinLines trims each line and drops the empty ones.
func joinLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" && line != "-" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
