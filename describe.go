package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// descriptionPolicy is the allowlist every piece of remote rich text must
// pass through before rendering. Platform HTML is untrusted input.
func descriptionPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "strong", "em", "b", "i", "u", "code", "pre",
		"ul", "ol", "li", "sup", "sub", "img",
		"table", "thead", "tbody", "tr", "th", "td",
		"hr", "h1", "h2", "h3", "h4", "span", "div", "font",
	)
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	p.AllowAttrs("class").OnElements("span", "div", "code", "pre")
	p.AllowURLSchemes("https")
	return p
}

var (
	htmlPolicy = descriptionPolicy()
	textPolicy = bluemonday.StrictPolicy()
)

// sanitizeText strips every tag; used for scalar fields interpolated into
// the panel (title, difficulty, ids).
func sanitizeText(s string) string {
	return strings.TrimSpace(textPolicy.Sanitize(s))
}

var allowedDifficulties = map[string]bool{"easy": true, "medium": true, "hard": true}

func safeDifficulty(difficulty string) string {
	lower := strings.ToLower(strings.TrimSpace(difficulty))
	if allowedDifficulties[lower] {
		return lower
	}
	return "unknown"
}

// renderProblemMarkdown produces the Markdown document shown in the
// description panel.
func renderProblemMarkdown(detail *questionDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s. %s\n\n", sanitizeText(detail.QuestionID), sanitizeText(detail.Title))
	fmt.Fprintf(&b, "**Difficulty:** %s\n\n---\n\n", safeDifficulty(detail.Difficulty))
	b.WriteString(htmlToMarkdown(htmlPolicy.Sanitize(detail.Content)))
	return b.String()
}

var collapseSpaces = regexp.MustCompile(`[ \t\r\n]+`)

type markdownConverter struct {
	b         strings.Builder
	listDepth int
	ordered   []bool
	counters  []int
	inPre     bool
}

// htmlToMarkdown converts sanitized description HTML into Markdown for
// the glamour renderer. Input must already have passed the sanitizer.
func htmlToMarkdown(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	conv := &markdownConverter{}
	conv.walk(doc)
	out := conv.b.String()
	out = regexp.MustCompile(`\n{3,}`).ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out) + "\n"
}

func (c *markdownConverter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if c.inPre {
			c.b.WriteString(n.Data)
		} else {
			c.b.WriteString(collapseSpaces.ReplaceAllString(n.Data, " "))
		}
		return
	case html.ElementNode:
		c.element(n)
		return
	}
	c.walkChildren(n)
}

func (c *markdownConverter) walkChildren(n *html.Node) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.walk(child)
	}
}

func (c *markdownConverter) element(n *html.Node) {
	switch n.Data {
	case "p", "div":
		c.walkChildren(n)
		c.b.WriteString("\n\n")
	case "br":
		c.b.WriteString("\n")
	case "hr":
		c.b.WriteString("\n\n---\n\n")
	case "strong", "b":
		c.b.WriteString("**")
		c.walkChildren(n)
		c.b.WriteString("**")
	case "em", "i":
		c.b.WriteString("*")
		c.walkChildren(n)
		c.b.WriteString("*")
	case "code":
		if c.inPre {
			c.walkChildren(n)
			return
		}
		c.b.WriteString("`")
		c.walkChildren(n)
		c.b.WriteString("`")
	case "pre":
		c.b.WriteString("\n\n```\n")
		c.inPre = true
		c.walkChildren(n)
		c.inPre = false
		if !strings.HasSuffix(c.b.String(), "\n") {
			c.b.WriteString("\n")
		}
		c.b.WriteString("```\n\n")
	case "h1", "h2", "h3", "h4":
		level := int(n.Data[1] - '0')
		c.b.WriteString("\n\n" + strings.Repeat("#", level) + " ")
		c.walkChildren(n)
		c.b.WriteString("\n\n")
	case "ul", "ol":
		c.listDepth++
		c.ordered = append(c.ordered, n.Data == "ol")
		c.counters = append(c.counters, 0)
		c.walkChildren(n)
		c.ordered = c.ordered[:len(c.ordered)-1]
		c.counters = c.counters[:len(c.counters)-1]
		c.listDepth--
		if c.listDepth == 0 {
			c.b.WriteString("\n")
		}
	case "li":
		indent := strings.Repeat("  ", maxInt(c.listDepth-1, 0))
		marker := "-"
		if len(c.ordered) > 0 && c.ordered[len(c.ordered)-1] {
			c.counters[len(c.counters)-1]++
			marker = fmt.Sprintf("%d.", c.counters[len(c.counters)-1])
		}
		c.b.WriteString("\n" + indent + marker + " ")
		c.walkChildren(n)
	case "img":
		alt, src := attrValue(n, "alt"), attrValue(n, "src")
		if src != "" {
			fmt.Fprintf(&c.b, "![%s](%s)", alt, src)
		}
	case "table":
		c.b.WriteString("\n\n")
		c.table(n)
		c.b.WriteString("\n")
	case "sup":
		c.b.WriteString("^")
		c.walkChildren(n)
	default:
		c.walkChildren(n)
	}
}

func (c *markdownConverter) table(n *html.Node) {
	headerDone := false
	var visitRows func(*html.Node)
	visitRows = func(node *html.Node) {
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.ElementNode {
				continue
			}
			if child.Data == "tr" {
				cells := collectCells(child)
				c.b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
				if !headerDone {
					headerDone = true
					c.b.WriteString("|" + strings.Repeat(" --- |", len(cells)) + "\n")
				}
				continue
			}
			visitRows(child)
		}
	}
	visitRows(n)
}

func collectCells(tr *html.Node) []string {
	var cells []string
	for cell := tr.FirstChild; cell != nil; cell = cell.NextSibling {
		if cell.Type != html.ElementNode || (cell.Data != "td" && cell.Data != "th") {
			continue
		}
		sub := &markdownConverter{}
		sub.walkChildren(cell)
		cells = append(cells, strings.TrimSpace(sub.b.String()))
	}
	return cells
}

func attrValue(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
