// Package parser limpa o conteúdo colado pelo usuário antes da extração.
package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	htmlTagPattern = regexp.MustCompile(`(?i)<\s*(html|body|div|p|span|a|br|table|section|article|meta|script)\b`)
	blankLines     = regexp.MustCompile(`\n{3,}`)
	spaceRuns      = regexp.MustCompile(`[ \t\f\r]+`)
)

// HTMLCleaner converte HTML colado de uma página em texto simples. Texto puro passa intacto.
type HTMLCleaner struct{}

func NewHTMLCleaner() *HTMLCleaner {
	return &HTMLCleaner{}
}

func LooksLikeHTML(s string) bool {
	return htmlTagPattern.MatchString(s)
}

func (c *HTMLCleaner) PlainText(s string) string {
	if !LooksLikeHTML(s) {
		return s
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}

	doc.Find("script, style, noscript, head").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, tr, h1, h2, h3, h4, section, article").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})

	// tel: links costumam trazer o número limpo mesmo quando o texto visível é um botão
	var phones []string
	doc.Find(`a[href^="tel:"]`).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		phones = append(phones, strings.TrimPrefix(href, "tel:"))
	})

	text := doc.Text()
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRuns.ReplaceAllString(line, " "))
	}
	text = blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	text = strings.TrimSpace(text)

	for _, p := range phones {
		if p != "" && !strings.Contains(text, p) {
			text += "\n" + p
		}
	}
	return text
}
