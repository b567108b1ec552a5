package normalize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// ExtractText pulls the readable body text out of an HTML document,
// dropping script/style noise, the same goquery shape the teacher uses to
// prepare page content for its analyzer prompt (internal/driven/analyzer.go
// prepareContentForLLM), generalized here to feed the evidence snippet
// rather than an LLM prompt.
func ExtractText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style, nav, footer, aside").Remove()
	text := doc.Find("body").Text()
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}

// ExtractTitle returns the document's <title>, falling back to the first
// <h1> when no title tag is present.
func ExtractTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

// ExtractJSONLD returns the raw contents of every <script
// type="application/ld+json"> block, used by the content-fetch pass
// (titleFromJSONLD) to pull a headline or name; dates and authors are not
// read from it.
func ExtractJSONLD(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	var blocks []string
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		if txt := strings.TrimSpace(s.Text()); txt != "" {
			blocks = append(blocks, txt)
		}
	})
	return blocks
}

// MetaContent returns the content attribute of the first meta tag matching
// name (checked against both name= and property= attributes, so og:*
// tags resolve the same way as plain meta names).
func MetaContent(html, name string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	sel := doc.Find(`meta[name="` + name + `"]`)
	if sel.Length() == 0 {
		sel = doc.Find(`meta[property="` + name + `"]`)
	}
	content, _ := sel.First().Attr("content")
	return content
}

// CitationPDFURL looks for the citation_pdf_url meta tag many scholarly
// publishers expose, the rung of the paywall resolution ladder tried after
// the Unpaywall lookup.
func CitationPDFURL(html string) string {
	return MetaContent(html, "citation_pdf_url")
}

// StripHTML removes inline markup (the <b> highlight tags several search
// APIs wrap around matched terms in a snippet) and collapses whitespace,
// leaving plain text fit for display as a representative claim.
func StripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
	}
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(doc.Text(), " "))
}
