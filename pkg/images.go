package pkg

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// ExtractImages renders content to HTML and returns every image source in
// document order, duplicates included. Raw <img> tags pass through the
// renderer, so they are picked up alongside Markdown image syntax.
func ExtractImages(content string) ([]string, error) {
	// Parser state is single-use; build a fresh one per call.
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	rendered := markdown.ToHTML([]byte(content), p, renderer)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rendered))
	if err != nil {
		return nil, fmt.Errorf("scan rendered markdown: %w", err)
	}

	var images []string
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		if src, ok := sel.Attr("src"); ok && src != "" {
			images = append(images, src)
		}
	})
	return images, nil
}

// ResolveImagePath joins a relative reference against the source file's
// directory. Remote sources and absolute paths pass through untouched.
func ResolveImagePath(baseDir, src string) string {
	if IsRemoteImage(src) || filepath.IsAbs(src) {
		return src
	}
	return filepath.Clean(filepath.Join(baseDir, src))
}

func IsRemoteImage(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "//") ||
		strings.HasPrefix(lower, "data:")
}

// RewriteImages substitutes the uploaded URLs into content in one pass.
func RewriteImages(content string, uploaded map[string]string) string {
	if len(uploaded) == 0 {
		return content
	}

	// Longer references first, so a path that prefixes another can never
	// clobber it. Replacer matches earlier arguments first.
	olds := make([]string, 0, len(uploaded))
	for old := range uploaded {
		olds = append(olds, old)
	}
	sort.Slice(olds, func(i, j int) bool {
		if len(olds[i]) != len(olds[j]) {
			return len(olds[i]) > len(olds[j])
		}
		return olds[i] < olds[j]
	})

	pairs := make([]string, 0, 2*len(olds))
	for _, old := range olds {
		pairs = append(pairs, old, uploaded[old])
	}
	return strings.NewReplacer(pairs...).Replace(content)
}
