package pkg

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rxrw/markdown-medium/platforms"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type PayloadOptions struct {
	Path   string // source file path, used as the title fallback
	Status string
	Footer string // already loaded socials fragment, empty for none
}

// NormalizeTags turns hyphens into spaces, trims and title-cases each tag.
// Order and duplicates are kept; normalizing twice changes nothing.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	// A Caser is stateful, so it cannot live in a package var.
	caser := cases.Title(language.English)
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ReplaceAll(tag, "-", " ")
		tag = strings.TrimSpace(tag)
		normalized = append(normalized, caser.String(tag))
	}
	return normalized
}

// BuildPayload assembles the post-creation request for one source file:
// an H1 of the title (front-matter, else the file's base name), then the
// description and banner lines when present, then the body and footer.
func BuildPayload(meta FrontMatter, body string, opts PayloadOptions) platforms.Post {
	post := platforms.Post{
		PublishStatus: opts.Status,
		ContentFormat: platforms.ContentFormatMarkdown,
	}

	post.Title = meta.Title
	if post.Title == "" {
		post.Title = filepath.Base(opts.Path)
	}
	post.Tags = NormalizeTags(meta.Tags)

	var content strings.Builder
	fmt.Fprintf(&content, "# %s\n\n", post.Title)
	if meta.Description != "" {
		fmt.Fprintf(&content, "%s\n\n", meta.Description)
	}
	if meta.Image != "" {
		name := strings.TrimSuffix(filepath.Base(meta.Image), filepath.Ext(meta.Image))
		fmt.Fprintf(&content, "![%s](%s)\n\n", name, meta.Image)
	}
	content.WriteString(body)
	if opts.Footer != "" {
		content.WriteString("\n\n")
		content.WriteString(opts.Footer)
	}

	post.Content = content.String()
	return post
}
