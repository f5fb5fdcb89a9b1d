package pkg

import (
	"fmt"
	"os"

	"github.com/adrg/frontmatter"
)

type FrontMatter struct {
	Title       string   `yaml:"title" toml:"title"`
	Description string   `yaml:"description" toml:"description"`
	Tags        []string `yaml:"tags" toml:"tags"`
	Image       string   `yaml:"image" toml:"image"`
}

// ReadMarkdownFile splits a post file into front-matter and body. A file
// without a front-matter block yields zero metadata and the full content.
func ReadMarkdownFile(path string) (FrontMatter, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return FrontMatter{}, "", fmt.Errorf("read markdown file: %w", err)
	}
	defer file.Close()

	var meta FrontMatter
	body, err := frontmatter.Parse(file, &meta)
	if err != nil {
		return FrontMatter{}, "", fmt.Errorf("parse front matter of %s: %w", path, err)
	}
	return meta, string(body), nil
}
