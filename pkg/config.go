package pkg

import (
	"errors"
	"os"

	"github.com/joho/godotenv"

	"github.com/rxrw/markdown-medium/platforms"
)

const TokenFile = "config/token.config"

const TokenKey = "MEDIUM_AUTH_TOKEN"

const SocialsFile = "config/socials.md"

var ErrTokenMissing = errors.New("Medium Token not found: set " + TokenKey + " or add it to " + TokenFile)

type BlogConfig struct {
	Token   string
	BaseURL string `usage:"Medium API host, overridable for tests."`

	PostFile string `usage:"Path to a single Markdown file to upload."`
	ListFile string `usage:"Path of a file listing Markdown files to upload, one per line."`

	Status       string `usage:"Publish status: public, unlisted or draft."`
	WithFooter   bool   `usage:"Append the socials footer to the post content."`
	MirrorRemote bool   `usage:"Re-upload remote images to the platform CDN."`
	DryRun       bool   `usage:"Build and print the payload without publishing."`

	FooterFile string `usage:"Markdown fragment appended when WithFooter is set."`
}

func (c *BlogConfig) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = platforms.DefaultBaseURL
	}
	if c.Status == "" {
		c.Status = platforms.PostStatusDraft
	}
	if c.FooterFile == "" {
		c.FooterFile = SocialsFile
	}
}

// LoadToken checks the process environment first, then the dotenv file.
func LoadToken(path string) (string, error) {
	if token := os.Getenv(TokenKey); token != "" {
		return token, nil
	}
	// Read returns a map; the process environment stays untouched.
	if env, err := godotenv.Read(path); err == nil {
		if token := env[TokenKey]; token != "" {
			return token, nil
		}
	}
	return "", ErrTokenMissing
}
