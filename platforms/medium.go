package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultBaseURL = "https://api.medium.com"

const defaultTimeout = 60 * time.Second

const ContentFormatMarkdown = "markdown"

const (
	PostStatusPublic   = "public"
	PostStatusUnlisted = "unlisted"
	PostStatusDraft    = "draft"
)

func ValidPostStatus(status string) bool {
	switch status {
	case PostStatusPublic, PostStatusUnlisted, PostStatusDraft:
		return true
	}
	return false
}

type Post struct {
	Title         string   `json:"title"`
	Tags          []string `json:"tags,omitempty"` // Medium recommends at most five but does not reject more
	PublishStatus string   `json:"publishStatus"`
	Content       string   `json:"content"`
	ContentFormat string   `json:"contentFormat"`
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	URL      string `json:"url"`
}

type PostResult struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PublishStatus string `json:"publishStatus"`
}

type Config struct {
	Token   string
	BaseURL string        // defaults to DefaultBaseURL
	Timeout time.Duration // per-call deadline, defaults to 60s
	Logger  *logrus.Logger
}

type Medium struct {
	baseURL string
	token   string
	client  *http.Client
	log     *logrus.Logger
}

func NewMedium(config Config) *Medium {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	if config.Logger == nil {
		config.Logger = logrus.New()
	}

	return &Medium{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		token:   config.Token,
		client:  &http.Client{Timeout: config.Timeout},
		log:     config.Logger,
	}
}

// Medium's edge rejects bare library user agents, so every call carries a
// browser-like header set. Accept-Encoding is left alone so net/http
// handles gzip itself.
func (m *Medium) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/120.0")
	req.Header.Set("Authorization", "Bearer "+m.token)
}

func (m *Medium) Me(ctx context.Context) (User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/v1/me", nil)
	if err != nil {
		return User{}, fmt.Errorf("fetch author id: %w", err)
	}
	m.setHeaders(req)

	resp, err := m.client.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("fetch author id: %w", err)
	}
	defer resp.Body.Close()

	m.log.WithField("status", resp.StatusCode).Debug("Author Id Fetch")

	if resp.StatusCode != http.StatusOK {
		return User{}, fmt.Errorf("fetch author id: unexpected status %d", resp.StatusCode)
	}

	var out struct {
		Data User `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return User{}, fmt.Errorf("decode author response: %w", err)
	}
	return out.Data, nil
}

// UploadImage pushes one image to the Medium CDN and returns its hosted URL.
func (m *Medium) UploadImage(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	// CreateFormFile would hardcode application/octet-stream; the upload
	// endpoint wants the real image type on the part.
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, escapeQuotes(filename)))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("upload image %s: %w", filename, err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("upload image %s: %w", filename, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("upload image %s: %w", filename, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v1/images", &buf)
	if err != nil {
		return "", fmt.Errorf("upload image %s: %w", filename, err)
	}
	m.setHeaders(req)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload image %s: %w", filename, err)
	}
	defer resp.Body.Close()

	m.log.WithFields(logrus.Fields{
		"image":  filename,
		"status": resp.StatusCode,
	}).Debug("Image Upload")

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("upload image %s: unexpected status %d", filename, resp.StatusCode)
	}

	var out struct {
		Data struct {
			URL string `json:"url"`
			MD5 string `json:"md5"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode image response: %w", err)
	}
	return out.Data.URL, nil
}

func (m *Medium) CreatePost(ctx context.Context, authorID string, post Post) (PostResult, error) {
	payload, err := json.Marshal(post)
	if err != nil {
		return PostResult{}, fmt.Errorf("encode post payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/users/%s/posts", m.baseURL, url.PathEscape(authorID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return PostResult{}, fmt.Errorf("publish post: %w", err)
	}
	m.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return PostResult{}, fmt.Errorf("publish post: %w", err)
	}
	defer resp.Body.Close()

	m.log.WithField("status", resp.StatusCode).Debug("Publish Post")

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return PostResult{}, fmt.Errorf("publish post: unexpected status %d", resp.StatusCode)
	}

	var out struct {
		Data PostResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return PostResult{}, fmt.Errorf("decode post response: %w", err)
	}
	return out.Data, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
