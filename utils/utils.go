package utils

import (
	"fmt"
	"github.com/janeczku/go-spinner"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"
)

var mediaClient = &http.Client{Timeout: 60 * time.Second}

func GetMedia(imgURL string) (_ []byte, contentType string, filename string, err error) {
	// Split image url to get host and file name
	parsedURL, err := url.Parse(imgURL)
	if err != nil {
		return nil, "", "", fmt.Errorf("malformed url: %s", err)
	}

	// Get file name
	name := path.Base(parsedURL.Path)
	if name == "." || name == "/" {
		name = "image"
	}

	spin := spinner.StartNew(fmt.Sprintf("Getting image `%s`", name))
	defer func() {
		spin.Stop()
		if err != nil {
			fmt.Printf("❌ Getting image `%s`: %s\n", name, err)
		} else {
			fmt.Printf("✔ Getting image `%s`: Completed\n", name)
		}
	}()

	resp, err := mediaClient.Get(imgURL)
	if err != nil {
		return nil, "", "", fmt.Errorf("couldn't download image: %s", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", "", fmt.Errorf("couldn't download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", "", fmt.Errorf("couldn't download image: %s", err)
	}

	contentType = resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = ContentTypeFromPath(name)
	}
	return data, contentType, name, nil
}

func ContentTypeFromPath(p string) string {
	ext := filepath.Ext(p)
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType
	}
	// Unknown image extensions become image/<ext>, like the upload endpoint expects
	if ext != "" {
		return "image/" + strings.TrimPrefix(strings.ToLower(ext), ".")
	}
	return "application/octet-stream"
}
