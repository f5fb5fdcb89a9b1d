package internal

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rxrw/markdown-medium/pkg"
	"github.com/rxrw/markdown-medium/platforms"
	"github.com/rxrw/markdown-medium/utils"

	"github.com/fatih/color"
	"github.com/janeczku/go-spinner"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

var (
	colorInfo    = color.New(color.FgHiYellow)
	colorSuccess = color.New(color.FgHiGreen)
	colorFailure = color.New(color.FgHiRed)
)

// ParseAndPublish publishes every configured file, one at a time. A failing
// article never stops the ones after it; the failures come back aggregated
// so the process can exit non-zero.
func ParseAndPublish(config pkg.BlogConfig, log *logrus.Logger) error {
	config.SetDefaults()

	mediumClient := platforms.NewMedium(platforms.Config{
		Token:   config.Token,
		BaseURL: config.BaseURL,
		Logger:  log,
	})

	files, err := collectFiles(config)
	if err != nil {
		return err
	}

	var errs error
	for i, file := range files {
		if len(files) > 1 {
			fmt.Printf("-- Article [%d/%d] --\n", i+1, len(files))
		}

		if config.DryRun {
			if err := previewFile(file, config); err != nil {
				colorFailure.Printf("Error: Failed to Build Article: %s\n", err)
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", file, err))
			}
			continue
		}

		postURL, err := publishFile(mediumClient, file, config, log)
		if err != nil {
			colorFailure.Printf("Error: Failed to Post Article: %s\n", err)
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", file, err))
			continue
		}
		colorSuccess.Println(postURL)
	}

	return errs
}

func collectFiles(config pkg.BlogConfig) ([]string, error) {
	if config.PostFile != "" {
		return []string{config.PostFile}, nil
	}

	listFile, err := os.Open(config.ListFile)
	if err != nil {
		return nil, fmt.Errorf("read post list: %w", err)
	}
	defer listFile.Close()

	var files []string
	scanner := bufio.NewScanner(listFile)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		files = append(files, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read post list: %w", err)
	}
	return files, nil
}

func publishFile(mediumClient *platforms.Medium, file string, config pkg.BlogConfig, log *logrus.Logger) (string, error) {
	ctx := context.Background()

	payload, err := buildPayload(file, config)
	if err != nil {
		return "", err
	}

	content, err := uploadImages(ctx, mediumClient, payload.Content, filepath.Dir(file), config, log)
	if err != nil {
		return "", err
	}
	payload.Content = content

	author, err := mediumClient.Me(ctx)
	if err != nil {
		// Without an author id the posts endpoint URL cannot be built.
		return "", err
	}

	result, err := mediumClient.CreatePost(ctx, author.ID, payload)
	if err != nil {
		return "", err
	}
	return result.URL, nil
}

func buildPayload(file string, config pkg.BlogConfig) (platforms.Post, error) {
	meta, body, err := pkg.ReadMarkdownFile(file)
	if err != nil {
		return platforms.Post{}, err
	}
	colorInfo.Println("Reading File Content...")

	opts := pkg.PayloadOptions{Path: file, Status: config.Status}
	if config.WithFooter {
		footer, err := os.ReadFile(config.FooterFile)
		if err != nil {
			return platforms.Post{}, fmt.Errorf("read socials footer: %w", err)
		}
		opts.Footer = string(footer)
	}

	payload := pkg.BuildPayload(meta, body, opts)
	colorInfo.Println("Processing Post Content...")
	return payload, nil
}

// uploadImages re-hosts referenced images on the platform CDN and rewrites
// their URLs. Each distinct reference is uploaded once, in first-appearance
// order. A failed upload keeps the original reference; the post still goes
// out.
func uploadImages(ctx context.Context, mediumClient *platforms.Medium, content, baseDir string, config pkg.BlogConfig, log *logrus.Logger) (string, error) {
	images, err := pkg.ExtractImages(content)
	if err != nil {
		return "", err
	}

	colorInfo.Printf("\nFound %d images to upload...\n", len(images))

	uploaded := make(map[string]string, len(images))
	seen := make(map[string]bool, len(images))
	for _, src := range images {
		if seen[src] {
			continue
		}
		seen[src] = true

		var newURL string
		var uploadErr error
		if pkg.IsRemoteImage(src) {
			if !config.MirrorRemote || !strings.HasPrefix(strings.ToLower(src), "http") {
				log.WithField("image", src).Debug("keeping already hosted image")
				continue
			}
			newURL, uploadErr = mirrorRemoteImage(ctx, mediumClient, src)
		} else {
			newURL, uploadErr = uploadLocalImage(ctx, mediumClient, pkg.ResolveImagePath(baseDir, src))
		}
		if uploadErr != nil {
			log.WithField("image", src).WithError(uploadErr).Warn("keeping original reference")
			continue
		}
		uploaded[src] = newURL
	}

	return pkg.RewriteImages(content, uploaded), nil
}

func uploadLocalImage(ctx context.Context, mediumClient *platforms.Medium, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	return uploadData(ctx, mediumClient, filepath.Base(path), data, utils.ContentTypeFromPath(path))
}

func mirrorRemoteImage(ctx context.Context, mediumClient *platforms.Medium, src string) (string, error) {
	data, contentType, filename, err := utils.GetMedia(src)
	if err != nil {
		return "", err
	}
	return uploadData(ctx, mediumClient, filename, data, contentType)
}

func uploadData(ctx context.Context, mediumClient *platforms.Medium, name string, data []byte, contentType string) (_ string, err error) {
	spin := spinner.StartNew(fmt.Sprintf("Uploading image `%s`", name))
	defer func() {
		spin.Stop()
		if err != nil {
			fmt.Printf("❌ Uploading image `%s`: %s\n", name, err)
		} else {
			fmt.Printf("✔ Uploading image `%s`: Completed\n", name)
		}
	}()

	return mediumClient.UploadImage(ctx, name, data, contentType)
}

// previewFile prints what the publish path would send, without touching the
// network.
func previewFile(file string, config pkg.BlogConfig) error {
	payload, err := buildPayload(file, config)
	if err != nil {
		return err
	}
	images, err := pkg.ExtractImages(payload.Content)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))

	colorInfo.Printf("\nFound %d images to upload...\n", len(images))
	for _, image := range images {
		fmt.Println(" -", image)
	}
	return nil
}
