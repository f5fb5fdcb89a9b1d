package main

import (
	"fmt"
	"os"

	medium_blog "github.com/rxrw/markdown-medium/pkg"

	"github.com/rxrw/markdown-medium/internal"
	"github.com/rxrw/markdown-medium/platforms"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var config medium_blog.BlogConfig

func newRootCmd(log *logrus.Logger) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "markdown-medium",
		Short: "Publish local Markdown files as Medium stories",
		Long: `markdown-medium uploads the images referenced by a Markdown file to the
Medium CDN, rewrites their URLs and publishes the result through the Medium
REST API. Files are processed one by one; a failing article never stops the
rest of the batch.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			if !platforms.ValidPostStatus(config.Status) {
				return fmt.Errorf("invalid status %q: must be one of public, unlisted or draft", config.Status)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := medium_blog.LoadToken(medium_blog.TokenFile)
			if err != nil {
				return err
			}
			config.Token = token

			return internal.ParseAndPublish(config, log)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&config.PostFile, "post", "p", "", "path to the Markdown file to upload")
	flags.StringVarP(&config.ListFile, "list", "l", "", "path of a file containing paths of Markdown files to upload, one per line")
	flags.StringVarP(&config.Status, "status", "s", platforms.PostStatusDraft, "status of the post when published (public, unlisted or draft)")
	flags.BoolVarP(&config.WithFooter, "author", "a", false, "append the socials footer from "+medium_blog.SocialsFile)
	flags.BoolVar(&config.MirrorRemote, "mirror", false, "re-upload remote images to the Medium CDN instead of hot-linking them")
	flags.BoolVar(&config.DryRun, "dry-run", false, "build and print the payload without publishing")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.MarkFlagsMutuallyExclusive("post", "list")
	cmd.MarkFlagsOneRequired("post", "list")

	return cmd
}

func main() {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	if err := newRootCmd(log).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.HiRedString("Error: %s", err))
		os.Exit(1)
	}
}
