package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	glossarymagic "github.com/aldo555/glossary-magic"
	"github.com/aldo555/glossary-magic/internal/logging"
	"github.com/aldo555/glossary-magic/internal/markdown"
)

// fallbackCategory is assigned to articles without a category so global
// terms still resolve.
const fallbackCategory = "General"

type linkOptions struct {
	vocabulary string
	write      bool
	html       bool
}

func newLinkCommand(a *app) *cobra.Command {
	opts := &linkOptions{}
	cmd := &cobra.Command{
		Use:   "link <article.md>",
		Short: "Insert glossary links into a markdown article",
		Long: `Link the first mention of every vocabulary word in the article fields.
The linked article is printed unless --write rewrites the file in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLink(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.vocabulary, "vocabulary", "", "vocabulary yaml file")
	cmd.Flags().BoolVar(&opts.write, "write", false, "rewrite the article file in place")
	cmd.Flags().BoolVar(&opts.html, "html", false, "print the linked fields rendered as HTML")
	_ = cmd.MarkFlagRequired("vocabulary")
	return cmd
}

func newConnectedCommand(a *app) *cobra.Command {
	var vocabulary string
	cmd := &cobra.Command{
		Use:   "connected <article.md>",
		Short: "List the glossary words an article already links to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.openWorkspace(cmd, vocabulary, args[0])
			if err != nil {
				return err
			}
			defer session.Close()

			words, err := session.workspace.Connected(cmd.Context(), session.doc)
			if err != nil {
				return err
			}
			for _, word := range words {
				fmt.Fprintln(cmd.OutOrStdout(), word)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&vocabulary, "vocabulary", "", "vocabulary yaml file")
	_ = cmd.MarkFlagRequired("vocabulary")
	return cmd
}

func (a *app) runLink(cmd *cobra.Command, path string, opts *linkOptions) error {
	session, err := a.openWorkspace(cmd, opts.vocabulary, path)
	if err != nil {
		return err
	}
	defer session.Close()

	outcome, err := session.workspace.Link(cmd.Context(), session.doc)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "linked %d word(s): %s\n", len(outcome.Result.UsedWords), strings.Join(outcome.Result.UsedWords, ", "))

	if opts.html {
		renderer := session.module.Container().Renderer()
		rendered, err := renderer.RenderFields(outcome.Document.LinkFields(session.workspace.Fields()))
		if err != nil {
			return err
		}
		for _, field := range rendered {
			fmt.Fprintf(cmd.OutOrStdout(), "<!-- %s -->\n%s", field.Name, field.HTML)
		}
		return nil
	}

	outcome.Document.Category = session.category
	rendered, err := outcome.Document.Render()
	if err != nil {
		return err
	}
	if !opts.write {
		_, err = cmd.OutOrStdout().Write(rendered)
		return err
	}
	if len(outcome.Result.Changes) == 0 {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, rendered, info.Mode().Perm())
}

type workspaceSession struct {
	module    *glossarymagic.Module
	workspace *markdown.Workspace
	doc       *markdown.ArticleDocument
	// category is the article category as written in the file.
	category string
}

func (s *workspaceSession) Close() error {
	return s.module.Close()
}

// openWorkspace loads the vocabulary and the article into an in-memory
// workspace honouring the configured link target and fields.
func (a *app) openWorkspace(cmd *cobra.Command, vocabularyPath, articlePath string) (*workspaceSession, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	vocabulary, err := readVocabulary(vocabularyPath)
	if err != nil {
		return nil, err
	}
	doc, err := readArticle(articlePath)
	if err != nil {
		return nil, err
	}
	category := doc.Category
	if category == "" {
		doc.Category = fallbackCategory
	}

	module, err := a.newModule(cfg)
	if err != nil {
		return nil, err
	}
	logging.CLILogger(module.Container().LoggerProvider()).Debug("cli.workspace.opened",
		"vocabulary", vocabularyPath,
		"article", articlePath,
	)
	workspace, err := module.Container().Workspace(cmd.Context(), vocabulary)
	if err != nil {
		module.Close()
		return nil, err
	}
	return &workspaceSession{module: module, workspace: workspace, doc: doc, category: category}, nil
}
