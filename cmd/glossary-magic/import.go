package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aldo555/glossary-magic/commands"
	markdowncmd "github.com/aldo555/glossary-magic/internal/commands/markdown"
	"github.com/aldo555/glossary-magic/internal/di"
)

type importOptions struct {
	root     string
	articles string
	connect  bool
	dryRun   bool
}

func newImportCommand(a *app) *cobra.Command {
	opts := &importOptions{}
	cmd := &cobra.Command{
		Use:   "import <vocabulary.yaml>",
		Short: "Import a vocabulary, and optionally articles, into the configured store",
		Long: `Import the categories and terms of a vocabulary file into the configured
database. With --articles every markdown article under the directory is
stored too, and --connect records the terms each article links to.
Paths are relative to --root.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runImport(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.root, "root", ".", "directory the vocabulary and article paths are relative to")
	cmd.Flags().StringVar(&opts.articles, "articles", "", "directory of markdown articles to import")
	cmd.Flags().BoolVar(&opts.connect, "connect", false, "connect every imported article to the terms it links to")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "discover articles without storing them")
	return cmd
}

func (a *app) runImport(cmd *cobra.Command, vocabularyPath string, opts *importOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	cfg.Features.Storage = true
	cfg.Features.Commands = true
	cfg.Features.Markdown = true

	files, err := rootFS(opts.root)
	if err != nil {
		return err
	}
	module, err := a.newModule(cfg, di.WithFS(files))
	if err != nil {
		return err
	}
	defer module.Close()

	registration, err := commands.RegisterContainerCommands(module.Container(), commands.RegistrationOptions{})
	if err != nil {
		return err
	}
	var (
		vocabulary *markdowncmd.ImportVocabularyHandler
		articles   *markdowncmd.ImportArticlesHandler
	)
	for _, handler := range registration.Handlers {
		switch h := handler.(type) {
		case *markdowncmd.ImportVocabularyHandler:
			vocabulary = h
		case *markdowncmd.ImportArticlesHandler:
			articles = h
		}
	}
	if vocabulary == nil || articles == nil {
		return fmt.Errorf("markdown import handlers are not registered")
	}

	ctx := cmd.Context()
	if err := vocabulary.Execute(ctx, markdowncmd.ImportVocabularyCommand{Path: vocabularyPath}); err != nil {
		return fmt.Errorf("import vocabulary: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported vocabulary %s\n", vocabularyPath)

	if opts.articles == "" {
		return nil
	}
	msg := markdowncmd.ImportArticlesCommand{
		Directory: opts.articles,
		Connect:   opts.connect,
		DryRun:    opts.dryRun,
	}
	if err := articles.Execute(ctx, msg); err != nil {
		return fmt.Errorf("import articles: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported articles from %s\n", opts.articles)
	return nil
}
