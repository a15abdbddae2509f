package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	glossarymagic "github.com/aldo555/glossary-magic"
	"github.com/aldo555/glossary-magic/internal/di"
	"github.com/aldo555/glossary-magic/internal/markdown"
	"github.com/aldo555/glossary-magic/internal/runtimeconfig"
)

// app carries the global flags and output streams shared by every command.
type app struct {
	cfgFile string
	stdout  io.Writer
	stderr  io.Writer

	// newModule builds the runtime; tests swap it to inject options.
	newModule func(cfg runtimeconfig.Config, opts ...di.Option) (*glossarymagic.Module, error)
}

func newApp() *app {
	return &app{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		newModule: glossarymagic.New,
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "glossary-magic",
		Short: "Link glossary terms inside markdown articles",
		Long: `glossary-magic turns the first mention of every glossary word in an
article into a link to the glossary page, and tracks which terms each
article links to.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (yaml, json or toml); GLOSSARY_* env vars override it")

	root.AddCommand(newLinkCommand(a))
	root.AddCommand(newConnectedCommand(a))
	root.AddCommand(newImportCommand(a))
	root.AddCommand(newServeCommand(a))
	return root
}

func (a *app) loadConfig() (runtimeconfig.Config, error) {
	return runtimeconfig.Load(runtimeconfig.LoadOptions{ConfigFile: a.cfgFile})
}

func readVocabulary(path string) (*markdown.VocabularyFile, error) {
	if path == "" {
		return nil, fmt.Errorf("--vocabulary is required")
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return markdown.LoadVocabulary(source)
}

func readArticle(path string) (*markdown.ArticleDocument, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := markdown.ParseArticle(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// rootFS opens dir for the markdown loader.
func rootFS(dir string) (fs.FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return os.DirFS(abs), nil
}
