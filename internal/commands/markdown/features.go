package markdowncmd

import "errors"

// ErrMarkdownFeatureDisabled is returned while the markdown feature is switched off.
var ErrMarkdownFeatureDisabled = errors.New("markdown command: feature disabled")

// FeatureGates lets hosts switch markdown imports off at runtime.
type FeatureGates struct {
	// MarkdownEnabled is consulted on every execution; nil means enabled.
	MarkdownEnabled func() bool
}

func (g FeatureGates) check() error {
	if g.MarkdownEnabled != nil && !g.MarkdownEnabled() {
		return ErrMarkdownFeatureDisabled
	}
	return nil
}
