package workflows

import (
	"context"
	"os"

	"github.com/ferntree/secrets/internal/audit"
	"github.com/ferntree/secrets/internal/config"
)

// TemplateOptions configures template generation.
type TemplateOptions struct {
	Settings config.Settings

	// Write persists the rendered template next to the store instead of
	// only returning it.
	Write bool
}

// TemplateResult contains the rendered template.
type TemplateResult struct {
	// Content is the template text: the store's keys and comments with
	// every value stripped.
	Content string

	// Path is where the template was written; empty unless Write was set.
	Path string
}

// Template renders a shareable skeleton of the store. Keys and comments
// survive, values do not, so the result is safe to commit alongside the
// encrypted artifact as documentation of what the store contains.
func Template(ctx context.Context, opts TemplateOptions) (*TemplateResult, error) {
	st, err := openStore(ctx, ReadOptions{Settings: opts.Settings})
	if err != nil {
		return nil, err
	}

	result := &TemplateResult{Content: st.Template()}

	if opts.Write {
		if err := os.WriteFile(opts.Settings.TemplatePath, []byte(result.Content), 0o644); err != nil {
			return nil, err
		}
		result.Path = opts.Settings.TemplatePath

		entry := audit.New("template")
		entry.Files = []string{opts.Settings.TemplatePath}
		entry.Count = st.Len()
		audit.Log(opts.Settings.AuditPath, entry)
	}

	return result, nil
}
