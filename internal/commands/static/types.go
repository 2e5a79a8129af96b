package staticcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-docsite/internal/generator"
)

const (
	buildSiteMessageType = "docs.static.build"
	diffSiteMessageType  = "docs.static.diff"
	cleanSiteMessageType = "docs.static.clean"
)

// ResultCallback receives build results produced by generator operations. It
// is invoked synchronously from the handler, including when the build failed
// part way and a partial result is available.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a static command execution.
type ResultEnvelope struct {
	Result   *generator.BuildResult
	Metadata map[string]any
}

// BuildSiteCommand renders the site, or only the listed doc ids when Docs is
// not empty.
type BuildSiteCommand struct {
	Docs           []string       `json:"docs,omitempty"`
	Force          bool           `json:"force,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate rejects blank or path-escaping doc ids.
func (m BuildSiteCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Docs, validation.Each(validation.By(docIDRule("docs.static.build.doc_invalid")))),
	)
}

// DiffSiteCommand reports which pages a build would render without writing
// anything.
type DiffSiteCommand struct {
	Docs           []string       `json:"docs,omitempty"`
	Force          bool           `json:"force,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (DiffSiteCommand) Type() string { return diffSiteMessageType }

// Validate rejects blank or path-escaping doc ids.
func (m DiffSiteCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Docs, validation.Each(validation.By(docIDRule("docs.static.diff.doc_invalid")))),
	)
}

// CleanSiteCommand removes the generated output directory.
type CleanSiteCommand struct{}

// Type implements command.Message.
func (CleanSiteCommand) Type() string { return cleanSiteMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (CleanSiteCommand) Validate() error { return nil }

// FeatureGates exposes runtime switches used to guard handler execution.
type FeatureGates struct {
	GeneratorEnabled func() bool
}

func (g FeatureGates) generatorEnabled() bool {
	if g.GeneratorEnabled == nil {
		return false
	}
	return g.GeneratorEnabled()
}

func docIDRule(code string) func(any) error {
	return func(value any) error {
		id, _ := value.(string)
		trimmed := strings.TrimSpace(id)
		switch {
		case trimmed == "":
			return validation.NewError(code, "doc ids must not be empty")
		case strings.HasPrefix(trimmed, "/"), strings.HasSuffix(trimmed, "/"):
			return validation.NewError(code, "doc ids must not start or end with a slash")
		case trimmed == "..", strings.HasPrefix(trimmed, "../"), strings.Contains(trimmed, "/../"), strings.HasSuffix(trimmed, "/.."):
			return validation.NewError(code, "doc ids must not contain parent segments")
		}
		return nil
	}
}

func normalizeDocs(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := map[string]struct{}{}
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
