// Package expand is the entry point of the compiler: it turns abbreviations
// into markup and wraps existing text with abbreviations.
package expand

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"zen/abbr"
	"zen/config"
	"zen/filters"
	"zen/resources"
	"zen/tree"
)

// ErrUnchanged is returned when nothing could be produced, callers are
// expected to leave their text as is.
var ErrUnchanged = errors.New("text left unchanged")

// Engine holds everything expansion needs. It does not change after
// creation and may be used from multiple goroutines, each with its own
// Session.
type Engine struct {
	cfg      *config.Config
	res      *resources.Resolver
	pipeline *filters.Pipeline
	log      *zap.Logger
}

func NewEngine(cfg *config.Config, res *resources.Resolver, reg *filters.Registry, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		cfg:      cfg,
		res:      res,
		pipeline: filters.NewPipeline(reg, log),
		log:      log.Named("expand"),
	}
}

// LoadResources builds resolver from built-in resources with the user table
// from configuration merged over them.
func LoadResources(cfg *config.Config, log *zap.Logger) (*resources.Resolver, error) {
	tbl, err := resources.Default()
	if err != nil {
		return nil, err
	}
	if cfg.Resources.Path != "" {
		data, err := os.ReadFile(cfg.Resources.Path)
		if err != nil {
			return nil, fmt.Errorf("unable to read resources: %w", err)
		}
		user, err := resources.Load(data)
		if err != nil {
			return nil, fmt.Errorf("unable to load resources from '%s': %w", cfg.Resources.Path, err)
		}
		tbl.Merge(user)
		log.Debug("User resources merged", zap.String("path", cfg.Resources.Path), zap.Int("syntaxes", len(user.Syntaxes)))
	}
	return resources.NewResolver(tbl, log)
}

func (e *Engine) Resolver() *resources.Resolver {
	return e.res
}

// Profile returns named output profile. Empty name selects default profile
// of the syntax, unknown names fall back to "plain".
func (e *Engine) Profile(name, syntax string) *config.Profile {
	if name == "" {
		name = e.res.Profile(syntax)
	}
	if p, ok := e.cfg.Profile(name); ok {
		return p
	}
	e.log.Debug("Unknown profile, using plain", zap.String("profile", name))
	p, _ := e.cfg.Profile("plain")
	return p
}

// Expand turns abbreviation into markup. Filters may be added to the syntax
// defaults with "|name" suffix. When p is nil default profile of the syntax
// is used.
func (e *Engine) Expand(s *Session, abbreviation, syntax string, p *config.Profile) (string, error) {
	t, extra, err := e.parse(abbreviation, syntax)
	if err != nil {
		return "", err
	}
	out := e.render(s, t, syntax, p, extra)
	e.log.Debug("Abbreviation expanded", zap.Stringer("session", s.ID), zap.String("abbreviation", abbreviation), zap.String("syntax", syntax))
	return out, nil
}

// Wrap puts text inside abbreviation: into the node repeated by line when
// there is one, or into the last node. Common indentation of text is
// removed.
func (e *Engine) Wrap(s *Session, abbreviation, text, syntax string, p *config.Profile) (string, error) {
	t, extra, err := e.parse(abbreviation, syntax)
	if err != nil {
		return "", err
	}
	target := t.ByLine
	if target == nil {
		target = t.Last
	}
	target.Content = escapeDollars(unindent(text))

	out := e.render(s, t, syntax, p, extra)
	e.log.Debug("Text wrapped", zap.Stringer("session", s.ID), zap.String("abbreviation", abbreviation), zap.Int("length", len(text)))
	return out, nil
}

// WrapMatch wraps element around cursor with abbreviation and returns the
// whole updated text.
func (e *Engine) WrapMatch(s *Session, abbreviation, text string, cursor int, syntax string, p *config.Profile) (string, error) {
	if _, ok := s.matcher.Match(text, cursor, syntax); !ok {
		return "", fmt.Errorf("no element at position %d: %w", cursor, ErrUnchanged)
	}
	r := s.matcher.Last().Range()

	wrapped, err := e.Wrap(s, abbreviation, text[r.Start:r.End], syntax, p)
	if err != nil {
		return "", err
	}
	// the rest of wrapped lines follow indentation of the first one
	wrapped = padLines(wrapped, linePadding(text, r.Start))
	return text[:r.Start] + wrapped + text[r.End:], nil
}

func (e *Engine) parse(abbreviation, syntax string) (*abbr.Tree, []string, error) {
	rest, extra := abbr.ParseFilters(abbreviation)
	t, err := abbr.Parse(rest, syntax, e.res)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrUnchanged, err)
	}
	return t, extra, nil
}

func (e *Engine) render(s *Session, t *abbr.Tree, syntax string, p *config.Profile, extra []string) string {
	if p == nil {
		p = e.Profile("", syntax)
	}
	fc := &filters.Context{
		Profile: p,
		Indent:  e.cfg.Output.Indentation,
		Newline: e.cfg.Output.Newline,
		Caret:   e.cfg.Output.Caret,
		Log:     e.log,
	}
	root := tree.Rollout(t)
	names := append(e.res.Filters(syntax), extra...)
	root = e.pipeline.Apply(root, e.res.Chain(syntax), names, fc)
	e.substitute(s, root)
	return root.Serialize()
}

// Tree returns rolled out tree of abbreviation for diagnostics.
func (e *Engine) Tree(abbreviation, syntax string) (*tree.Node, error) {
	t, _, err := e.parse(abbreviation, syntax)
	if err != nil {
		return nil, err
	}
	return tree.Rollout(t), nil
}

func escapeDollars(text string) string {
	return strings.ReplaceAll(text, "$", `\$`)
}

// unindent drops leading and trailing empty lines and removes indentation
// common to all non-empty lines.
func unindent(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	common := ""
	first := true
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		ws := l[:len(l)-len(strings.TrimLeft(l, " \t"))]
		if first {
			common, first = ws, false
			continue
		}
		for !strings.HasPrefix(ws, common) {
			common = common[:len(common)-1]
		}
	}
	for i, l := range lines {
		lines[i] = strings.TrimPrefix(l, common)
	}
	return strings.Join(lines, "\n")
}

// linePadding returns leading whitespace of the line holding pos.
func linePadding(text string, pos int) string {
	start := strings.LastIndexByte(text[:pos], '\n') + 1
	end := start
	for end < len(text) && (text[end] == ' ' || text[end] == '\t') {
		end++
	}
	return text[start:end]
}

func padLines(text, padding string) string {
	if padding == "" {
		return text
	}
	return strings.ReplaceAll(text, "\n", "\n"+padding)
}
