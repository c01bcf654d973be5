// Package convert implements program commands working with abbreviations.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"zen/config"
	"zen/expand"
	"zen/state"
)

// options are command line switches shared by all commands.
type options struct {
	syntax     string
	profile    string
	stripCaret bool
	cursor     int
}

func optionsFromCmd(cmd *cli.Command) options {
	return options{
		syntax:     cmd.String("syntax"),
		profile:    cmd.String("profile"),
		stripCaret: cmd.Bool("strip-caret"),
		cursor:     int(cmd.Int("cursor")),
	}
}

func prepare(ctx context.Context, name string) (*state.LocalEnv, *zap.Logger, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	env := state.EnvFromContext(ctx)
	if err := env.PrepareEngine(); err != nil {
		return nil, nil, fmt.Errorf("unable to prepare resources: %w", err)
	}
	return env, env.Log.Named(name), nil
}

func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func input(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}

// profile resolves requested profile. Nil lets engine use syntax default.
func profile(env *state.LocalEnv, o options) *config.Profile {
	if len(o.profile) == 0 {
		return nil
	}
	return env.Engine.Profile(o.profile, o.syntax)
}

func finish(env *state.LocalEnv, o options, out string) string {
	if o.stripCaret {
		out, _ = expand.ExtractCaret(out, env.Cfg.Output.Caret)
	}
	return out
}

// Expand outputs markup for abbreviation given as the first argument.
func Expand(ctx context.Context, cmd *cli.Command) error {
	abbreviation := cmd.Args().Get(0)
	if len(abbreviation) == 0 {
		return errors.New("no abbreviation has been specified")
	}
	if cmd.Args().Len() > 1 {
		state.EnvFromContext(ctx).Log.Warn("Malformed command line, too many abbreviations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	return expandAbbreviation(ctx, output(cmd), abbreviation, optionsFromCmd(cmd))
}

func expandAbbreviation(ctx context.Context, w io.Writer, abbreviation string, o options) error {
	env, log, err := prepare(ctx, "expand")
	if err != nil {
		return err
	}

	log.Debug("Expanding", zap.String("abbreviation", abbreviation), zap.String("syntax", o.syntax))
	defer func(start time.Time) {
		log.Debug("Expanding completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	out, err := env.Engine.Expand(env.Session, abbreviation, o.syntax, profile(env, o))
	if err != nil {
		return fmt.Errorf("unable to expand '%s': %w", abbreviation, err)
	}
	storeResult(env, "expand", abbreviation, o.syntax, out)

	_, err = fmt.Fprintln(w, finish(env, o, out))
	return err
}

// Wrap puts text from file (or stdin) inside abbreviation. With cursor set
// only element around cursor is wrapped and the whole text is output.
func Wrap(ctx context.Context, cmd *cli.Command) error {
	abbreviation := cmd.Args().Get(0)
	if len(abbreviation) == 0 {
		return errors.New("no abbreviation has been specified")
	}

	env := state.EnvFromContext(ctx)
	text, err := readInput(cmd.Args().Get(1), selectEncoding(cmd.String("encoding"), env.Log), input(cmd))
	if err != nil {
		return err
	}
	return wrapText(ctx, output(cmd), abbreviation, text, optionsFromCmd(cmd))
}

func wrapText(ctx context.Context, w io.Writer, abbreviation, text string, o options) error {
	env, log, err := prepare(ctx, "wrap")
	if err != nil {
		return err
	}

	var out string
	if o.cursor >= 0 {
		if o.cursor > len(text) {
			return fmt.Errorf("cursor %d is outside of text (%d bytes)", o.cursor, len(text))
		}
		log.Debug("Wrapping element", zap.String("abbreviation", abbreviation), zap.Int("cursor", o.cursor))
		out, err = env.Engine.WrapMatch(env.Session, abbreviation, text, o.cursor, o.syntax, profile(env, o))
	} else {
		log.Debug("Wrapping text", zap.String("abbreviation", abbreviation), zap.Int("length", len(text)))
		out, err = env.Engine.Wrap(env.Session, abbreviation, text, o.syntax, profile(env, o))
	}
	if err != nil {
		return fmt.Errorf("unable to wrap with '%s': %w", abbreviation, err)
	}
	storeResult(env, "wrap", abbreviation, o.syntax, out)

	_, err = fmt.Fprintln(w, finish(env, o, out))
	return err
}

// Match outputs range and text of the tag pair around cursor.
func Match(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	text, err := readInput(cmd.Args().Get(0), selectEncoding(cmd.String("encoding"), env.Log), input(cmd))
	if err != nil {
		return err
	}
	return matchText(ctx, output(cmd), text, optionsFromCmd(cmd), cmd.String("balance"))
}

func matchText(ctx context.Context, w io.Writer, text string, o options, balance string) error {
	env, log, err := prepare(ctx, "match")
	if err != nil {
		return err
	}
	if o.cursor < 0 || o.cursor > len(text) {
		return fmt.Errorf("cursor %d is outside of text (%d bytes)", o.cursor, len(text))
	}

	m := env.Session.Matcher()
	r, ok := m.Match(text, o.cursor, o.syntax)
	if !ok {
		return fmt.Errorf("no tag pair around position %d: %w", o.cursor, expand.ErrUnchanged)
	}

	switch balance {
	case "":
	case "out", "in":
		if next, ok := m.Balance(text, r, o.syntax, balance == "out"); ok {
			r = next
		}
	default:
		log.Warn("Unknown balance direction, ignoring", zap.String("balance", balance))
	}

	p := m.Last()
	log.Debug("Pair found", zap.String("pair", pairName(p)), zap.Int("start", r.Start), zap.Int("end", r.End))
	storeMatch(env, p, text, r)
	_, err = fmt.Fprintf(w, "%d %d\n%s\n", r.Start, r.End, text[r.Start:r.End])
	return err
}

// List outputs names of all abbreviations and snippets available for syntax.
func List(ctx context.Context, cmd *cli.Command) error {
	return listNames(ctx, output(cmd), cmd.String("syntax"))
}

func listNames(ctx context.Context, w io.Writer, syntax string) error {
	env, log, err := prepare(ctx, "list")
	if err != nil {
		return err
	}
	names := env.Engine.Resolver().Names(syntax)
	log.Debug("Listing", zap.String("syntax", syntax), zap.Int("count", len(names)), zap.Strings("chain", env.Engine.Resolver().Chain(syntax)))

	var b strings.Builder
	for _, n := range names {
		b.WriteString(n)
		b.WriteByte('\n')
	}
	_, err = io.WriteString(w, b.String())
	return err
}
