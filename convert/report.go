package convert

import (
	"fmt"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"zen/matcher"
	"zen/state"
	"zen/utils/debug"
)

// storeResult saves output and rolled out tree of abbreviation into debug
// report. Names are derived from abbreviation so repeated runs are easy to
// tell apart.
func storeResult(env *state.LocalEnv, kind, abbreviation, syntax, out string) {
	if env.Rpt == nil {
		return
	}
	name := fmt.Sprintf("%s/%s-%s", kind, slug.Make(syntax), slug.Make(abbreviation))

	env.Rpt.StoreData(name+".out", []byte(out))
	if root, err := env.Engine.Tree(abbreviation, syntax); err == nil {
		env.Rpt.StoreData(name+".tree", []byte(root.String()))
	} else {
		env.Log.Debug("Unable to store tree", zap.String("abbreviation", abbreviation), zap.Error(err))
	}
}

func storeMatch(env *state.LocalEnv, p *matcher.Pair, text string, r matcher.Range) {
	if env.Rpt == nil {
		return
	}
	tw := debug.NewTreeWriter()
	tw.Line(0, "pair %s", pairName(p))
	tw.Line(1, "open [%d:%d]", p.Open.Range.Start, p.Open.Range.End)
	if p.Close != nil {
		tw.Line(1, "close [%d:%d] implicit=%t", p.Close.Range.Start, p.Close.Range.End, p.Close.Implicit)
	}
	tw.Line(1, "selection [%d:%d]", r.Start, r.End)
	tw.TextBlock(2, "text", text[r.Start:r.End])
	env.Rpt.StoreData(fmt.Sprintf("match/%s-%d.txt", env.Session.ID, r.Start), []byte(tw.String()))
}

func pairName(p *matcher.Pair) string {
	if p.Comment {
		return "comment"
	}
	return p.Open.Name
}
