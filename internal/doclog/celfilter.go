package doclog

import (
	"strings"

	"github.com/google/cel-go/cel"
)

// celFilter wraps a compiled CEL program evaluated per journal event.
// When disabled, Eval always returns true.
type celFilter struct {
	prog    cel.Program
	enabled bool
}

func newCELFilter(expr string) (celFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("kind", cel.StringType),
		cel.Variable("dataset", cel.StringType),
		cel.Variable("key", cel.StringType),
		cel.Variable("digest", cel.StringType),
		cel.Variable("size", cel.IntType),
		cel.Variable("peer", cel.StringType),
		cel.Variable("seq", cel.IntType),
		cel.Variable("ts_ms", cel.IntType),
	)
	if err != nil {
		return celFilter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return celFilter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return celFilter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return celFilter{}, err
	}
	return celFilter{prog: prog, enabled: true}, nil
}

// Eval evaluates the expression against one event. When disabled, returns true.
func (f celFilter) Eval(env envelope, seq uint64, tsMs int64) bool {
	if !f.enabled {
		return true
	}
	key := env.Key
	if key == "" && env.Entry != nil {
		key = string(env.Entry.Key)
	}
	out, _, err := f.prog.Eval(map[string]any{
		"kind":    string(env.EventKind),
		"dataset": env.Dataset,
		"key":     key,
		"digest":  env.Digest,
		"size":    int64(env.Size),
		"peer":    env.Peer,
		"seq":     int64(seq),
		"ts_ms":   tsMs,
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
