package dependency

import (
	"context"
	"testing"
	"time"

	"github.com/axel-lord/spel-katalog-script/internal/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// table is a minimal Resolver for tests.
type table map[string]Outcome

func (t table) OutcomeOf(id string) (Outcome, bool) {
	outcome, ok := t[id]
	return outcome, ok
}

func check(t *testing.T, dep Dependency, prior Resolver) Outcome {
	t.Helper()
	if prior == nil {
		prior = table{}
	}
	outcome, err := dep.Check(context.Background(), nil, command.Options{}, prior)
	require.NoError(t, err)
	return outcome
}

func TestScriptRef(t *testing.T) {
	prior := table{"ok": Success, "soft": SoftFailure}

	t.Run("successful reference", func(t *testing.T) {
		dep := Dependency{Kind: &ScriptRef{ID: "ok"}}
		assert.Equal(t, Success, check(t, dep, prior))
	})

	t.Run("failed reference escalates", func(t *testing.T) {
		dep := Dependency{Kind: &ScriptRef{ID: "soft"}}
		assert.Equal(t, HardFailure, check(t, dep, prior))
	})

	t.Run("failed reference downgrades with try", func(t *testing.T) {
		dep := Dependency{Kind: &ScriptRef{ID: "soft"}, Try: true}
		assert.Equal(t, SoftFailure, check(t, dep, prior))
	})

	t.Run("missing reference is fatal", func(t *testing.T) {
		dep := Dependency{Kind: &ScriptRef{ID: "ghost"}}
		_, err := dep.Check(context.Background(), nil, command.Options{}, prior)
		var missing *MissingDependencyError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "ghost", missing.ID)
	})
}

func TestExecCheck(t *testing.T) {
	t.Run("zero exit succeeds", func(t *testing.T) {
		dep := Dependency{Kind: &ExecCheck{Spec: &command.Program{Exec: "true"}}}
		assert.Equal(t, Success, check(t, dep, nil))
	})

	t.Run("non-zero exit fails per try flag", func(t *testing.T) {
		spec := &command.Program{Exec: "false"}
		assert.Equal(t, HardFailure, check(t, Dependency{Kind: &ExecCheck{Spec: spec}}, nil))
		assert.Equal(t, SoftFailure, check(t, Dependency{Kind: &ExecCheck{Spec: spec}, Try: true}, nil))
	})

	t.Run("spawn failure is fatal", func(t *testing.T) {
		dep := Dependency{Kind: &ExecCheck{Spec: &command.Program{Exec: "/nonexistent/binary"}}}
		_, err := dep.Check(context.Background(), nil, command.Options{}, table{})
		var spawnErr *command.SpawnError
		require.ErrorAs(t, err, &spawnErr)
	})
}

func TestEquals(t *testing.T) {
	cases := []struct {
		name   string
		values []string
		try    bool
		want   Outcome
	}{
		{"empty list", nil, false, Success},
		{"single value", []string{"a"}, false, Success},
		{"all equal", []string{"a", "a", "a"}, false, Success},
		{"mismatch escalates", []string{"a", "b"}, false, HardFailure},
		{"mismatch downgrades with try", []string{"a", "b"}, true, SoftFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dep := Dependency{Kind: &Equals{Values: tc.values}, Try: tc.try}
			assert.Equal(t, tc.want, check(t, dep, nil))
		})
	}
}

func TestNotEquals(t *testing.T) {
	t.Run("differing values succeed", func(t *testing.T) {
		dep := Dependency{Kind: &NotEquals{Values: []string{"hello", "world"}}}
		assert.Equal(t, Success, check(t, dep, nil))
	})

	t.Run("identical values fail", func(t *testing.T) {
		dep := Dependency{Kind: &NotEquals{Values: []string{"hello", "hello"}}}
		assert.Equal(t, HardFailure, check(t, dep, nil))
	})

	t.Run("empty and single lists are trivially equal", func(t *testing.T) {
		assert.Equal(t, HardFailure, check(t, Dependency{Kind: &NotEquals{}}, nil))
		assert.Equal(t, HardFailure, check(t, Dependency{Kind: &NotEquals{Values: []string{"a"}}}, nil))
	})
}

func TestIn(t *testing.T) {
	t.Run("members found after dedup and sort", func(t *testing.T) {
		dep := Dependency{Kind: &In{
			Values:     []string{"x", "y"},
			Collection: []string{"y", "x", "x"},
		}}
		assert.Equal(t, Success, check(t, dep, nil))
	})

	t.Run("duplicate values are checked once", func(t *testing.T) {
		dep := Dependency{Kind: &In{
			Values:     []string{"hello", "world", "hello"},
			Collection: []string{"hello", "world", "world"},
		}}
		assert.Equal(t, Success, check(t, dep, nil))
	})

	t.Run("missing member fails per try flag", func(t *testing.T) {
		kind := &In{Values: []string{"z"}, Collection: []string{"a"}}
		assert.Equal(t, HardFailure, check(t, Dependency{Kind: kind}, nil))
		assert.Equal(t, SoftFailure, check(t, Dependency{Kind: kind, Try: true}, nil))
	})
}

func TestMatch(t *testing.T) {
	t.Run("every value must match", func(t *testing.T) {
		dep := Dependency{Kind: &Match{
			Values:  []string{"Hello world!"},
			Pattern: "^He[li].*!$",
		}}
		assert.Equal(t, Success, check(t, dep, nil))
	})

	t.Run("case insensitive matching", func(t *testing.T) {
		dep := Dependency{Kind: &Match{
			Values:      []string{"Hello world!"},
			Pattern:     "^hE[li].*!$",
			Insensitive: true,
		}}
		assert.Equal(t, Success, check(t, dep, nil))
	})

	t.Run("non-match fails per try flag", func(t *testing.T) {
		kind := &Match{Values: []string{"abc"}, Pattern: "^z"}
		assert.Equal(t, HardFailure, check(t, Dependency{Kind: kind}, nil))
		assert.Equal(t, SoftFailure, check(t, Dependency{Kind: kind, Try: true}, nil))
	})

	t.Run("bad pattern is fatal", func(t *testing.T) {
		dep := Dependency{Kind: &Match{Values: []string{"a"}, Pattern: "("}, Try: true}
		_, err := dep.Check(context.Background(), nil, command.Options{}, table{})
		require.Error(t, err)
	})
}

func TestCheckAll(t *testing.T) {
	ctx := context.Background()

	t.Run("empty list succeeds", func(t *testing.T) {
		outcome, err := CheckAll(ctx, nil, nil, command.Options{}, table{})
		require.NoError(t, err)
		assert.Equal(t, Success, outcome)
	})

	t.Run("combines by severity", func(t *testing.T) {
		deps := []Dependency{
			{Kind: &Equals{Values: []string{"a", "a"}}},
			{Kind: &Equals{Values: []string{"a", "b"}}, Try: true},
		}
		outcome, err := CheckAll(ctx, deps, nil, command.Options{}, table{})
		require.NoError(t, err)
		assert.Equal(t, SoftFailure, outcome)
	})

	t.Run("hard failure stops the wait and cancels siblings", func(t *testing.T) {
		sleep, err := command.ParseCmd("sleep 10")
		require.NoError(t, err)
		deps := []Dependency{
			{Kind: &ExecCheck{Spec: sleep}},
			{Kind: &Equals{Values: []string{"a", "b"}}},
		}

		start := time.Now()
		outcome, err := CheckAll(ctx, deps, nil, command.Options{}, table{})
		require.NoError(t, err)
		assert.Equal(t, HardFailure, outcome)
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("fatal error propagates", func(t *testing.T) {
		deps := []Dependency{{Kind: &ScriptRef{ID: "ghost"}}}
		_, err := CheckAll(ctx, deps, nil, command.Options{}, table{})
		var missing *MissingDependencyError
		require.ErrorAs(t, err, &missing)
	})
}
