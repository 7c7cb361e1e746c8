package script

import (
	"fmt"

	"github.com/axel-lord/spel-katalog-script/internal/command"
	"github.com/axel-lord/spel-katalog-script/internal/dependency"
	"github.com/axel-lord/spel-katalog-script/internal/environ"
)

// The decoder operates on the generic values every frontend produces
// (map[string]any, []any, string, bool), so alias handling and variant
// dispatch live in exactly one place. Aliases such as equal/equals or
// match/matches exist only here; the model has a single spelling.

func fileFromRaw(raw map[string]any) (*File, error) {
	f := &File{}

	scriptRaw, ok := raw["script"]
	if !ok {
		return nil, fmt.Errorf("script file needs a script section")
	}
	scriptMap, err := asMap(scriptRaw, "script")
	if err != nil {
		return nil, err
	}
	if f.Script, err = scriptFromRaw(scriptMap); err != nil {
		return nil, err
	}

	if f.Require, err = dependencyList(raw, "require"); err != nil {
		return nil, err
	}
	if f.Assert, err = dependencyList(raw, "assert"); err != nil {
		return nil, err
	}
	if f.Synced, err = specList(raw, "synced"); err != nil {
		return nil, err
	}
	if f.Parallel, err = specList(raw, "parallel"); err != nil {
		return nil, err
	}

	if envRaw, ok := raw["env"]; ok {
		envMap, err := asMap(envRaw, "env")
		if err != nil {
			return nil, err
		}
		if f.Env, err = envFromRaw(envMap); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func scriptFromRaw(raw map[string]any) (Script, error) {
	idRaw, ok := raw["id"]
	if !ok {
		return Script{}, fmt.Errorf("script section needs an id")
	}
	id, err := asString(idRaw, "script.id")
	if err != nil {
		return Script{}, err
	}

	spec, err := optionalSpec(raw, "script")
	if err != nil {
		return Script{}, err
	}
	return Script{ID: id, Exec: spec}, nil
}

func dependencyList(raw map[string]any, field string) ([]dependency.Dependency, error) {
	listRaw, ok := raw[field]
	if !ok {
		return nil, nil
	}
	list, err := asList(listRaw, field)
	if err != nil {
		return nil, err
	}

	deps := make([]dependency.Dependency, 0, len(list))
	for i, entry := range list {
		entryMap, err := asMap(entry, fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		dep, err := dependencyFromRaw(entryMap)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

func dependencyFromRaw(raw map[string]any) (dependency.Dependency, error) {
	var dep dependency.Dependency

	if tryRaw, ok := raw["try"]; ok {
		try, err := asBool(tryRaw, "try")
		if err != nil {
			return dep, err
		}
		dep.Try = try
	}

	kind, err := kindFromRaw(raw)
	if err != nil {
		return dep, err
	}
	dep.Kind = kind
	return dep, nil
}

func kindFromRaw(raw map[string]any) (dependency.Kind, error) {
	var kinds []dependency.Kind

	if v, ok := raw["script"]; ok {
		id, err := asString(v, "script")
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, &dependency.ScriptRef{ID: id})
	}

	if _, ok := lookup(raw, "cmd", "exec"); ok {
		spec, err := specFromRaw(raw)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, &dependency.ExecCheck{Spec: spec})
	}

	if v, name, ok := lookupNamed(raw, "equals", "equal"); ok {
		values, err := asStringList(v, name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, &dependency.Equals{Values: values})
	}

	if v, name, ok := lookupNamed(raw, "not-equals", "not-equal"); ok {
		values, err := asStringList(v, name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, &dependency.NotEquals{Values: values})
	}

	if v, ok := raw["in"]; ok {
		collection, err := asStringList(v, "in")
		if err != nil {
			return nil, err
		}
		values, err := requireValues(raw)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, &dependency.In{Values: values, Collection: collection})
	}

	if v, name, ok := lookupNamed(raw, "match", "matches"); ok {
		kind, err := matchFromRaw(raw, v, name, false)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}

	if v, name, ok := lookupNamed(raw, "imatch", "imatches"); ok {
		kind, err := matchFromRaw(raw, v, name, true)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}

	switch len(kinds) {
	case 0:
		return nil, fmt.Errorf("dependency needs one of script, cmd, exec, equals, not-equals, in, match or imatch")
	case 1:
		return kinds[0], nil
	default:
		return nil, fmt.Errorf("dependency names more than one kind")
	}
}

func matchFromRaw(raw map[string]any, patternRaw any, field string, insensitive bool) (dependency.Kind, error) {
	pattern, err := asString(patternRaw, field)
	if err != nil {
		return nil, err
	}
	values, err := requireValues(raw)
	if err != nil {
		return nil, err
	}
	return &dependency.Match{Values: values, Pattern: pattern, Insensitive: insensitive}, nil
}

// requireValues reads the value/values field shared by the in and match
// kinds, accepting either a single string or a list.
func requireValues(raw map[string]any) ([]string, error) {
	v, name, ok := lookupNamed(raw, "values", "value")
	if !ok {
		return nil, fmt.Errorf("dependency needs a value or values field")
	}
	if s, isString := v.(string); isString {
		return []string{s}, nil
	}
	return asStringList(v, name)
}

func specList(raw map[string]any, field string) ([]command.Spec, error) {
	listRaw, ok := raw[field]
	if !ok {
		return nil, nil
	}
	list, err := asList(listRaw, field)
	if err != nil {
		return nil, err
	}

	specs := make([]command.Spec, 0, len(list))
	for i, entry := range list {
		spec, err := specFromValue(entry)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// specFromValue decodes an executable that serializes either as a plain
// shell command line or as an exec/args object.
func specFromValue(v any) (command.Spec, error) {
	if line, ok := v.(string); ok {
		return command.ParseCmd(line)
	}
	m, err := asMap(v, "executable")
	if err != nil {
		return nil, err
	}
	return specFromRaw(m)
}

// specFromRaw decodes the executable fields of a map: either cmd (a shell
// line) or exec plus optional args.
func specFromRaw(raw map[string]any) (command.Spec, error) {
	if cmdRaw, ok := raw["cmd"]; ok {
		if _, also := raw["exec"]; also {
			return nil, fmt.Errorf("executable names both cmd and exec")
		}
		line, err := asString(cmdRaw, "cmd")
		if err != nil {
			return nil, err
		}
		return command.ParseCmd(line)
	}

	execRaw, ok := raw["exec"]
	if !ok {
		return nil, fmt.Errorf("executable needs a cmd or exec field")
	}
	path, err := asString(execRaw, "exec")
	if err != nil {
		return nil, err
	}
	prog := &command.Program{Exec: path}
	if argsRaw, ok := raw["args"]; ok {
		if prog.Args, err = asStringList(argsRaw, "args"); err != nil {
			return nil, err
		}
	}
	return prog, nil
}

// optionalSpec decodes the executable fields of a section where they are
// optional, returning nil when neither cmd nor exec is present.
func optionalSpec(raw map[string]any, section string) (command.Spec, error) {
	if _, ok := lookup(raw, "cmd", "exec"); !ok {
		return nil, nil
	}
	spec, err := specFromRaw(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", section, err)
	}
	return spec, nil
}

func envFromRaw(raw map[string]any) (*environ.Set, error) {
	env := &environ.Set{}

	if varsRaw, ok := raw["vars"]; ok {
		vars, err := asMap(varsRaw, "env.vars")
		if err != nil {
			return nil, err
		}
		for key, valueRaw := range vars {
			value, err := asString(valueRaw, "env.vars."+key)
			if err != nil {
				return nil, err
			}
			if err := env.SetVar(key, value); err != nil {
				return nil, err
			}
		}
	}

	if unsetRaw, ok := raw["unset"]; ok {
		keys, err := asStringList(unsetRaw, "env.unset")
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			if err := env.UnsetVar(key); err != nil {
				return nil, err
			}
		}
	}

	if allRaw, _, ok := lookupNamed(raw, "unset-all", "unset_all"); ok {
		all, err := asBool(allRaw, "env.unset-all")
		if err != nil {
			return nil, err
		}
		env.UnsetAll = all
	}

	return env, nil
}

func lookup(raw map[string]any, names ...string) (any, bool) {
	v, _, ok := lookupNamed(raw, names...)
	return v, ok
}

func lookupNamed(raw map[string]any, names ...string) (any, string, bool) {
	for _, name := range names {
		if v, ok := raw[name]; ok {
			return v, name, true
		}
	}
	return nil, "", false
}

func asMap(v any, field string) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be a table, got %T", field, v)
	}
	return m, nil
}

func asList(v any, field string) ([]any, error) {
	switch list := v.(type) {
	case []any:
		return list, nil
	case []map[string]any:
		// The TOML decoder produces typed slices for arrays of tables.
		out := make([]any, len(list))
		for i, m := range list {
			out[i] = m
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s must be a list, got %T", field, v)
	}
}

func asString(v any, field string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %T", field, v)
	}
	return s, nil
}

func asBool(v any, field string) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%s must be a boolean, got %T", field, v)
	}
	return b, nil
}

func asStringList(v any, field string) ([]string, error) {
	list, err := asList(v, field)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(list))
	for i, entry := range list {
		s, err := asString(entry, fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
