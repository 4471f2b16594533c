package native

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName is the optional per-project configuration file.
const ConfigFileName = "nativeconf.toml"

type Config struct {
	Emit     EmitSection       `toml:"emit"`
	Binaries map[string]string `toml:"binaries"`
	Options  map[string]string `toml:"options"`
}

// EmitSection defines the [emit] section
type EmitSection struct {
	Layout    string `toml:"layout"`
	File      string `toml:"file"`
	Toolchain string `toml:"toolchain"`
	Stamp     bool   `toml:"stamp"`
}

// ConfigEnv is the environment exposed to expr expressions in the config
// file, both conditional section keys and {{...}} interpolations.
type ConfigEnv struct {
	TargetOS   string            `expr:"target_os"`
	TargetArch string            `expr:"target_arch"`
	Environ    map[string]string `expr:"environ"`
	Prefix     string            `expr:"prefix"`
}

func NewConfigEnv(prefix string) ConfigEnv {
	environ := make(map[string]string)
	for _, e := range os.Environ() {
		if i := strings.Index(e, "="); i >= 0 {
			environ[e[:i]] = e[i+1:]
		}
	}

	return ConfigEnv{
		TargetOS:   runtime.GOOS,
		TargetArch: runtime.GOARCH,
		Environ:    environ,
		Prefix:     prefix,
	}
}

func mustMarshal(v any) string {
	b, err := toml.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// unmarshalSection is a helper to parse plain sections
func unmarshalSection(rawCfg map[string]any, name string, dst any) error {
	if data, ok := rawCfg[name]; ok {
		if err := toml.Unmarshal([]byte(mustMarshal(data)), dst); err != nil {
			return fmt.Errorf("failed to parse [%s] section: %w", name, err)
		}
	}
	return nil
}

// unmarshalConditionalMap parses a string-map section whose subtables are
// conditions: a subtable keyed by an expression that compiles against env
// is merged in only when it evaluates to true.
func unmarshalConditionalMap(rawCfg map[string]any, name string, dst *map[string]string, env ConfigEnv) error {
	sectionData, ok := rawCfg[name]
	if !ok {
		return nil
	}

	sectionMap, ok := sectionData.(map[string]any)
	if !ok {
		return fmt.Errorf("invalid [%s] section format: expected a table", name)
	}

	if *dst == nil {
		*dst = make(map[string]string)
	}

	setEntry := func(section, key string, val any) error {
		s, ok := val.(string)
		if !ok {
			return fmt.Errorf("[%s] entry %q: expected a string, got %T", section, key, val)
		}
		(*dst)[key] = s
		return nil
	}

	for key, val := range sectionMap {
		subMap, isTable := val.(map[string]any)
		if !isTable {
			if err := setEntry(name, key, val); err != nil {
				return err
			}
			continue
		}

		program, err := expr.Compile(key, expr.Env(env))
		if err != nil {
			return fmt.Errorf("failed to compile condition for [%s.%q]: %w", name, key, err)
		}
		result, err := expr.Run(program, env)
		if err != nil {
			return fmt.Errorf("failed to run condition for [%s.%q]: %w", name, key, err)
		}
		if matched, ok := result.(bool); !ok || !matched {
			continue
		}

		for subKey, subVal := range subMap {
			if err := setEntry(name+"."+key, subKey, subVal); err != nil {
				return err
			}
		}
	}

	return nil
}

var exprRegex = regexp.MustCompile(`\{\{(.+?)\}\}`)

// evaluateString finds and evaluates all {{...}} expressions in a string
func evaluateString(s string, env ConfigEnv) (string, error) {
	matches := exprRegex.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, nil
	}

	var builder strings.Builder
	lastIndex := 0

	for _, matchIndexes := range matches {
		builder.WriteString(s[lastIndex:matchIndexes[0]])

		expression := strings.TrimSpace(s[matchIndexes[2]:matchIndexes[3]])
		program, err := expr.Compile(expression, expr.Env(env))
		if err != nil {
			return "", fmt.Errorf("failed to compile expression %q: %w", expression, err)
		}
		result, err := expr.Run(program, env)
		if err != nil {
			return "", fmt.Errorf("failed to run expression %q: %w", expression, err)
		}

		builder.WriteString(fmt.Sprintf("%v", result))
		lastIndex = matchIndexes[1]
	}

	builder.WriteString(s[lastIndex:])

	return builder.String(), nil
}

// processExpressions recursively walks the parsed TOML data and evaluates
// expressions inside string values
func processExpressions(data any, env ConfigEnv) (any, error) {
	switch v := data.(type) {
	case map[string]any:
		for key, val := range v {
			processedVal, err := processExpressions(val, env)
			if err != nil {
				return nil, err
			}
			v[key] = processedVal
		}
		return v, nil
	case []any:
		for i, item := range v {
			processedItem, err := processExpressions(item, env)
			if err != nil {
				return nil, err
			}
			v[i] = processedItem
		}
		return v, nil
	case string:
		return evaluateString(v, env)
	default:
		return data, nil
	}
}

func ParseConfig(rdr io.Reader, env ConfigEnv) (*Config, error) {
	var rawConfig map[string]any
	dec := toml.NewDecoder(rdr)
	if err := dec.Decode(&rawConfig); err != nil {
		if derr, ok := err.(*toml.DecodeError); ok {
			return nil, errors.New(derr.String())
		}
		return nil, err
	}

	processedConfig, err := processExpressions(rawConfig, env)
	if err != nil {
		return nil, fmt.Errorf("error processing expressions in config: %w", err)
	}
	rawConfig = processedConfig.(map[string]any)

	cfg := new(Config)

	if err := unmarshalSection(rawConfig, "emit", &cfg.Emit); err != nil {
		return nil, err
	}
	if err := unmarshalConditionalMap(rawConfig, "binaries", &cfg.Binaries, env); err != nil {
		return nil, err
	}
	if err := unmarshalConditionalMap(rawConfig, "options", &cfg.Options, env); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadConfig parses nativeconf.toml from the given directory. A missing
// file is not an error: everything has a default.
func LoadConfig(dir string, env ConfigEnv) (*Config, error) {
	f, err := os.Open(filepath.Join(dir, ConfigFileName))
	if errors.Is(err, os.ErrNotExist) {
		return new(Config), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseConfig(bufio.NewReader(f), env)
}
