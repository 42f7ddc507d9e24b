package loader

import (
	"os"
	"strconv"
	"strings"
)

// DefaultEnvPrefix prefixes every docline environment variable.
const DefaultEnvPrefix = "DOCLINE_"

// EnvLoader maps environment variables onto configuration paths.
type EnvLoader struct {
	lookup  func(string) (string, bool)
	mapping map[string]string // variable -> dotted config path
}

// NewEnvLoader creates a loader with the default mapping for prefix.
func NewEnvLoader(prefix string) *EnvLoader {
	return NewEnvLoaderWithMapping(defaultEnvMapping(prefix))
}

// NewEnvLoaderWithMapping creates a loader with a custom mapping.
func NewEnvLoaderWithMapping(mapping map[string]string) *EnvLoader {
	return &EnvLoader{lookup: os.LookupEnv, mapping: mapping}
}

func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "TAB_WIDTH":    "layout.tabWidth",
		prefix + "WRAP_WIDTH":   "layout.wrapWidth",
		prefix + "WRAP_AT_WORD": "layout.wrapAtWord",
		prefix + "CELL_WIDTH":   "layout.cellWidth",
		prefix + "LINE_HEIGHT":  "layout.lineHeight",
		prefix + "STYLE":        "formats.style",
		prefix + "INDENT_RULE":  "indent.script",
	}
}

// Load returns the set variables as a nested map. Empty values are kept.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	for env, path := range l.mapping {
		if val, ok := l.lookup(env); ok {
			setByPath(config, path, parseValue(val))
		}
	}
	if len(config) == 0 {
		return nil, nil
	}
	return config, nil
}

// AddMapping maps envVar onto the dotted configPath.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// parseValue converts s to a bool, integer or float when it looks like one.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
