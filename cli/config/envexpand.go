// Package config handles YAML config file loading for the midiwatch commands.
package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// envRefPattern matches ${VAR}, ${VAR:-default} and the escaped form $${VAR}.
var envRefPattern = regexp.MustCompile(`\$(\$)?\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// UndefinedEnvError lists variables referenced without a default that are
// not set in the environment.
type UndefinedEnvError struct {
	Names []string // Sorted, without duplicates.
}

func (e *UndefinedEnvError) Error() string {
	return fmt.Sprintf("undefined environment variables: %s", strings.Join(e.Names, ", "))
}

// ExpandEnv substitutes environment references in a config document.
//
//   - ${VAR} is the value of VAR. VAR must be set, though it may be empty.
//   - ${VAR:-default} is the value of VAR, or default when VAR is unset or empty.
//   - $${VAR} is kept as the literal text ${VAR}.
//
// Every unset variable without a default is reported in a single
// *UndefinedEnvError.
func ExpandEnv(input string) (string, error) {
	missing := map[string]struct{}{}
	out := envRefPattern.ReplaceAllStringFunc(input, func(ref string) string {
		groups := envRefPattern.FindStringSubmatch(ref)
		escaped, name := groups[1] != "", groups[2]
		if escaped {
			return ref[1:]
		}

		value, ok := os.LookupEnv(name)
		hasDefault := strings.Contains(ref, ":-")
		switch {
		case ok && value != "":
			return value
		case hasDefault:
			return groups[3]
		case ok:
			return ""
		}
		missing[name] = struct{}{}
		return ref
	})

	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for name := range missing {
			names = append(names, name)
		}
		sort.Strings(names)
		return "", &UndefinedEnvError{Names: names}
	}
	return out, nil
}
