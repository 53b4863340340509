// Package flagx picks the global budget flags out of a command line that also
// carries a subcommand and its own flags.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// ConfigFlags are the names accepted for the JSON config file path.
var ConfigFlags = []string{"-c", "-config", "--config"}

// split breaks "-name=value" into its parts. inline is false when arg carries
// no '='.
func split(arg string) (name, value string, inline bool) {
	name, value, inline = strings.Cut(arg, "=")
	return name, value, inline
}

// FilterArgs returns the arguments that belong to allowedFlags, keeping
// their values. A value is taken either inline ("-d=x.db") or from the next
// argument when that argument does not start with '-'. Scanning stops at "--".
// The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]bool, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, inline := split(arg)
		if !allowed[name] {
			continue
		}
		out = append(out, arg)
		if inline {
			continue
		}
		if next := i + 1; next < len(args) && !strings.HasPrefix(args[next], "-") {
			out = append(out, args[next])
			i = next
		}
	}
	return out
}

// ConfigPath returns the config file named by -c, -config or --config in
// args, or "" when none is given. The last occurrence wins.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	// flag treats "--config" and "-config" alike.
	fs.StringVar(&path, "c", "", "path to the JSON config file")
	fs.StringVar(&path, "config", "", "path to the JSON config file")
	_ = fs.Parse(FilterArgs(args, ConfigFlags))

	return path
}
