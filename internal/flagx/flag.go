// Package flagx holds helpers for components that each parse their own
// subset of the command line.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns the arguments that belong to allowedFlags, keeping the
// value that follows a flag when it is passed as a separate argument.
//
// Supported forms:
//
//	-c conf.json
//	--config=conf.json
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// pathFlag extracts a file path given either with -short or -long.
// Other arguments are ignored so it can run before the main flag set.
func pathFlag(args []string, short, long, usage string) string {
	var path string

	filtered := FilterArgs(args, []string{"-" + short, "-" + long})

	fs := flag.NewFlagSet(long, flag.ContinueOnError)
	fs.StringVar(&path, long, "", usage)
	fs.StringVar(&path, short, "", usage+" (short)")
	_ = fs.Parse(filtered)

	return path
}

// JsonConfigFlags returns the JSON config path passed via -c or -config,
// or an empty string.
func JsonConfigFlags() string {
	return pathFlag(os.Args[1:], "c", "config", "Path to config file")
}

// EnvFileFlags returns the dotenv file path passed via -e or -env,
// or an empty string.
func EnvFileFlags() string {
	return pathFlag(os.Args[1:], "e", "env", "Path to .env file")
}
