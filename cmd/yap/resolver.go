package main

import (
	"fmt"

	"cuelang.org/go/cue"
	"github.com/alecthomas/kong"
)

// configKeys maps command flags to configuration paths.
var configKeys = map[string]map[string]string{
	"read": {
		"address": "address",
		"timeout": "timeout",
		"serial":  "serial.path",
		"baud":    "serial.baud_rate",
	},
	"serve": {
		"listen": "responder.listen",
	},
	"gateway": {
		"listen":  "gateway.listen",
		"address": "address",
		"timeout": "timeout",
	},
}

// configResolver supplies flag values from a loaded configuration. Values
// are handed to kong as strings so each flag's own mapper parses them.
func configResolver(val cue.Value) kong.Resolver {
	return kong.ResolverFunc(func(ctx *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		if parent.Command == nil {
			return nil, nil
		}
		key, ok := configKeys[parent.Command.Name][flag.Name]
		if !ok {
			return nil, nil
		}

		v := val.LookupPath(cue.ParsePath(key))
		if !v.Exists() {
			return nil, nil
		}
		switch v.Kind() {
		case cue.StringKind:
			return v.String()
		case cue.IntKind, cue.FloatKind, cue.NumberKind, cue.BoolKind:
			return fmt.Sprint(v), nil
		default:
			return nil, fmt.Errorf("%s: unsupported value of kind %s", key, v.Kind())
		}
	})
}
