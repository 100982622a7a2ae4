package cmd

import (
	"github.com/gnames/fungidb/pkg/config"
	"github.com/spf13/cobra"
)

// flagOption converts a flag explicitly set by the user to an option.
// Flags that were not changed keep values from config.yaml and the
// environment.
type flagOption func(cmd *cobra.Command) (config.Option, bool)

func stringFlag(name string, opt func(string) config.Option) flagOption {
	return func(cmd *cobra.Command) (config.Option, bool) {
		if !cmd.Flags().Changed(name) {
			return nil, false
		}
		s, _ := cmd.Flags().GetString(name)
		return opt(s), true
	}
}

func intFlag(name string, opt func(int) config.Option) flagOption {
	return func(cmd *cobra.Command) (config.Option, bool) {
		if !cmd.Flags().Changed(name) {
			return nil, false
		}
		i, _ := cmd.Flags().GetInt(name)
		return opt(i), true
	}
}

func boolFlag(name string, opt func(bool) config.Option) flagOption {
	return func(cmd *cobra.Command) (config.Option, bool) {
		if !cmd.Flags().Changed(name) {
			return nil, false
		}
		b, _ := cmd.Flags().GetBool(name)
		return opt(b), true
	}
}

// applyFlags updates the global config with changed flags.
func applyFlags(cmd *cobra.Command, flags ...flagOption) {
	var res []config.Option
	for _, f := range flags {
		if opt, ok := f(cmd); ok {
			res = append(res, opt)
		}
	}
	if len(res) > 0 {
		cfg.Update(res)
	}
}
