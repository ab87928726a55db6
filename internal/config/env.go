// Package config fills command flags from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const globalPrefix = "parsnip"

// EnvPrefix returns the environment variable prefix for cmd:
// PARSNIP for the root command and PARSNIP_<NAME> for subcommands, with
// nested subcommand names joined by underscores.
func EnvPrefix(cmd *cobra.Command) string {
	var names []string
	for c := cmd; c.HasParent(); c = c.Parent() {
		names = append([]string{c.Name()}, names...)
	}
	return strings.Join(append([]string{globalPrefix}, names...), "_")
}

func newEnv(prefix string) *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	return v
}

// ApplyEnv sets every flag of cmd that was not given on the command line
// from the environment variable <prefix>_<FLAG>, where dashes in the
// flag name become underscores. Flags inherited from the root command use
// the root prefix.
func ApplyEnv(cmd *cobra.Command) error {
	var errs []string
	local := newEnv(EnvPrefix(cmd))
	global := newEnv(globalPrefix)
	inherited := cmd.InheritedFlags()

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		v := local
		if inherited.Lookup(f.Name) != nil {
			v = global
		}
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name))); err != nil {
			errs = append(errs, err.Error())
		}
	})

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("map environment to flags of %s: %s", cmd.Name(), strings.Join(errs, "; "))
}
