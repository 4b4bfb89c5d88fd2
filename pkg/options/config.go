package options

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gpurouter/pkg/known"
)

// Bind layers environment variables (GPUROUTER_<FLAG>) and an optional config
// file under the command line. Flags set explicitly always win; other flags
// take the config value when one exists.
func Bind(flags *pflag.FlagSet, configFile string) error {
	v := viper.New()
	v.SetEnvPrefix(known.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config %s", configFile)
		}
	}
	if err := v.BindPFlags(flags); err != nil {
		return errors.Wrap(err, "failed to bind flags")
	}

	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || f.Name == "config" {
			return
		}
		if !v.IsSet(f.Name) {
			return
		}
		value := v.GetString(f.Name)
		if value == f.DefValue {
			return
		}
		if setErr := flags.Set(f.Name, value); setErr != nil {
			err = errors.Wrapf(setErr, "invalid value %q for %s", value, f.Name)
		}
	})
	return err
}
