package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Mining holds the thresholds and budgets of one mining run.
type Mining struct {
	MinSupport    float64
	MinConfidence float64
	TopN          int
	Workers       int
	MaxLevels     int
	Timeout       time.Duration
	AllowPartial  bool
}

// Viper keys for mining settings.
const (
	KeyMinSupport    = "mining.min_support"
	KeyMinConfidence = "mining.min_confidence"
	KeyTopN          = "mining.top_n"
	KeyWorkers       = "mining.workers"
	KeyMaxLevels     = "mining.max_levels"
	KeyTimeout       = "mining.timeout"
	KeyAllowPartial  = "mining.allow_partial"
)

// DefaultMining returns the default thresholds: 10% support, 60% confidence
// and the top 20 rules.
func DefaultMining() Mining {
	return Mining{
		MinSupport:    0.1,
		MinConfidence: 0.6,
		TopN:          20,
		Workers:       1,
	}
}

// SetMiningDefaults registers the defaults with v so config files, COOCCUR_
// environment variables and bound flags layer on top of them.
func SetMiningDefaults(v *viper.Viper) {
	d := DefaultMining()
	v.SetDefault(KeyMinSupport, d.MinSupport)
	v.SetDefault(KeyMinConfidence, d.MinConfidence)
	v.SetDefault(KeyTopN, d.TopN)
	v.SetDefault(KeyWorkers, d.Workers)
	v.SetDefault(KeyMaxLevels, d.MaxLevels)
	v.SetDefault(KeyTimeout, d.Timeout)
	v.SetDefault(KeyAllowPartial, d.AllowPartial)
}

// LoadMining reads mining settings from v. Values come from, in order of
// precedence: bound flags, COOCCUR_ environment variables, the config file,
// then the defaults.
func LoadMining(v *viper.Viper) Mining {
	return Mining{
		MinSupport:    v.GetFloat64(KeyMinSupport),
		MinConfidence: v.GetFloat64(KeyMinConfidence),
		TopN:          v.GetInt(KeyTopN),
		Workers:       v.GetInt(KeyWorkers),
		MaxLevels:     v.GetInt(KeyMaxLevels),
		Timeout:       v.GetDuration(KeyTimeout),
		AllowPartial:  v.GetBool(KeyAllowPartial),
	}
}

// EnvPrefix is the prefix of environment variables read by viper.
const EnvPrefix = "COOCCUR"

// BindEnv makes v read COOCCUR_ variables, with dots in keys replaced by
// underscores (COOCCUR_MINING_MIN_SUPPORT for mining.min_support).
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}
