package config

import (
	"flag"

	"yunion.io/x/pkg/errors"
)

// Flags are the command line settings of the app-hook binary. Only flags
// that were set explicitly override the file and env.
type Flags struct {
	ConfigPath string

	addr             string
	port             int
	route            string
	value            string
	ulimitNofileHard int
	ulimitNofileSoft int

	fs *flag.FlagSet
}

func BindFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.ConfigPath, "config", "", "config file, .yaml/.yml or .vdf")
	fs.StringVar(&f.addr, "addr", "", "HTTP server listen address (default 127.0.0.1)")
	fs.IntVar(&f.port, "port", 0, "HTTP server listen port (default 8080)")
	fs.StringVar(&f.route, "route", "", "route the value is served on (default /app)")
	fs.StringVar(&f.value, "value", "", "value served on the route")
	fs.IntVar(&f.ulimitNofileHard, "ulimit-nofile-hard", 0, "ulimit nofile hard (default 10240)")
	fs.IntVar(&f.ulimitNofileSoft, "ulimit-nofile-soft", 0, "ulimit nofile soft (default 10240)")
	return f
}

// Apply copies the explicitly set flags into cfg, an empty -value="" included.
func (f *Flags) Apply(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "addr":
			cfg.Server.Addr = f.addr
		case "port":
			cfg.Server.Port = f.port
		case "route":
			cfg.Server.Route = f.route
		case "value":
			cfg.Server.Value = f.value
		case "ulimit-nofile-hard":
			cfg.Server.UlimitNofileHard = f.ulimitNofileHard
		case "ulimit-nofile-soft":
			cfg.Server.UlimitNofileSoft = f.ulimitNofileSoft
		}
	})
}

// Resolve 合并配置文件、环境变量和命令行参数（优先级依次升高），最后统一校验
func Resolve(f *Flags) (*Config, error) {
	cfg, err := Load(f.ConfigPath)
	if err != nil {
		return nil, err
	}
	ApplyEnv(cfg)
	f.Apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	return cfg, nil
}
