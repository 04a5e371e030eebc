package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"yunion.io/x/log"
	"yunion.io/x/pkg/errors"

	"github.com/zexi/app-hook/pkg/handlers"
	"github.com/zexi/app-hook/pkg/util/vdfutil"
)

const (
	DefaultAddr         = "127.0.0.1"
	DefaultPort         = 8080
	DefaultRoute        = "/app"
	DefaultUlimitNofile = 10240
	DefaultTimeout      = 15 * time.Second

	EnvValue = "APP_HOOK_VALUE"
	EnvRoute = "APP_HOOK_ROUTE"
	EnvPort  = "APP_HOOK_PORT"

	vdfRoot = "app-hook"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	Port int    `yaml:"port"`

	// Route is the path the value is served on
	Route string `yaml:"route"`

	// Value is handed to the shared state once at startup and never changes afterwards
	Value string `yaml:"value"`

	UlimitNofileHard int `yaml:"ulimit_nofile_hard"`
	UlimitNofileSoft int `yaml:"ulimit_nofile_soft"`

	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:             DefaultAddr,
			Port:             DefaultPort,
			Route:            DefaultRoute,
			UlimitNofileHard: DefaultUlimitNofile,
			UlimitNofileSoft: DefaultUlimitNofile,
			ReadTimeout:      DefaultTimeout,
			WriteTimeout:     DefaultTimeout,
		},
	}
}

// Load reads the config file at path on top of the defaults. An empty path
// returns the defaults. The format is chosen by file extension. The result is
// not validated, env and flags may still change it; see Resolve.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %q", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse yaml config %q", path)
		}
	case ".vdf":
		if err := loadVdf(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse vdf config %q", path)
		}
	default:
		return nil, errors.Errorf("config %q: unsupported format %q, want .yaml, .yml or .vdf", path, ext)
	}
	return cfg, nil
}

func loadVdf(data []byte, cfg *Config) error {
	doc, err := vdfutil.Parse(bytes.NewReader(data))
	if err != nil {
		return err
	}
	server, err := vdfutil.GetNode(doc, vdfRoot, "server")
	if err != nil {
		return err
	}

	for key, dst := range map[string]*string{
		"addr":  &cfg.Server.Addr,
		"route": &cfg.Server.Route,
		"value": &cfg.Server.Value,
	} {
		v, ok, err := vdfutil.GetString(server, key)
		if err != nil {
			return err
		}
		if ok {
			*dst = v
		}
	}

	for key, dst := range map[string]*int{
		"port":               &cfg.Server.Port,
		"ulimit_nofile_hard": &cfg.Server.UlimitNofileHard,
		"ulimit_nofile_soft": &cfg.Server.UlimitNofileSoft,
	} {
		n, ok, err := vdfutil.GetInt(server, key)
		if err != nil {
			return err
		}
		if ok {
			*dst = n
		}
	}

	for key, dst := range map[string]*time.Duration{
		"read_timeout":  &cfg.Server.ReadTimeout,
		"write_timeout": &cfg.Server.WriteTimeout,
	} {
		v, ok, err := vdfutil.GetString(server, key)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "%s", key)
		}
		*dst = d
	}
	return nil
}

// ApplyEnv 用环境变量覆盖配置文件中的值，端口非法时保留原值
func ApplyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvValue); ok {
		cfg.Server.Value = v
	}
	if v := os.Getenv(EnvRoute); v != "" {
		cfg.Server.Route = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			log.Warningf("ignore invalid %s=%q: %v", EnvPort, v, err)
		} else {
			cfg.Server.Port = port
		}
	}
}

func (c *Config) Validate() error {
	s := c.Server
	if s.Port <= 0 || s.Port > 65535 {
		return errors.Errorf("server.port %d is out of range [1, 65535]", s.Port)
	}
	if !strings.HasPrefix(s.Route, "/") {
		return errors.Errorf("server.route %q must start with /", s.Route)
	}
	// mux 会把 {name} 当作路径变量，可能吞掉保留路由
	if strings.ContainsAny(s.Route, "{}") {
		return errors.Errorf("server.route %q must be a plain path, no {} variables", s.Route)
	}
	switch s.Route {
	case handlers.StatusRoute, handlers.StopRoute, handlers.MetricsRoute:
		return errors.Errorf("server.route %q is reserved", s.Route)
	}
	if s.UlimitNofileHard <= 0 || s.UlimitNofileSoft <= 0 {
		return errors.Errorf("server.ulimit_nofile_hard %d and ulimit_nofile_soft %d must be positive", s.UlimitNofileHard, s.UlimitNofileSoft)
	}
	if s.UlimitNofileSoft > s.UlimitNofileHard {
		return errors.Errorf("server.ulimit_nofile_soft %d exceeds hard limit %d", s.UlimitNofileSoft, s.UlimitNofileHard)
	}
	if s.ReadTimeout < 0 || s.WriteTimeout < 0 {
		return errors.Errorf("server timeouts must not be negative")
	}
	return nil
}
