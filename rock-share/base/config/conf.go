package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"rds-igsplit/rock-share/base/logger"
)

// All 全部配置索引，InitConfig 之后可用
var All *AllConfig

var DefaultPath = "./config"
var DebugPath = "./config"

const envPrefix = "IGSPLIT"

// AllConfig 全部配置文件
type AllConfig struct {
	Server ServerConfig `mapstructure:"server_config"`
	Logger LoggerConfig `mapstructure:"logger_config"`
	Split  SplitConfig  `mapstructure:"split_config"`
}

type ServerConfig struct {
	HttpPort  string `mapstructure:"http_port"`
	SentryDsn string `mapstructure:"sentry_dsn"`
}

type LoggerConfig struct {
	Level        string        `mapstructure:"level"`
	Path         string        `mapstructure:"path"`
	MaxAge       time.Duration `mapstructure:"max_age"`       // 天
	RotationTime time.Duration `mapstructure:"rotation_time"` // 小时
	RotationSize uint32        `mapstructure:"rotation_size"` // MB
}

// SplitConfig 划分评估相关
type SplitConfig struct {
	Data         string `mapstructure:"data"`
	Labels       string `mapstructure:"labels"` // Labels npy格式时label单独一个文件
	Descriptor   string `mapstructure:"descriptor"`
	CoWorkerNum  int    `mapstructure:"co_worker_num"`
	OutputFormat string `mapstructure:"output_format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_config.http_port", "19123")
	v.SetDefault("logger_config.level", "info")
	v.SetDefault("logger_config.max_age", 7)
	v.SetDefault("logger_config.rotation_time", 24)
	v.SetDefault("logger_config.rotation_size", 1024)
	v.SetDefault("split_config.co_worker_num", 4)
	v.SetDefault("split_config.output_format", "table")
}

// InitConfig 读取 config.yml；DEBUG=true 时叠加 debug.yml。文件不存在时只用默认值和环境变量
func InitConfig(configFile string) error {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if len(configFile) != 0 {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(DefaultPath)
		v.SetConfigName("config")
		v.SetConfigType("yml")
	}

	fromFile := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrap(err, "read config")
		}
		fromFile = false
	}

	if os.Getenv("DEBUG") == "true" {
		debugFile := filepath.Join(DebugPath, "debug.yml")
		if exists, _ := isExists(debugFile); exists {
			v.SetConfigFile(debugFile)
			if err := v.MergeInConfig(); err != nil {
				return errors.Wrapf(err, "merge %s", debugFile)
			}
		}
	}

	all := &AllConfig{}
	if err := v.Unmarshal(all); err != nil {
		return errors.Wrap(err, "unmarshal config")
	}
	All = all

	if fromFile {
		// 监控配置文件变化，目前只记录
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			logger.Infof("config file changed: %s", e.Name)
		})
	}
	return nil
}

// LoggerOptions 转换成 logger.InitLogger 的参数
func (c *AllConfig) LoggerOptions(projectName string) logger.Options {
	return logger.Options{
		Level:        c.Logger.Level,
		ProjectName:  projectName,
		Path:         c.Logger.Path,
		MaxAge:       c.Logger.MaxAge,
		RotationTime: c.Logger.RotationTime,
		RotationSize: c.Logger.RotationSize,
		SentryDsn:    c.Server.SentryDsn,
	}
}

func (c *AllConfig) String() string {
	return fmt.Sprintf("%+v", *c)
}

func isExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
