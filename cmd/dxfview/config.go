package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

const defaultConfig = "~/.dxfview.toml"

type Config struct {
	LogLevel  string  `toml:"log_level"`
	Encoding  string  `toml:"encoding"` // 非 UTF-8 文件的编码，如 gbk、big5、windows-1252
	MaxDepth  int     `toml:"max_depth"`
	Tolerance float64 `toml:"tolerance"` // 点选容差（图纸单位）

	Cluster ClusterConfig `toml:"cluster"`
}

type ClusterConfig struct {
	Layer   string  `toml:"layer"`   // 只聚合该图层的实体，为空时取所有顶层实体
	Gap     float64 `toml:"gap"`     // 散线连接容错(不超过则认为是同一组)
	DimGap  float64 `toml:"dim_gap"` // 标注连接线容错(不超过则认为挨着分组周围)
	Epsilon float64 `toml:"epsilon"` // 浮点数对比精度误差
}

func defaults() Config {
	return Config{
		LogLevel:  "warn",
		MaxDepth:  20,
		Tolerance: 1,
		Cluster: ClusterConfig{
			Gap:     20,
			DimGap:  30,
			Epsilon: 1,
		},
	}
}

// loadConfig 读取 TOML 配置，文件不存在时使用默认值
func loadConfig(path string) (Config, error) {
	cfg := defaults()

	filename, err := homedir.Expand(path)
	if err != nil {
		return cfg, fmt.Errorf("expand config path: %w", err)
	}

	data, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err = toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", filename, err)
	}

	return cfg, nil
}

func (c Config) level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}

func (c Config) encoding() (encoding.Encoding, error) {
	if c.Encoding == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(strings.ToLower(c.Encoding))
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", c.Encoding, err)
	}
	return enc, nil
}
