package utils

import (
	"os"
	"strconv"
	"time"

	"node-data/internal/logger"
)

// EnvString：读取字符串环境变量，空值回退默认
func EnvString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// EnvInt：读取整数环境变量，非法值记录日志后回退默认
func EnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		logger.L().Error("config_bad_int", "key", key, "value", s)
		return def
	}
	return n
}

// EnvDuration：读取时长（如 30s、5m）；纯数字按秒解析
func EnvDuration(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second
	}
	logger.L().Error("config_bad_duration", "key", key, "value", s)
	return def
}
