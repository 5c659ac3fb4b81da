package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

// Settings 是进程级配置，来自环境变量（支持 .env 文件）。
type Settings struct {
	ModelPath      string // 打分模型产物：.txt/.txt.gz/.json 或 http(s) 地址
	VocabPath      string // 品牌词表产物（msgpack）
	PipelineConfig string // 可选的 YAML pipeline 配置，设置后忽略 ModelPath/VocabPath

	TopN           int
	OutputDir      string
	MaxConcurrency int

	RedisAddr   string
	RedisDB     int
	DatabaseURL string // postgres://... 或 sqlite 文件路径

	ListenAddr string
	LogLevel   string
}

// LoadSettings 读取 .env（可指定文件，默认当前目录）并返回配置。
func LoadSettings(envFiles ...string) *Settings {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Debug().Msg("no .env file found, falling back to system env vars")
	}

	return &Settings{
		ModelPath:      getEnv("MODEL_PATH", "artifacts/model.txt"),
		VocabPath:      getEnv("VOCAB_PATH", "artifacts/brand_vocab.msgpack"),
		PipelineConfig: getEnv("PIPELINE_CONFIG", ""),

		TopN:           getEnvInt("TOP_N", core.DefaultTopN),
		OutputDir:      getEnv("OUTPUT_DIR", "."),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 4),

		RedisAddr:   getEnv("REDIS_ADDR", ""),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
		log.Warn().Str("key", key).Str("value", val).Msg("invalid integer in environment, using default")
	}
	return fallback
}
