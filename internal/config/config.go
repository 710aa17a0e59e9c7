package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr          string
	Port                string
	DatabasePath        string
	GinMode             string
	JWTSecret           string
	TokenTTLHours       int
	RedisAddr           string
	ReminderQueueKey    string
	ReminderPollSeconds int
	DemoUserEmail       string
	DemoUserPassword    string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
// 若工作目录存在 .env 文件则先行加载，缺失时静默回退到进程环境。
func Load() AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}

	port := getEnv("PORT", "8080")

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	redisHost := getEnv("REDIS_HOST", "")
	redisPort := getEnv("REDIS_PORT", "6379")
	redisAddr := ""
	if redisHost != "" {
		redisAddr = fmt.Sprintf("%s:%s", redisHost, redisPort)
	}

	return AppConfig{
		ListenAddr:          listenAddr,
		Port:                port,
		DatabasePath:        getEnv("DATABASE_PATH", "focuslog.db"),
		GinMode:             getEnv("GIN_MODE", "release"),
		JWTSecret:           getEnv("JWT_SECRET", "focuslog-dev-secret"),
		TokenTTLHours:       getEnvAsInt("TOKEN_TTL_HOURS", 24),
		RedisAddr:           redisAddr,
		ReminderQueueKey:    getEnv("REMINDER_QUEUE_KEY", "task_reminders"),
		ReminderPollSeconds: getEnvAsInt("REMINDER_POLL_SECONDS", 30),
		DemoUserEmail:       getEnv("DEMO_USER_EMAIL", ""),
		DemoUserPassword:    getEnv("DEMO_USER_PASSWORD", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid integer value for %s", key)
	}
	return i
}
