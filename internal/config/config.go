package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Common holds the settings every service shares.
type Common struct {
	ListenAddr      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)
}

// S3 holds object-store connection settings (MinIO or any S3-compatible store).
type S3 struct {
	Endpoint       string
	AccessKey      string
	SecretKey      string
	Bucket         string
	Region         string
	UseSSL         bool
	ForcePathStyle bool
}

// Moments is the configuration of the moments service.
type Moments struct {
	Common

	MongoURI          string
	MongoDBName       string
	PhotostockBaseURL string        // optional, empty => /media proxy disabled
	PhotostockTimeout time.Duration // upstream timeout for the media proxy
}

// Carousel is the configuration of the carousel service.
type Carousel struct {
	Common
	S3

	RedisAddr     string // optional, empty => listing cache disabled
	RedisPassword string
	RedisDB       int
	IndexCacheTTL time.Duration
}

// Photostock is the configuration of the image lookup service.
type Photostock struct {
	Common
	S3
}

// Timer is the configuration of the timer service.
type Timer struct {
	Common

	StartTime time.Time
}

// Timeline is the configuration of the timeline shell service.
type Timeline struct {
	Common

	APIBaseURL           string
	CardsListPath        string
	CardByIDPathTemplate string
	ImagesPath           string
	TimerPath            string
	RequestTimeoutMs     int
	CacheTTLMs           int
	MaxMoments           int
	BatchSize            int
	MaxRetries           int
	TimerSyncIntervalMs  int
	StaticDir            string
	UpstreamsFile        string // optional YAML file overriding the client paths
}

const defaultTimerStart = "2025-03-06T18:00:00Z"

func LoadMoments() *Moments {
	loadDotenv()
	return &Moments{
		Common:            loadCommon("MOMENTS", ":8081"),
		MongoURI:          requireEnv("MONGO_URI"),
		MongoDBName:       requireEnv("MONGO_DB_NAME"),
		PhotostockBaseURL: strings.TrimRight(getenv("PHOTOSTOCK_BASE_URL", ""), "/"),
		PhotostockTimeout: time.Duration(positiveIntEnv("PHOTOSTOCK_TIMEOUT_MS", 2000)) * time.Millisecond,
	}
}

func LoadCarousel() *Carousel {
	loadDotenv()
	return &Carousel{
		Common:        loadCommon("CAROUSEL", ":8083"),
		S3:            loadS3(),
		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),
		IndexCacheTTL: mustDuration("CAROUSEL_INDEX_CACHE_TTL", 30*time.Second),
	}
}

func LoadPhotostock() *Photostock {
	loadDotenv()
	return &Photostock{
		Common: loadCommon("PHOTOSTOCK", ":8082"),
		S3:     loadS3(),
	}
}

func LoadTimer() *Timer {
	loadDotenv()
	raw := getenv("TIMER_START_TIME", defaultTimerStart)
	start, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		panic(fmt.Sprintf("FATAL: invalid TIMER_START_TIME %q: %v", raw, err))
	}
	return &Timer{
		Common:    loadCommon("TIMER", ":8084"),
		StartTime: start.UTC(),
	}
}

func LoadTimeline() *Timeline {
	loadDotenv()
	return &Timeline{
		Common:               loadCommon("TIMELINE", ":8085"),
		APIBaseURL:           strings.TrimRight(getenv("API_BASE_URL", ""), "/"),
		CardsListPath:        getenv("CARDS_LIST_PATH", "/api/cards"),
		CardByIDPathTemplate: getenv("CARD_BY_ID_PATH_TEMPLATE", "/api/cards/{id}"),
		ImagesPath:           getenv("IMAGES_PATH", "/api/images"),
		TimerPath:            getenv("TIMER_PATH", "/api/timer"),
		RequestTimeoutMs:     positiveIntEnv("REQUEST_TIMEOUT_MS", 6000),
		CacheTTLMs:           positiveIntEnv("CACHE_TTL_MS", 45000),
		MaxMoments:           positiveIntEnv("MAX_MOMENTS", 500),
		BatchSize:            positiveIntEnv("BATCH_SIZE", 16),
		MaxRetries:           positiveIntEnv("MAX_RETRIES", 2),
		TimerSyncIntervalMs:  positiveIntEnv("TIMER_SYNC_INTERVAL_MS", 20000),
		StaticDir:            getenv("TIMELINE_STATIC_DIR", "static"),
		UpstreamsFile:        getenv("TIMELINE_UPSTREAMS_FILE", ""),
	}
}

func loadCommon(prefix, defaultAddr string) Common {
	return Common{
		ListenAddr:      getenv(prefix+"_LISTEN_ADDR", defaultAddr),
		ShutdownTimeout: mustDuration(prefix+"_SHUTDOWN_TIMEOUT", 5*time.Second),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		PrettyLog:       mustBool("PRETTY_LOG", false),
	}
}

func loadS3() S3 {
	return S3{
		Endpoint:       requireEnv("S3_ENDPOINT"),
		AccessKey:      requireEnv("S3_ACCESS_KEY"),
		SecretKey:      requireEnv("S3_SECRET_KEY"),
		Bucket:         requireEnv("S3_BUCKET"),
		Region:         getenv("S3_REGION", "us-east-1"),
		UseSSL:         mustBool("S3_USE_SSL", false),
		ForcePathStyle: mustBool("S3_FORCE_PATH_STYLE", true),
	}
}

// loadDotenv walks up from the working directory and loads the first .env it
// finds. Real deployments pass env through the process environment; the file
// only serves local development and never overrides existing variables.
func loadDotenv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for {
		candidate := filepath.Join(dir, ".env")
		if _, err := os.Stat(candidate); err == nil {
			_ = godotenv.Load(candidate)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// helpers
func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		panic(fmt.Sprintf("FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// positiveIntEnv behaves like getenvInt but also rejects zero and negatives,
// falling back to the default instead of failing.
func positiveIntEnv(key string, def int) int {
	i := getenvInt(key, def)
	if i < 1 {
		return def
	}
	return i
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
