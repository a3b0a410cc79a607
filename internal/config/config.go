// Package config loads the engine's process-wide, immutable-after-init
// configuration from .env / the environment, the way karma/config does it.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Tier is a preset bundle of dimension/concurrency/cache defaults.
type Tier string

const (
	TierHybrid Tier = "hybrid"
	TierFast   Tier = "fast"
	TierSmart  Tier = "smart"
	TierDeep   Tier = "deep"
)

type MetadataBackend string

const (
	MetadataBackendSQLite   MetadataBackend = "sqlite"
	MetadataBackendPostgres MetadataBackend = "postgres"
)

type VectorBackend string

const (
	VectorBackendInproc   VectorBackend = "inproc"
	VectorBackendExternal VectorBackend = "external"
)

type ExternalVectorKind string

const (
	ExternalVectorUpstash  ExternalVectorKind = "upstash"
	ExternalVectorPinecone ExternalVectorKind = "pinecone"
)

type EmbedProvider string

const (
	EmbedOpenAI    EmbedProvider = "openai"
	EmbedGemini    EmbedProvider = "gemini"
	EmbedBedrock   EmbedProvider = "bedrock"
	EmbedSynthetic EmbedProvider = "synthetic"
)

type EmbedMode string

const (
	EmbedModeSimple   EmbedMode = "simple"
	EmbedModeAdvanced EmbedMode = "advanced"
)

// Config is the closed set of recognized keys from spec §6. Unlike the
// teacher's reflection-based CustomConfig, this struct is bounded and known
// ahead of time, so plain field assignment is clearer than reflection.
type Config struct {
	Port int

	MetadataBackend MetadataBackend
	DBPath          string // sqlite file path
	DatabaseURL     string // postgres DSN

	VectorBackend      VectorBackend
	ExternalVectorKind ExternalVectorKind
	VectorCollectionPrefix string

	UpstashVectorURL   string
	UpstashVectorToken string
	PineconeAPIKey     string
	PineconeIndexHost  string

	EmbedProvider EmbedProvider
	VecDim        int
	EmbedMode     EmbedMode
	EmbedDelayMs  int
	EmbedParallel bool

	OpenAIKey      string
	GeminiAPIKey   string
	AWSRegion      string

	Tier Tier

	MinScore         float64
	KeywordBoost     float64
	KeywordMinLength int
	ExpandThreshold  float64

	DecayThreads         int
	ColdThreshold        float64
	ReinforceOnQuery     bool
	RegenerationEnabled  bool
	DefaultReinforceBoost float64

	MaxVectorDim    int
	MinVectorDim    int
	SummaryLayers   int
	UseSummaryOnly  bool
	SummaryMaxLen   int
	SegSize         int
	CacheSegments   int
	MaxActive       int

	AutoReflect         bool
	ReflectInterval      time.Duration
	ReflectMinMemories   int

	CompressionEnabled    bool
	CompressionMinLength  int
	CompressionAlgorithm  string

	RedisURL string

	PostHogAPIKey string
	PostHogHost   string

	S3ArchiveBucket string

	RequestTimeout time.Duration
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// tierDefaults mirrors spec §6: tier sets defaults for vec_dim,
// cache_segments, max_active.
func tierDefaults(tier Tier) (vecDim, cacheSegments, maxActive int) {
	switch tier {
	case TierFast:
		return 384, 2, 32
	case TierSmart:
		return 1024, 4, 64
	case TierDeep:
		return 1536, 8, 128
	default: // hybrid
		return 768, 3, 48
	}
}

// Load reads .env (best-effort) then the environment into a Config,
// applying tier defaults before explicit overrides.
func Load(logger *zap.Logger) *Config {
	if err := godotenv.Load(); err != nil && logger != nil {
		logger.Debug("hsg: no .env file loaded", zap.Error(err))
	}

	tier := Tier(strings.ToLower(envOr("TIER", string(TierHybrid))))
	defVecDim, defCacheSegments, defMaxActive := tierDefaults(tier)

	cfg := &Config{
		Port: envIntOr("PORT", 8085),

		MetadataBackend: MetadataBackend(envOr("METADATA_BACKEND", string(MetadataBackendSQLite))),
		DBPath:          envOr("DB_PATH", "./hsg.db"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),

		VectorBackend:          VectorBackend(envOr("VECTOR_BACKEND", string(VectorBackendInproc))),
		ExternalVectorKind:     ExternalVectorKind(envOr("EXTERNAL_VECTOR_KIND", string(ExternalVectorUpstash))),
		VectorCollectionPrefix: envOr("VECTOR_COLLECTION_PREFIX", "openmemory_vectors"),

		UpstashVectorURL:   os.Getenv("HSG_UPSTASH_VECTOR_REST_URL"),
		UpstashVectorToken: os.Getenv("HSG_UPSTASH_VECTOR_REST_TOKEN"),
		PineconeAPIKey:     os.Getenv("HSG_PINECONE_API_KEY"),
		PineconeIndexHost:  os.Getenv("HSG_PINECONE_INDEX_HOST"),

		EmbedProvider: EmbedProvider(envOr("EMBEDDINGS", string(EmbedSynthetic))),
		VecDim:        envIntOr("VEC_DIM", defVecDim),
		EmbedMode:     EmbedMode(envOr("EMBED_MODE", string(EmbedModeSimple))),
		EmbedDelayMs:  envIntOr("EMBED_DELAY_MS", 0),
		EmbedParallel: envBoolOr("EMBED_PARALLEL", false),

		OpenAIKey:    os.Getenv("OPENAI_KEY"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		AWSRegion:    envOr("AWS_REGION", "us-east-1"),

		Tier: tier,

		MinScore:         envFloatOr("MIN_SCORE", 0.15),
		KeywordBoost:     envFloatOr("KEYWORD_BOOST", 0.5),
		KeywordMinLength: envIntOr("KEYWORD_MIN_LENGTH", 3),
		ExpandThreshold:  envFloatOr("EXPAND_THRESHOLD", 0.6),

		DecayThreads:          envIntOr("DECAY_THREADS", 2),
		ColdThreshold:         envFloatOr("COLD_THRESHOLD", 0.15),
		ReinforceOnQuery:      envBoolOr("REINFORCE_ON_QUERY", true),
		RegenerationEnabled:   envBoolOr("REGENERATION_ENABLED", true),
		DefaultReinforceBoost: envFloatOr("DEFAULT_REINFORCE_BOOST", 0.1),

		MaxVectorDim:   envIntOr("MAX_VECTOR_DIM", 4096),
		MinVectorDim:   envIntOr("MIN_VECTOR_DIM", 16),
		SummaryLayers:  envIntOr("SUMMARY_LAYERS", 1),
		UseSummaryOnly: envBoolOr("USE_SUMMARY_ONLY", false),
		SummaryMaxLen:  envIntOr("SUMMARY_MAX_LENGTH", 280),
		SegSize:        envIntOr("SEG_SIZE", 256),
		CacheSegments:  envIntOr("CACHE_SEGMENTS", defCacheSegments),
		MaxActive:      envIntOr("MAX_ACTIVE", defMaxActive),

		AutoReflect:        envBoolOr("AUTO_REFLECT", true),
		ReflectInterval:    time.Duration(envIntOr("REFLECT_INTERVAL_MINUTES", 30)) * time.Minute,
		ReflectMinMemories: envIntOr("REFLECT_MIN_MEMORIES", 20),

		CompressionEnabled:   envBoolOr("COMPRESSION_ENABLED", false),
		CompressionMinLength: envIntOr("COMPRESSION_MIN_LENGTH", 512),
		CompressionAlgorithm: envOr("COMPRESSION_ALGORITHM", "auto"),

		RedisURL: os.Getenv("REDIS_URL"),

		PostHogAPIKey: os.Getenv("POSTHOG_API_KEY"),
		PostHogHost:   envOr("POSTHOG_HOST", "https://app.posthog.com"),

		S3ArchiveBucket: os.Getenv("HSG_S3_ARCHIVE_BUCKET"),

		RequestTimeout: 30 * time.Second,
	}

	return cfg
}
