package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/marketplace-sync/pkg/e"
	"github.com/DRSN-tech/marketplace-sync/pkg/logger"
	"github.com/jimlawless/whereami"
)

type Config struct {
	Minio       *MinIOCfg
	Http        *HTTPConfig
	Grpc        *GRPCConfig
	Db          *PGDBCfg
	Redis       *RedisCfg
	Kafka       *KafkaCfg
	Sync        *SyncCfg
	Locale      *LocaleCfg
	Permissions *PermissionsCfg
}

type KafkaCfg struct {
	Enabled           bool
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
	OutboxBatchSize   int
}

type MinIOCfg struct {
	Enabled           bool   // Включён ли архив фидов
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string // Бакет, в который складываются сырые фиды синхронизации
	MinioRootUser     string // Имя пользователя для доступа к Minio
	MinioRootPassword string // Пароль для доступа к Minio
	MinioUseSSL       bool
	Region            string
	UploadLimit       int     // Одновременных загрузок в архив
	UploadRPS         float64 // Запросов к хранилищу в секунду, 0 без ограничения
	RetainPerShop     int     // Сколько последних фидов магазина хранить
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	SwaggerURL   string
}

type GRPCConfig struct {
	Port        string
	NetworkMode string
}

type PGDBCfg struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MaxConns      int32
	MigrationsURL string
}

type RedisCfg struct {
	Addr         string
	Password     string
	User         string
	DB           int
	MaxRetries   int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	ShopTTL      time.Duration // TTL кэша магазина по токену синхронизации
	KeyPrefix    string        // Префикс ключей, чтобы делить один Redis между окружениями
}

// SyncCfg — настройки эндпоинта синхронизации остатков.
type SyncCfg struct {
	RateLimit       int           // Лимит запросов на один токен за окно
	RateLimitWindow time.Duration // Окно лимита
	MaxBodyBytes    int64         // Максимальный размер тела запроса
}

type LocaleCfg struct {
	DefaultLanguage string
}

// PermissionsCfg описывает набор возможностей для каждой роли.
// Формат переменной ROLE_PERMISSIONS: "admin:updateOrder|updateOrderProductDiscount;manager:updateOrder".
type PermissionsCfg struct {
	Roles map[string][]string
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	sync, err := loadSyncCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	permissions, err := loadPermissionsCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Minio:       minio,
		Http:        http,
		Grpc:        loadGRPCConfig(),
		Db:          db,
		Redis:       redis,
		Kafka:       kafka,
		Sync:        sync,
		Locale:      loadLocaleCfg(),
		Permissions: permissions,
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
		defaultTopic             = "marketplace-events"
		defaultOutboxBatchSize   = 50
	)

	brokerStr := os.Getenv("KAFKA_BROKERS")
	if brokerStr == "" {
		// Без брокеров outbox копится в БД и будет отправлен после включения Kafka.
		return &KafkaCfg{Enabled: false}, nil
	}
	brokers := strings.Split(brokerStr, ",")

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	batchSize, err := parseIntEnv("OUTBOX_BATCH_SIZE", defaultOutboxBatchSize)
	if err != nil {
		return nil, e.Wrap("OUTBOX_BATCH_SIZE", err)
	}

	return &KafkaCfg{
		Enabled:           true,
		Brokers:           brokers,
		Topic:             getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
		OutboxBatchSize:   batchSize,
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL   = false
		defaultEndpoint = "minio:9000"
		defaultBucket   = "sync-feeds"
		defaultRegion   = "us-east-1"
		defaultLimit    = 4
		defaultRetain   = 20
		defaultRPS      = 10
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	uploadLimit, err := parseIntEnv("MINIO_UPLOAD_LIMIT", defaultLimit)
	if err != nil {
		log.Errorf(err, "invalid MINIO_UPLOAD_LIMIT")
		return nil, err
	}
	if uploadLimit <= 0 {
		uploadLimit = defaultLimit
	}

	uploadRPS, err := strconv.ParseFloat(getEnvOrDefault("MINIO_UPLOAD_RPS", strconv.Itoa(defaultRPS)), 64)
	if err != nil {
		log.Errorf(err, "invalid MINIO_UPLOAD_RPS")
		return nil, err
	}

	retain, err := parseIntEnv("MINIO_RETAIN_PER_SHOP", defaultRetain)
	if err != nil {
		log.Errorf(err, "invalid MINIO_RETAIN_PER_SHOP")
		return nil, err
	}

	user := getEnv("MINIO_ROOT_USER")

	return &MinIOCfg{
		Enabled:           user != "",
		MinioEndpoint:     getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint),
		BucketName:        getEnvOrDefault("BUCKET_NAME", defaultBucket),
		MinioRootUser:     user,
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
		Region:            getEnvOrDefault("MINIO_REGION", defaultRegion),
		UploadLimit:       uploadLimit,
		UploadRPS:         uploadRPS,
		RetainPerShop:     retain,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 60 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		SwaggerURL:   getEnvOrDefault("SWAGGER_URL", "http://localhost:"+port+"/swagger/doc.json"),
	}, nil
}

func loadGRPCConfig() *GRPCConfig {
	const (
		defaultPort        = "8091"
		defaultNetworkMode = "tcp"
	)

	return &GRPCConfig{
		Port:        getEnvOrDefault("GRPC_PORT", defaultPort),
		NetworkMode: getEnvOrDefault("GRPC_NETWORK_MODE", defaultNetworkMode),
	}
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost          = "localhost"
		defaultPort          = "5432"
		defaultSSLMode       = "disable"
		defaultMigrationsURL = "file://db/migrations"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	maxConns, err := parseIntEnv("POSTGRES_MAX_CONNS", 0)
	if err != nil {
		log.Errorf(err, "invalid POSTGRES_MAX_CONNS")
		return nil, err
	}

	return &PGDBCfg{
		Host:          getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:          getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:          user,
		Password:      password,
		DBName:        dbName,
		SSLMode:       getEnvOrDefault("SSL_MODE", defaultSSLMode),
		MaxConns:      int32(maxConns),
		MigrationsURL: getEnvOrDefault("MIGRATIONS_URL", defaultMigrationsURL),
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultShopTTL      = 5 * time.Minute
		defaultPoolSize     = 10
	)

	dbID, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	shopTTL, err := parseDurationEnv("SHOP_TOKEN_TTL", defaultShopTTL)
	if err != nil {
		log.Errorf(err, "invalid SHOP_TOKEN_TTL")
		return nil, err
	}

	poolSize, err := parseIntEnv("REDIS_POOL_SIZE", defaultPoolSize)
	if err != nil {
		log.Errorf(err, "invalid REDIS_POOL_SIZE")
		return nil, err
	}

	return &RedisCfg{
		Addr:         getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:     getEnv("REDIS_PASSWORD"),
		User:         getEnv("REDIS_USER"),
		DB:           dbID,
		MaxRetries:   maxRetries,
		PoolSize:     poolSize,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		ShopTTL:      shopTTL,
		KeyPrefix:    getEnv("REDIS_KEY_PREFIX"),
	}, nil
}

func loadSyncCfg(log logger.Logger) (*SyncCfg, error) {
	const (
		defaultRateLimit       = 60
		defaultRateLimitWindow = time.Minute
		defaultMaxBodyBytes    = 32 << 20
	)

	rateLimit, err := parseIntEnv("SYNC_RATE_LIMIT", defaultRateLimit)
	if err != nil {
		log.Errorf(err, "invalid SYNC_RATE_LIMIT")
		return nil, err
	}

	window, err := parseDurationEnv("SYNC_RATE_LIMIT_WINDOW", defaultRateLimitWindow)
	if err != nil {
		log.Errorf(err, "invalid SYNC_RATE_LIMIT_WINDOW")
		return nil, err
	}

	maxBody, err := parseIntEnv("SYNC_MAX_BODY_BYTES", defaultMaxBodyBytes)
	if err != nil {
		log.Errorf(err, "invalid SYNC_MAX_BODY_BYTES")
		return nil, err
	}

	return &SyncCfg{
		RateLimit:       rateLimit,
		RateLimitWindow: window,
		MaxBodyBytes:    int64(maxBody),
	}, nil
}

func loadLocaleCfg() *LocaleCfg {
	return &LocaleCfg{
		DefaultLanguage: getEnvOrDefault("DEFAULT_LOCALE", "ru"),
	}
}

func loadPermissionsCfg() (*PermissionsCfg, error) {
	const defaultRoles = "admin:updateOrder|updateOrderProductDiscount;manager:updateOrder"

	roles, err := ParseRolePermissions(getEnvOrDefault("ROLE_PERMISSIONS", defaultRoles))
	if err != nil {
		return nil, e.Wrap("ROLE_PERMISSIONS", err)
	}

	return &PermissionsCfg{Roles: roles}, nil
}

// ParseRolePermissions разбирает строку вида "role:cap1|cap2;role2:cap3".
func ParseRolePermissions(raw string) (map[string][]string, error) {
	roles := make(map[string][]string)
	for _, chunk := range strings.Split(raw, ";") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}

		role, caps, ok := strings.Cut(chunk, ":")
		if !ok || strings.TrimSpace(role) == "" {
			return nil, fmt.Errorf("malformed role definition %q: %w", chunk, e.ErrIncorrectEnvVariable)
		}

		for _, c := range strings.Split(caps, "|") {
			if c = strings.TrimSpace(c); c != "" {
				roles[strings.TrimSpace(role)] = append(roles[strings.TrimSpace(role)], c)
			}
		}
	}

	return roles, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}
