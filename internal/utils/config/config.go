package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/swaplens/analytics-backend/internal/types/environments"
)

type AppConfig struct {
	Environment environments.Environment
	ApiServer   ApiServerConfig
	SourceDB    DBConnection
	AnalysisDB  DBConnection
	ChainRPC    ChainRPCConfig
	Jobs        JobsConfig
}

type ApiServerConfig struct {
	Port           string
	AllowedOrigins string
}

type DBConnection struct {
	Host string
	Port string
	User string
	Name string
	Pass string

	SSLMode string
}

// ChainRPCConfig holds one endpoint per supported chain. Chains with an
// empty endpoint get no block-time resolver.
type ChainRPCConfig struct {
	EsploraAPIURL        string
	EsploraTestnetAPIURL string

	EthereumRPCEndpoint        string
	EthereumSepoliaRPCEndpoint string
	ArbitrumRPCEndpoint        string
	BaseRPCEndpoint            string

	SolanaRPCEndpoint   string
	StarknetRPCEndpoint string
}

type JobsConfig struct {
	// Cron descriptors, robfig/cron syntax. BackfillInterval may be empty,
	// in which case backfill only runs at startup and on demand.
	SyncInterval     string
	BackfillInterval string

	SyncUptimeWebhookURL     string
	BackfillUptimeWebhookURL string
}

func New() *AppConfig {
	env := environments.Parse(os.Getenv("APP_ENV"))

	// this will not override env variables if they already exist
	godotenv.Load(".env." + string(env))

	return &AppConfig{
		Environment: env,
		ApiServer: ApiServerConfig{
			Port:           envVarWithDefault("API_SERVER_PORT", "8080"),
			AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		},
		SourceDB: DBConnection{
			Host:    os.Getenv("SOURCE_DB_HOST"),
			Port:    os.Getenv("SOURCE_DB_PORT"),
			User:    os.Getenv("SOURCE_DB_USER"),
			Name:    os.Getenv("SOURCE_DB_NAME"),
			Pass:    os.Getenv("SOURCE_DB_PASS"),
			SSLMode: os.Getenv("SOURCE_DB_SSL_MODE"),
		},
		AnalysisDB: DBConnection{
			Host:    os.Getenv("ANALYSIS_DB_HOST"),
			Port:    os.Getenv("ANALYSIS_DB_PORT"),
			User:    os.Getenv("ANALYSIS_DB_USER"),
			Name:    os.Getenv("ANALYSIS_DB_NAME"),
			Pass:    os.Getenv("ANALYSIS_DB_PASS"),
			SSLMode: os.Getenv("ANALYSIS_DB_SSL_MODE"),
		},
		ChainRPC: ChainRPCConfig{
			EsploraAPIURL:              os.Getenv("ESPLORA_API_URL"),
			EsploraTestnetAPIURL:       os.Getenv("ESPLORA_TESTNET_API_URL"),
			EthereumRPCEndpoint:        os.Getenv("ETHEREUM_RPC_ENDPOINT"),
			EthereumSepoliaRPCEndpoint: os.Getenv("ETHEREUM_SEPOLIA_RPC_ENDPOINT"),
			ArbitrumRPCEndpoint:        os.Getenv("ARBITRUM_RPC_ENDPOINT"),
			BaseRPCEndpoint:            os.Getenv("BASE_RPC_ENDPOINT"),
			SolanaRPCEndpoint:          os.Getenv("SOLANA_RPC_ENDPOINT"),
			StarknetRPCEndpoint:        os.Getenv("STARKNET_RPC_ENDPOINT"),
		},
		Jobs: JobsConfig{
			SyncInterval:             envVarWithDefault("SYNC_INTERVAL", "@every 5m"),
			BackfillInterval:         os.Getenv("BACKFILL_INTERVAL"),
			SyncUptimeWebhookURL:     os.Getenv("UPTIME_WEBHOOK_SYNC_URL"),
			BackfillUptimeWebhookURL: os.Getenv("UPTIME_WEBHOOK_BACKFILL_URL"),
		},
	}
}

func envVarWithDefault(envName, fallback string) string {
	if value := os.Getenv(envName); value != "" {
		return value
	}

	return fallback
}
