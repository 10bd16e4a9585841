package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Common holds settings shared by every binary in the suite.
type Common struct {
	AppEnv   string
	LogLevel slog.Level
}

// SQLite holds connection settings for the alert store.
type SQLite struct {
	Driver          string
	DSN             string
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// MQTT holds broker settings for the sensor stream.
type MQTT struct {
	Broker   string
	Port     int
	ClientID string
	Topic    string
}

// Monitor configures the dashboard service.
type Monitor struct {
	Common
	SQLite

	HTTPAddr string

	// BackendURL is the base URL of the external measurement API.
	BackendURL     string
	BackendTimeout time.Duration

	// FacadeIDs are the facade installations shown on the dashboard,
	// in display order.
	FacadeIDs []string

	EfficiencyPollInterval time.Duration
	CyclePollInterval      time.Duration
	RealtimePollInterval   time.Duration
}

// AlertMonitor configures the MQTT alert worker.
type AlertMonitor struct {
	Common
	SQLite
	MQTT

	// InactiveAfter is how long a sensor may stay silent before an
	// inactivity alert is raised.
	InactiveAfter         time.Duration
	InactiveCheckInterval time.Duration

	// PurgeAfter is the retention window for stored alerts.
	PurgeAfter    time.Duration
	PurgeInterval time.Duration
}

// Simulator configures the synthetic sensor publisher.
type Simulator struct {
	Common
	MQTT

	FacadeID        string
	DeviceID        string
	FacadeType      string
	PublishInterval time.Duration
}

func LoadMonitorFromEnv() (Monitor, error) {
	var cfg Monitor
	var err error

	cfg.Common, err = loadCommon()
	if err != nil {
		return Monitor{}, err
	}
	cfg.SQLite, err = loadSQLite()
	if err != nil {
		return Monitor{}, err
	}

	cfg.HTTPAddr = envDefault("HTTP_ADDR", ":8080")

	cfg.BackendURL = envDefault("BACKEND_URL", "http://localhost:8000")
	cfg.BackendTimeout, err = envDuration("BACKEND_TIMEOUT", 10*time.Second)
	if err != nil {
		return Monitor{}, err
	}

	ids := strings.Split(envDefault("FACADE_IDS", "1,2"), ",")
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			cfg.FacadeIDs = append(cfg.FacadeIDs, id)
		}
	}
	if len(cfg.FacadeIDs) == 0 {
		return Monitor{}, fmt.Errorf("invalid FACADE_IDS %q (need at least one id)", os.Getenv("FACADE_IDS"))
	}

	cfg.EfficiencyPollInterval, err = envDuration("EFFICIENCY_POLL_INTERVAL", 10*time.Second)
	if err != nil {
		return Monitor{}, err
	}
	cfg.CyclePollInterval, err = envDuration("CYCLE_POLL_INTERVAL", 30*time.Second)
	if err != nil {
		return Monitor{}, err
	}
	cfg.RealtimePollInterval, err = envDuration("REALTIME_POLL_INTERVAL", 5*time.Second)
	if err != nil {
		return Monitor{}, err
	}

	return cfg, nil
}

func LoadAlertMonitorFromEnv() (AlertMonitor, error) {
	var cfg AlertMonitor
	var err error

	cfg.Common, err = loadCommon()
	if err != nil {
		return AlertMonitor{}, err
	}
	cfg.SQLite, err = loadSQLite()
	if err != nil {
		return AlertMonitor{}, err
	}
	cfg.MQTT, err = loadMQTT("alertmon")
	if err != nil {
		return AlertMonitor{}, err
	}

	cfg.InactiveAfter, err = envDuration("INACTIVE_AFTER", 10*time.Minute)
	if err != nil {
		return AlertMonitor{}, err
	}
	cfg.InactiveCheckInterval, err = envDuration("INACTIVE_CHECK_INTERVAL", 5*time.Minute)
	if err != nil {
		return AlertMonitor{}, err
	}
	cfg.PurgeAfter, err = envDuration("PURGE_AFTER", 30*24*time.Hour)
	if err != nil {
		return AlertMonitor{}, err
	}
	cfg.PurgeInterval, err = envDuration("PURGE_INTERVAL", 24*time.Hour)
	if err != nil {
		return AlertMonitor{}, err
	}

	return cfg, nil
}

func LoadSimulatorFromEnv() (Simulator, error) {
	var cfg Simulator
	var err error

	cfg.Common, err = loadCommon()
	if err != nil {
		return Simulator{}, err
	}

	cfg.FacadeType = envDefault("FACADE_TYPE", "no_refrigerada")
	switch cfg.FacadeType {
	case "refrigerada", "no_refrigerada":
	default:
		return Simulator{}, fmt.Errorf("invalid FACADE_TYPE %q (allowed: refrigerada, no_refrigerada)", cfg.FacadeType)
	}

	defaultID := "1"
	defaultDevice := "raspi_no_ref_01"
	if cfg.FacadeType == "refrigerada" {
		defaultID = "2"
		defaultDevice = "raspi_ref_01"
	}
	cfg.FacadeID = envDefault("FACADE_ID", defaultID)
	cfg.DeviceID = envDefault("DEVICE_ID", defaultDevice)

	cfg.MQTT, err = loadMQTT("simulator-" + cfg.DeviceID)
	if err != nil {
		return Simulator{}, err
	}

	cfg.PublishInterval, err = envDuration("PUBLISH_INTERVAL", 5*time.Second)
	if err != nil {
		return Simulator{}, err
	}

	return cfg, nil
}

func loadCommon() (Common, error) {
	appEnv := envDefault("APP_ENV", "dev")
	switch appEnv {
	case "dev", "prod":
	default:
		return Common{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(envDefault("LOG_LEVEL", "info"))
	if err != nil {
		return Common{}, err
	}

	return Common{AppEnv: appEnv, LogLevel: level}, nil
}

func loadSQLite() (SQLite, error) {
	maxOpen, err := envInt("DB_MAX_OPEN_CONNS", 1)
	if err != nil {
		return SQLite{}, err
	}
	maxIdle, err := envInt("DB_MAX_IDLE_CONNS", 1)
	if err != nil {
		return SQLite{}, err
	}
	lifetime, err := envDuration("DB_CONN_MAX_LIFETIME", 0)
	if err != nil {
		return SQLite{}, err
	}

	return SQLite{
		Driver:          envDefault("DB_DRIVER", "sqlite3"),
		DSN:             strings.TrimSpace(os.Getenv("DB_DSN")),
		Path:            envDefault("SQLITE_PATH", "./data/alerts.db"),
		MaxOpenConns:    maxOpen,
		MaxIdleConns:    maxIdle,
		ConnMaxLifetime: lifetime,
	}, nil
}

func loadMQTT(defaultClientID string) (MQTT, error) {
	port, err := envInt("MQTT_PORT", 1883)
	if err != nil {
		return MQTT{}, err
	}

	return MQTT{
		Broker:   envDefault("MQTT_BROKER", "localhost"),
		Port:     port,
		ClientID: envDefault("MQTT_CLIENT_ID", defaultClientID),
		Topic:    envDefault("MQTT_TOPIC", "sensors/+/all"),
	}, nil
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
