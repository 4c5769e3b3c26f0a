package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Admission AdmissionConfig `yaml:"admission"`
	Worker    WorkerConfig    `yaml:"worker"`
	LogLevel  string          `yaml:"log_level"`
}

type HTTPConfig struct {
	Address    string `yaml:"address"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	PlanEventsTopic    string   `yaml:"plan_events_topic"`
	ZoneEventsTopic    string   `yaml:"zone_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

// AdmissionConfig carries the credit and validation constants of the
// admission engine. The refund is smaller than the cost: the difference is
// the processing fee retained on a rejected attempt.
type AdmissionConfig struct {
	TotalCost                 int `yaml:"total_cost"`
	PartialRefund             int `yaml:"partial_refund"`
	MinLeadTimeHours          int `yaml:"min_lead_time_hours"`
	MinZoneValidityGapMinutes int `yaml:"min_zone_validity_gap_minutes"`
	ZonesCacheTTLSeconds      int `yaml:"zones_cache_ttl_seconds"`
	LockTTLSeconds            int `yaml:"lock_ttl_seconds"`
}

func (a AdmissionConfig) MinLeadTime() time.Duration {
	return time.Duration(a.MinLeadTimeHours) * time.Hour
}

func (a AdmissionConfig) MinZoneValidityGap() time.Duration {
	return time.Duration(a.MinZoneValidityGapMinutes) * time.Minute
}

func (a AdmissionConfig) ZonesCacheTTL() time.Duration {
	return time.Duration(a.ZonesCacheTTLSeconds) * time.Second
}

func (a AdmissionConfig) LockTTL() time.Duration {
	return time.Duration(a.LockTTLSeconds) * time.Second
}

type WorkerConfig struct {
	SweepMinutes      int `yaml:"sweep_minutes"`
	ZoneRetentionDays int `yaml:"zone_retention_days"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Admission.TotalCost == 0 {
		c.Admission.TotalCost = 7
	}
	if c.Admission.PartialRefund == 0 {
		c.Admission.PartialRefund = 2
	}
	if c.Admission.MinLeadTimeHours == 0 {
		c.Admission.MinLeadTimeHours = 48
	}
	if c.Admission.MinZoneValidityGapMinutes == 0 {
		c.Admission.MinZoneValidityGapMinutes = 30
	}
	if c.Admission.ZonesCacheTTLSeconds == 0 {
		c.Admission.ZonesCacheTTLSeconds = 60
	}
	if c.Admission.LockTTLSeconds == 0 {
		c.Admission.LockTTLSeconds = 5
	}
	if c.Worker.SweepMinutes == 0 {
		c.Worker.SweepMinutes = 60
	}
	if c.Worker.ZoneRetentionDays == 0 {
		c.Worker.ZoneRetentionDays = 30
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
