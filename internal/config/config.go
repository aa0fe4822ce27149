package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Listen struct {
	BindIp string `yaml:"bind_ip" env-default:"0.0.0.0"`
	Port   string `yaml:"port" env-default:"8080"`
}

type TelegramConfig struct {
	Enabled bool   `yaml:"enabled" env-default:"true"`
	ApiKey  string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:""`
}

type StorageConfig struct {
	DataDir     string `yaml:"data_dir" env-default:"data"`
	UploadsDir  string `yaml:"uploads_dir" env-default:"data/cookies"`
	ResultsFile string `yaml:"results_file" env-default:"data/valid.txt"`
	AuditFile   string `yaml:"audit_file" env-default:"data/audit.log"`
}

type CheckerConfig struct {
	Url        string `yaml:"url" env-default:""`
	ApiKey     string `yaml:"api_key" env:"CHECKER_API_KEY" env-default:""`
	RateLimit  int    `yaml:"rate_limit" env-default:"5"`
	DelayMs    int    `yaml:"delay_ms" env-default:"1000"`
	CodeLength int    `yaml:"code_length" env-default:"10"`
}

type ApiConfig struct {
	Enabled bool   `yaml:"enabled" env-default:"false"`
	Token   string `yaml:"token" env:"API_TOKEN" env-default:""`
}

type MongoConfig struct {
	Enabled  bool   `yaml:"enabled" env-default:"false"`
	Host     string `yaml:"host" env-default:"localhost"`
	Port     string `yaml:"port" env-default:"27017"`
	User     string `yaml:"user" env-default:""`
	Password string `yaml:"password" env-default:""`
	Database string `yaml:"database" env-default:"cookiegate"`
}

type Config struct {
	Env      string         `yaml:"env" env-default:"local"`
	Admins   []string       `yaml:"admins"`
	Telegram TelegramConfig `yaml:"telegram"`
	Storage  StorageConfig  `yaml:"storage"`
	Checker  CheckerConfig  `yaml:"checker"`
	Api      ApiConfig      `yaml:"api"`
	Listen   Listen         `yaml:"listen"`
	Mongo    MongoConfig    `yaml:"mongo"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("config: %s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
