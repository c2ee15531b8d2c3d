package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port       int    `yaml:"port"`
		DataDir    string `yaml:"data_dir"`
		BaseURL    string `yaml:"base_url"`
		AdminToken string `yaml:"admin_token"`
	} `yaml:"app"`

	Mail struct {
		Enabled               bool   `yaml:"enabled"`
		Endpoint              string `yaml:"endpoint"`
		FromAddress           string `yaml:"from_address"`
		AdminEmail            string `yaml:"admin_email"`
		KeyringAccount        string `yaml:"keyring_account"`
		RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	} `yaml:"mail"`

	Intake struct {
		PublicRatePerMin float64 `yaml:"public_rate_per_min"`
		Burst            int     `yaml:"burst"`
		MaxUploadMB      int     `yaml:"max_upload_mb"`
	} `yaml:"intake"`

	Worker struct {
		RetrySeconds int `yaml:"retry_seconds"`
		Batch        int `yaml:"batch"`
	} `yaml:"worker"`

	Areas struct {
		File string `yaml:"file"`
	} `yaml:"areas"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
