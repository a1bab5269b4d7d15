package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"sync"
)

type Config struct {
	Env      string `yaml:"env" env-default:"local"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env-default:""`
		AdminId int64  `yaml:"admin_id" env-default:"0"`
		BotName string `yaml:"bot_name" env-default:"KolDeskBot"`
		Enabled bool   `yaml:"enabled" env-default:"false"`
	} `yaml:"telegram"`
	OpenAI struct {
		ApiKey      string `yaml:"api_key" env-default:""`
		AssistantID string `yaml:"assistant_id" env-default:""`
		DevPrefix   string `yaml:"dev_prefix" env-default:""`
	} `yaml:"openai"`
	ImgPath string `yaml:"img_path" env-default:""`
	Mongo   struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:"admin"`
		Password string `yaml:"password" env-default:"pass"`
		Database string `yaml:"database" env-default:""`
	} `yaml:"mongo"`
	Market struct {
		BaseURL      string `yaml:"base_url" env-default:""`
		ClientID     string `yaml:"client_id" env-default:""`
		ClientSecret string `yaml:"client_secret" env-default:""`
		TokenURL     string `yaml:"token_url" env-default:""`
	} `yaml:"market"`
	Chain struct {
		BridgeURL     string `yaml:"bridge_url" env-default:""`
		ApiKey        string `yaml:"api_key" env-default:""`
		ChainID       int64  `yaml:"chain_id" env-default:"56"`
		TokenContract string `yaml:"token_contract" env-default:""`
		PayeeAddress  string `yaml:"payee_address" env-default:""`
	} `yaml:"chain"`
	Listen struct {
		BindIP string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env-default:"9200"`
		ApiKey string `yaml:"key" env-default:""`
	} `yaml:"listen"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
