package config

// Definition is the intermediate representation of the configuration as read
// by viper, before path resolution and validation.
type Definition struct {
	Debug     bool   `mapstructure:"debug"`
	LogFormat string `mapstructure:"logFormat"`

	Telegram *telegramDef `mapstructure:"telegram"`
	Ollama   *ollamaDef   `mapstructure:"ollama"`
	Paths    *pathsDef    `mapstructure:"paths"`
}

type telegramDef struct {
	Token string `mapstructure:"token"`
}

type ollamaDef struct {
	BaseURL string `mapstructure:"baseURL"`
}

type pathsDef struct {
	DataDir    string `mapstructure:"dataDir"`
	MemoryFile string `mapstructure:"memoryFile"`
}
