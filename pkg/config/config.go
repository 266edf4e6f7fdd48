package config

type CommenceConfig struct {
	// Palletways 承运商配置
	Palletways struct {
		Enabled     bool   `cfg:"ENABLED" default:"false"`
		Endpoint    string `cfg:"ENDPOINT" default:"https://api.palletways.com/"`
		ApiKey      string `cfg:"API_KEY"`
		DepotCode   string `cfg:"DEPOT_CODE"`
		AccountCode string `cfg:"ACCOUNT_CODE"`
		TestMode    bool   `cfg:"TEST_MODE" default:"true"`
	} `cfg:"PALLETWAYS"`

	// 状态同步配置
	Resync struct {
		WindowDays int `cfg:"WINDOW_DAYS" default:"30"`
		BatchLimit int `cfg:"BATCH_LIMIT" default:"50"`
	} `cfg:"RESYNC"`
}

var Config *CommenceConfig
