package configuration

type Configuration struct {
	HttpAddr     string `usage:"HTTP address"`
	Dir          string `usage:"data directory"`
	LockTimeout  string `usage:"table lock acquisition timeout (Go duration)"`
	CacheEntries int    `usage:"max cached tables held in memory"`
	Version      bool   `usage:"show version and exit"`
	ShowBanner   bool   `usage:"show big banner"`
	ShowConfig   bool   `usage:"print config"`
}

func Default() Configuration {
	return Configuration{
		HttpAddr:     ":8080",
		Dir:          "data",
		LockTimeout:  "5s",
		CacheEntries: 128,
		ShowBanner:   true,
	}
}
