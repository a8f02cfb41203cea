package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

// GameConfig holds the lifecycle tuning values: hourly decay rates, age
// stage bands and the max lifespan. Rates are per elapsed hour and applied
// with truncation, so sub-hour elapses may round to zero change.
type GameConfig struct {
	HungerRate    float64 `yaml:"hungerRate" validate:"required|min:0"`
	HygieneRate   float64 `yaml:"hygieneRate" validate:"required|min:0"`
	HappinessRate float64 `yaml:"happinessRate" validate:"required|min:0"`
	EnergyRate    float64 `yaml:"energyRate" validate:"required|min:0"`
	HealthRate    float64 `yaml:"healthRate" validate:"required|min:0"`

	EggMaxHours   float64 `yaml:"eggMaxHours" validate:"required|min:0"`
	ChildMaxHours float64 `yaml:"childMaxHours" validate:"required|min:0"`
	TeenMaxHours  float64 `yaml:"teenMaxHours" validate:"required|min:0"`
	AdultMaxHours float64 `yaml:"adultMaxHours" validate:"required|min:0"`
	MaxLifespan   float64 `yaml:"maxLifespan" validate:"required|min:1"`
}

type NotifierConfig struct {
	SweepInterval   time.Duration `yaml:"sweepInterval" validate:"required|min:1"`
	AlertCooldown   time.Duration `yaml:"alertCooldown" validate:"required|min:1"`
	AmbientCooldown time.Duration `yaml:"ambientCooldown" validate:"required|min:1"`
}

type TransportConfig struct {
	MaxFrameLen     int           `yaml:"maxFrameLen" validate:"required|min:20"`
	MinSendInterval time.Duration `yaml:"minSendInterval"`
	PollInterval    time.Duration `yaml:"pollInterval" validate:"required|min:1"`
	MeshCliPath     string        `yaml:"meshCliPath" validate:"required"`
	SerialPort      string        `yaml:"serialPort"`
}

type OllamaConfig struct {
	Enabled bool          `yaml:"enabled"`
	Host    string        `yaml:"host"`
	Port    int           `yaml:"port"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Game        GameConfig      `yaml:"game"`
	Notifier    NotifierConfig  `yaml:"notifier"`
	Transport   TransportConfig `yaml:"transport"`
	Ollama      OllamaConfig    `yaml:"ollama"`
	WebServer   Server          `yaml:"webServer"`
	Persistence Persistence     `yaml:"persistence"`
	Logger      LoggerConfig    `yaml:"logger"`
	Cache       CacheConfig     `yaml:"cache"`
	Metrics     MetricsConfig   `yaml:"metrics"`
}
