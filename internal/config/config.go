package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Input  InputConfig  `yaml:"input"`
	STT    STTConfig    `yaml:"stt"`
	Speech SpeechConfig `yaml:"speech"`
	LLM    LLMConfig    `yaml:"llm"`
	Wiki   WikiConfig   `yaml:"wiki"`
	Duck   DuckConfig   `yaml:"duck"`
	Cue    CueConfig    `yaml:"cue"`
	Proxy  string       `yaml:"proxy"`
	Socket string       `yaml:"socket"`
	Log    LogConfig    `yaml:"log"`

	// APIKey comes from OPENAI_API_KEY, never from the file.
	APIKey string `yaml:"-"`
}

type InputConfig struct {
	// Source is "microphone", "file" or "text".
	Source      string        `yaml:"source"`
	FileDir     string        `yaml:"file_dir"`
	Timeout     time.Duration `yaml:"timeout"`
	PhraseLimit time.Duration `yaml:"phrase_limit"`
	Pause       time.Duration `yaml:"pause"`
	Calibration time.Duration `yaml:"calibration"`
}

type STTConfig struct {
	// Backend is "whisper" (local model) or "openai".
	Backend   string        `yaml:"backend"`
	ModelPath string        `yaml:"model_path"`
	Model     string        `yaml:"model"`
	Language  string        `yaml:"language"`
	Threads   int           `yaml:"threads"`
	Timeout   time.Duration `yaml:"timeout"`
}

type SpeechConfig struct {
	Voice  string  `yaml:"voice"`
	Rate   int     `yaml:"rate"`
	Volume float64 `yaml:"volume"`
}

type LLMConfig struct {
	Model       string        `yaml:"model"`
	MaxTokens   int64         `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

type WikiConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Sentences int           `yaml:"sentences"`
	Timeout   time.Duration `yaml:"timeout"`
}

type DuckConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Factor   float64       `yaml:"factor"`
	Floor    int           `yaml:"floor"`
	Duration time.Duration `yaml:"duration"`
}

type CueConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads path if it exists and fills defaults. A missing file is not an
// error; the defaults describe a complete setup.
func Load(path string) (*Config, error) {
	// Zero is a meaningful setting for these two (mute, deterministic
	// replies), so they are seeded before decoding instead of in setDefaults.
	cfg := Config{
		Speech: SpeechConfig{Volume: 0.9},
		LLM:    LLMConfig{Temperature: 0.7},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Input.Source {
	case "microphone", "text":
	case "file":
		if c.Input.FileDir == "" {
			return errors.New("input.file_dir is required for the file source")
		}
	default:
		return fmt.Errorf("unknown input source %q", c.Input.Source)
	}

	switch c.STT.Backend {
	case "whisper", "openai":
	default:
		return fmt.Errorf("unknown stt backend %q", c.STT.Backend)
	}

	if c.Speech.Volume < 0 || c.Speech.Volume > 1 {
		return fmt.Errorf("speech.volume must be within 0.0-1.0, got %v", c.Speech.Volume)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be within 0.0-2.0, got %v", c.LLM.Temperature)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Input.Source == "" {
		c.Input.Source = "microphone"
	}
	if c.Input.FileDir == "" {
		c.Input.FileDir = "./audio"
	}
	if c.Input.Timeout == 0 {
		c.Input.Timeout = 5 * time.Second
	}
	if c.Input.PhraseLimit == 0 {
		c.Input.PhraseLimit = 10 * time.Second
	}
	if c.Input.Pause == 0 {
		c.Input.Pause = time.Second
	}
	if c.Input.Calibration == 0 {
		c.Input.Calibration = time.Second
	}
	if c.STT.Backend == "" {
		c.STT.Backend = "openai"
	}
	if c.STT.ModelPath == "" {
		c.STT.ModelPath = "third_party/whisper.cpp/models/ggml-base.en.bin"
	}
	if c.STT.Model == "" {
		c.STT.Model = "whisper-1"
	}
	if c.STT.Language == "" {
		c.STT.Language = "en"
	}
	if c.STT.Timeout == 0 {
		c.STT.Timeout = 30 * time.Second
	}
	if c.Speech.Voice == "" {
		c.Speech.Voice = "en-us"
	}
	if c.Speech.Rate == 0 {
		c.Speech.Rate = 180
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 150
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 30 * time.Second
	}
	if c.Wiki.Sentences == 0 {
		c.Wiki.Sentences = 2
	}
	if c.Wiki.Timeout == 0 {
		c.Wiki.Timeout = 10 * time.Second
	}
	if c.Duck.Factor == 0 {
		c.Duck.Factor = 0.3
	}
	if c.Duck.Floor == 0 {
		c.Duck.Floor = 10
	}
	if c.Duck.Duration == 0 {
		c.Duck.Duration = 200 * time.Millisecond
	}
	if c.Socket == "" {
		c.Socket = "/tmp/voxbot.sock"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
