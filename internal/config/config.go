package config

import (
	"fmt"
	"time"

	coreconfig "github.com/go-core-fx/config"
)

// Config holds every tunable of the assistant. Values come from env /
// .env / yaml via go-core-fx config; defaults mirror a typical bodega setup.
type Config struct {
	LLMBaseURL string `koanf:"llm_base_url"`
	LLMAPIKey  string `koanf:"llm_api_key"`
	LLMModel   string `koanf:"llm_model"`

	SpeechBaseURL  string `koanf:"speech_base_url"`
	CaptureBaseURL string `koanf:"capture_base_url"`

	// Locale selects the synthesis voice; CaptureLocale is what the
	// recognizer transcribes. They differ on purpose: Peruvian Spanish in,
	// neutral Latin-American Spanish out.
	Locale        string  `koanf:"locale"`
	CaptureLocale string  `koanf:"capture_locale"`
	VoiceRate     float64 `koanf:"voice_rate"`
	VoiceVolume   float64 `koanf:"voice_volume"`

	ShopName string `koanf:"shop_name"`
	UserCode string `koanf:"user_code"`

	PanicPhrases []string      `koanf:"panic_phrases"`
	PauseWindow  time.Duration `koanf:"pause_window"`

	Timeout   time.Duration `koanf:"timeout"`
	ExportDir string        `koanf:"export_dir"`
	LogFile   string        `koanf:"log_file"`
	Debug     bool          `koanf:"debug"`
}

// DefaultPanicPhrases are the distress words scanned for in live speech.
// A substring match anywhere in an utterance engages the alarm.
func DefaultPanicPhrases() []string {
	return []string{"auxilio", "socorro", "ayuda", "ladrón", "policía", "no me haga nada", "lo denunciaré"}
}

func New() (Config, error) {
	cfg := Config{
		Locale:        "es-US",
		CaptureLocale: "es-PE",
		VoiceRate:     1.2,
		VoiceVolume:   1.0,
		ShopName:      "Mi Bodeguita",
		UserCode:      "VP100",
		PanicPhrases:  DefaultPanicPhrases(),
		PauseWindow:   1200 * time.Millisecond,
		Timeout:       20 * time.Second,
		ExportDir:     ".",
		LogFile:       "./bodega-voz.log",
		Debug:         false,
	}

	if err := coreconfig.Load(&cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}

	if len(cfg.PanicPhrases) == 0 {
		cfg.PanicPhrases = DefaultPanicPhrases()
	}

	return cfg, nil
}
