package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"voxbot/internal/assistant"
	"voxbot/internal/audio"
	"voxbot/internal/browser"
	"voxbot/internal/config"
	"voxbot/internal/intent"
	"voxbot/internal/ipc"
	"voxbot/internal/listen"
	"voxbot/internal/llm"
	"voxbot/internal/notify"
	"voxbot/internal/proxy"
	"voxbot/internal/tts"
	"voxbot/internal/wiki"
	"voxbot/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	os.Exit(run())
}

func run() int {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	configPath := cli.StringP("config", "c", "voxbot.yaml", "Config file path (optional)")
	logLevel := cli.StringP("log", "l", "", "Log level (debug, info, warn, error)")
	input := cli.StringP("input", "i", "", "Input source (microphone, file, text)")
	proxyAddr := cli.StringP("proxy", "p", "", "Socks proxy address")
	cli.Parse()

	godotenv.Load(*envFile)

	logger := newLogger(os.Stdout, *logLevel)
	log.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("Failed to load config", "path", *configPath, "err", err)
		return 1
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *input != "" {
		cfg.Input.Source = *input
	}
	if *proxyAddr != "" {
		cfg.Proxy = *proxyAddr
	}
	cfg.APIKey = os.Getenv("OPENAI_API_KEY")

	logger = newLogger(os.Stdout, cfg.Log.Level)
	log.SetDefault(logger)

	logger.Info("Booting up")

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid config", "err", err)
		return 1
	}
	if cfg.APIKey == "" {
		logger.Error("OPENAI_API_KEY not set")
		return 1
	}

	httpClient, err := proxy.NewHTTPClient(cfg.Proxy, 120*time.Second)
	if err != nil {
		logger.Error("Failed to dial socks proxy", "proxy", cfg.Proxy, "err", err)
		return 1
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listener, closeListener, err := buildListener(cfg, client, logger)
	if err != nil {
		logger.Error("Failed to init input", "source", cfg.Input.Source, "err", err)
		return 1
	}
	defer closeListener()

	speaker, err := buildSpeaker(cfg)
	if err != nil {
		logger.Error("Failed to init speech synthesis", "err", err)
		return 1
	}
	defer speaker.Close()

	logger.Debug("Loaded audio")

	dispatcher := intent.NewDispatcher(
		browser.System{},
		wiki.NewClient(httpClient, wiki.Config{
			BaseURL:   cfg.Wiki.BaseURL,
			Sentences: cfg.Wiki.Sentences,
			Timeout:   cfg.Wiki.Timeout,
		}, logger),
		llm.NewResponder(client, llm.Config{
			Model:       cfg.LLM.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger),
		logger,
	)

	var opts []assistant.Option
	if cfg.Cue.Path != "" && cfg.Input.Source == "microphone" {
		opts = append(opts, assistant.WithCue(notify.NewCue(cfg.Cue.Path)))
	}
	if cfg.Duck.Enabled && cfg.Input.Source != "text" {
		opts = append(opts, assistant.WithDucker(audio.NewDucker(
			[]string{"voxbot", "eSpeak", "espeak-ng"},
			cfg.Duck.Factor, cfg.Duck.Floor, cfg.Duck.Duration,
		)))
	}

	ln, err := ipc.StartServer(cfg.Socket, func(msg ipc.ControlMessage) {
		switch msg.Cmd {
		case ipc.CmdStop:
			logger.Info("Stop requested over control socket")
			stop()
		default:
			logger.Warn("Unknown command", "cmd", msg.Cmd)
		}
	})
	if err != nil {
		logger.Warn("Control socket unavailable", "socket", cfg.Socket, "err", err)
	} else {
		defer ln.Close()
	}

	logger.Info("Boot up - successful", "input", cfg.Input.Source, "stt", cfg.STT.Backend)

	session := assistant.NewSession(listener, speaker, dispatcher, logger, opts...)
	if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Session ended with error", "err", err)
	}

	logger.Info("Shut down")
	return 0
}

// newLogger falls back to info for an empty or unknown level.
func newLogger(w io.Writer, level string) *log.Logger {
	lvl, ok := logLevelMap[level]
	if !ok {
		lvl = log.LevelInfo
	}
	return log.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.TimeOnly,
		NoColor:    w != os.Stdout,
	}))
}

func buildListener(cfg *config.Config, client openai.Client, logger *log.Logger) (assistant.Listener, func(), error) {
	if cfg.Input.Source == "text" {
		console := listen.NewConsole(os.Stdin, logger)
		return console, func() { console.Close() }, nil
	}

	var (
		capturer listen.Capturer
		closers  []io.Closer
	)

	switch cfg.Input.Source {
	case "file":
		files, err := listen.NewFiles(cfg.Input.FileDir)
		if err != nil {
			return nil, nil, err
		}
		capturer = files
	default:
		rec := audio.NewRecorder(cfg.Input.Pause)
		if err := rec.Init(); err != nil {
			return nil, nil, err
		}
		capturer = rec
		closers = append(closers, closerFunc(rec.Close))
	}

	var transcriber stt.Transcriber
	switch cfg.STT.Backend {
	case "whisper":
		w, err := stt.NewWhisper(cfg.STT.ModelPath, stt.WhisperOptions{
			Language: cfg.STT.Language,
			Threads:  cfg.STT.Threads,
		})
		if err != nil {
			closeAll(closers)
			return nil, nil, err
		}
		transcriber = w
		closers = append(closers, w)
	default:
		transcriber = stt.NewRemote(client, cfg.STT.Model, cfg.STT.Language, cfg.STT.Timeout)
	}

	gw := listen.NewGateway(capturer, transcriber, listen.Options{
		Timeout:     cfg.Input.Timeout,
		PhraseLimit: cfg.Input.PhraseLimit,
		Calibration: cfg.Input.Calibration,
	}, logger)

	return gw, func() { closeAll(closers) }, nil
}

type speaker interface {
	assistant.Speaker
	io.Closer
}

func buildSpeaker(cfg *config.Config) (speaker, error) {
	if cfg.Input.Source == "text" {
		return tts.NewConsole(os.Stdout), nil
	}
	return tts.NewEspeak(tts.Options{
		Voice:  cfg.Speech.Voice,
		Rate:   cfg.Speech.Rate,
		Volume: cfg.Speech.Volume,
	})
}

type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}

func closeAll(closers []io.Closer) {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i].Close()
	}
}
