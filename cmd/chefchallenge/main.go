// Chef Challenge: a timed cooking game played by voice or keyboard.
//
// Usage:
//
//	chefchallenge [--verbose] [--quiet] [--tick 1s] [--seed N]
//	chefchallenge recipes
//	chefchallenge config
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/chefchallenge/internal/catalog"
	"github.com/hammamikhairi/chefchallenge/internal/challenge"
	"github.com/hammamikhairi/chefchallenge/internal/config"
	"github.com/hammamikhairi/chefchallenge/internal/conversation"
	"github.com/hammamikhairi/chefchallenge/internal/display"
	"github.com/hammamikhairi/chefchallenge/internal/domain"
	"github.com/hammamikhairi/chefchallenge/internal/game"
	"github.com/hammamikhairi/chefchallenge/internal/logger"
	"github.com/hammamikhairi/chefchallenge/internal/speech"
	"github.com/hammamikhairi/chefchallenge/internal/storage"
)

const (
	defaultTick         = time.Second
	defaultWhisperBin   = "whisper-cli"
	defaultWhisperModel = "bin/ggml-small.bin"
	defaultChunkSecs    = 3
)

var (
	flagVerbose      bool
	flagQuiet        bool
	flagLogFile      string
	flagTick         time.Duration
	flagSeed         int64
	flagNoSpeech     bool
	flagVoice        string
	flagInput        bool
	flagWhisperBin   string
	flagWhisperModel string
	flagChunkSecs    int
	flagCacheDir     string
	flagDiskCache    bool
)

func main() {
	_ = godotenv.Load()

	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "chefchallenge",
		Short:         "Timed cooking game with voice control",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "enable verbose/debug logging")
	rootCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "disable all logging")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", config.DefaultLogPath(), "file to write logs to (use \"stderr\" to log to console)")
	rootCmd.Flags().DurationVar(&flagTick, "tick", defaultTick, "countdown tick interval (one game second)")
	rootCmd.Flags().Int64Var(&flagSeed, "seed", 0, "challenge picker seed (0 picks at random)")
	rootCmd.Flags().BoolVar(&flagNoSpeech, "no-speech", false, "disable text-to-speech even if Azure keys are set")
	rootCmd.Flags().StringVar(&flagVoice, "voice", speech.DefaultVoice, "Azure neural voice name")
	rootCmd.Flags().BoolVar(&flagInput, "input", true, "offer voice input via local Whisper STT")
	rootCmd.Flags().StringVar(&flagWhisperBin, "whisper-bin", defaultWhisperBin, "path to the whisper-cpp CLI binary")
	rootCmd.Flags().StringVar(&flagWhisperModel, "whisper-model", defaultWhisperModel, "path to the Whisper GGML model file")
	rootCmd.Flags().IntVar(&flagChunkSecs, "chunk-secs", defaultChunkSecs, "seconds per voice recording chunk")
	rootCmd.Flags().StringVar(&flagCacheDir, "cache-dir", config.DefaultAudioCacheDir(), "directory for persistent TTS audio cache")
	rootCmd.Flags().BoolVar(&flagDiskCache, "disk-cache", true, "persist TTS audio cache to disk (reads from disk even when false)")

	rootCmd.AddCommand(newRecipesCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return err
	}
	applyFileConfig(cmd, fileCfg)

	level, err := resolveLogLevel(cmd, fileCfg.Log.Level)
	if err != nil {
		return err
	}
	if err := validateFlags(); err != nil {
		return err
	}

	logOut, closeLog := openLog(flagLogFile)
	defer closeLog()

	// Third-party libs such as the whisper transcriber log through the
	// std log package.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(level, logOut)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cat := catalog.NewStatic(log.Named("catalog"))
	store := storage.NewMemoryStore(log.Named("storage"))

	var picker domain.ChallengePicker = challenge.NewRandom()
	if flagSeed != 0 {
		picker = challenge.New(flagSeed)
		log.Info("challenge seed %d", flagSeed)
	}

	// ui is assigned below, before anything can speak or be heard.
	var ui *display.UI

	var mouth *speech.Mouth
	if !flagNoSpeech {
		mouth = buildMouth(ctx, cat, log.Named("tts"))
	}

	var next domain.SpeechOutput
	if mouth != nil {
		next = mouth
	}
	output := speech.NewConsole(func(text string) { ui.PrintChef(text) }, next)

	opts := []game.Option{
		game.WithTickInterval(flagTick),
		game.WithPicker(picker),
		game.WithResults(store),
		game.WithSpeechOutput(output),
	}
	if flagInput {
		opts = append(opts, game.WithSpeechInput(buildEar(log.Named("stt"), mouth, func(text string) { ui.PrintVoice(text) })))
	}

	session := game.New(cat, log.Named("game"), opts...)
	defer session.Close()

	ui = display.NewUI(session)

	app := &cliApp{
		session: session,
		catalog: cat,
		results: store,
		parser:  conversation.NewKeywordParser(log.Named("parser")),
		mouth:   mouth,
		ui:      ui,
		log:     log,
	}

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'voice' to talk, 'quit' to exit."))
	fmt.Println()

	go func() {
		ui.WaitReady()
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

// buildMouth returns nil when Azure credentials or the audio device are
// missing; the game then only prints its lines.
func buildMouth(ctx context.Context, cat domain.Catalog, log *logger.Logger) *speech.Mouth {
	synth, err := speech.NewAzureClientFromEnv(log, speech.WithVoice(flagVoice))
	if err != nil {
		if errors.Is(err, speech.ErrMissingCredentials) {
			log.Info("TTS disabled: set %s and %s env vars to enable", speech.EnvAzureSpeechKey, speech.EnvAzureSpeechRegion)
		} else {
			log.Error("TTS disabled: %v", err)
		}
		return nil
	}

	player, err := speech.NewPlayer(log)
	if err != nil {
		log.Error("audio player init failed, speech disabled: %v", err)
		return nil
	}

	mouth := speech.NewMouth(synth, player, log,
		speech.WithCacheDir(flagCacheDir),
		speech.WithDiskWrite(flagDiskCache),
	)
	mouth.Start(ctx)
	mouth.Prefetch(ctx, game.FixedLines(cat)...)
	log.Info("TTS enabled (voice=%s)", synth.Voice())
	return mouth
}

func buildEar(log *logger.Logger, mouth *speech.Mouth, heard func(string)) *speech.Ear {
	tempDir := filepath.Join(os.TempDir(), "chefchallenge-stt")
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		log.Warn("stt temp dir %s: %v, using %s", tempDir, err, os.TempDir())
		tempDir = os.TempDir()
	}

	opts := []speech.EarOption{
		speech.WithChunkDuration(time.Duration(flagChunkSecs) * time.Second),
		speech.WithTempDir(tempDir),
		speech.WithTranscriptHook(heard),
	}
	if mouth != nil {
		opts = append(opts, speech.WithEchoGate(mouth))
	}
	log.Info("voice input available (bin=%s, model=%s, chunk=%ds)", flagWhisperBin, flagWhisperModel, flagChunkSecs)
	return speech.NewEar(flagWhisperBin, flagWhisperModel, log, opts...)
}

// openLog opens path for appending. "" or "stderr" logs to the console.
// Falls back to stderr when the file cannot be opened.
func openLog(path string) (io.Writer, func()) {
	if path == "" || path == "stderr" {
		return os.Stderr, func() {}
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logErrf("warning: could not create log directory %s: %v (falling back to stderr)\n", dir, err)
			return os.Stderr, func() {}
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logErrf("warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		return os.Stderr, func() {}
	}
	return f, func() { _ = f.Close() }
}

func newRecipesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recipes",
		Short: "List the recipes and ingredients",
		Args:  cobra.NoArgs,
		RunE:  runRecipesCmd,
	}
}

func runRecipesCmd(cmd *cobra.Command, _ []string) error {
	log := logger.New(logger.LevelOff, nil)
	cat := catalog.NewStatic(log)
	out := cmd.OutOrStdout()
	p := conversation.NewPrinter(log, func(format string, a ...any) {
		fmt.Fprintf(out, format+"\n", a...)
	})

	p.Notice("Recipes")
	for i, r := range cat.Recipes() {
		p.Plain("%d. %s  (%s, difficulty %d, reward %d)",
			i+1, r.Name, fmtSeconds(r.PreparationTime), r.Difficulty, r.Reward)
		p.Plain("   needs: %s", joinNames(r.Ingredients))
		p.Plain("   say:   %s", joinQuoted(r.VoicePhrases))
	}
	p.Plain("")
	names := make([]string, 0, len(cat.Ingredients()))
	for _, ing := range cat.Ingredients() {
		names = append(names, ing.Name)
	}
	p.Plain("Pantry: %s", joinNames(names))
	p.Spoken(`You can also say "make salad"`)
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create the config file and print its path",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(cmd *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func applyFileConfig(cmd *cobra.Command, cfg config.FileConfig) {
	applyDurationConfig(cmd, "tick", &flagTick, cfg.Game.Tick)
	applyInt64Config(cmd, "seed", &flagSeed, cfg.Game.Seed)
	if cfg.Speech.TTS != nil && !cmd.Flags().Changed("no-speech") {
		flagNoSpeech = !*cfg.Speech.TTS
	}
	applyStringConfig(cmd, "voice", &flagVoice, cfg.Speech.Voice)
	applyBoolConfig(cmd, "input", &flagInput, cfg.Speech.Input)
	applyStringConfig(cmd, "whisper-bin", &flagWhisperBin, cfg.Speech.WhisperBin)
	applyStringConfig(cmd, "whisper-model", &flagWhisperModel, cfg.Speech.WhisperModel)
	applyIntConfig(cmd, "chunk-secs", &flagChunkSecs, cfg.Speech.ChunkSecs)
	applyStringConfig(cmd, "cache-dir", &flagCacheDir, cfg.Speech.CacheDir)
	applyBoolConfig(cmd, "disk-cache", &flagDiskCache, cfg.Speech.DiskCache)
	applyStringConfig(cmd, "log-file", &flagLogFile, cfg.Log.File)
}

// resolveLogLevel lets --verbose and --quiet override the config level.
func resolveLogLevel(cmd *cobra.Command, configured *string) (logger.Level, error) {
	level := logger.LevelNormal
	if configured != nil {
		l, err := logger.ParseLevel(*configured)
		if err != nil {
			return level, fmt.Errorf("config log.level: %w", err)
		}
		level = l
	}
	if cmd.Flags().Changed("verbose") && flagVerbose {
		level = logger.LevelVerbose
	}
	if cmd.Flags().Changed("quiet") && flagQuiet {
		level = logger.LevelOff
	}
	return level, nil
}

func validateFlags() error {
	if flagTick <= 0 {
		return fmt.Errorf("--tick must be > 0")
	}
	if flagChunkSecs <= 0 {
		return fmt.Errorf("--chunk-secs must be > 0")
	}
	if flagVerbose && flagQuiet {
		return fmt.Errorf("--verbose and --quiet are mutually exclusive")
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *config.Duration) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value.Duration
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# chefchallenge configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# tick = %q               # One game second; shorten to practice quickly
# seed = 0                # Challenge picker seed (0 picks at random)

[speech]
# tts = true              # Speak lines with Azure TTS (needs %s and %s)
# voice = %q
# input = true            # Offer voice input via local Whisper
# whisper-bin = %q
# whisper-model = %q
# chunk-secs = %d         # Seconds per recording chunk
# cache-dir = %q
# disk-cache = true       # Persist synthesized audio

[log]
# level = "normal"        # off, normal or verbose
# file = %q
`,
		defaultTick.String(),
		speech.EnvAzureSpeechKey,
		speech.EnvAzureSpeechRegion,
		speech.DefaultVoice,
		defaultWhisperBin,
		defaultWhisperModel,
		defaultChunkSecs,
		config.DefaultAudioCacheDir(),
		config.DefaultLogPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
