// Package main provides the polyvox command line host. It drives the same
// entry surface a speech platform would: class object lookup, instance
// construction through the factory, token binding and the streaming Speak
// call, with the audio landing in a WAVE file instead of a playback device.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/polyvox/polyvox/internal/wav"
	"github.com/polyvox/polyvox/sapi"
	"github.com/polyvox/polyvox/sapi/engine"
	"github.com/polyvox/polyvox/sapi/langdetect"
	"github.com/polyvox/polyvox/sapi/providers/mock"
	"github.com/polyvox/polyvox/sapi/providers/modeldir"
	"github.com/polyvox/polyvox/sapi/providers/piper"
	"github.com/polyvox/polyvox/sapi/voices"
)

// Class IDs of the two bundled engines. Hosts address an engine by class
// ID, so these stay stable across releases.
var (
	classIDPiper = uuid.MustParse("9876903A-2109-4BCC-A64B-242880E12AD2")
	classIDMock  = uuid.MustParse("F91EF41B-D593-442E-8730-064336410310")
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile  string
	modelsDir   string
	outputPath  string
	rate        int
	volume      int
	languages   []string
	debugText   bool
	useMock     bool
	punctuation bool

	rootCmd = &cobra.Command{
		Use:   "polyvox [TEXT|FILE]",
		Short: "Synthesize speech through a pluggable engine host",
		Long: "\nPolyvox hosts pluggable speech engines behind a fixed binary surface.\n" +
			"Text is split into language runs, each run is rendered by the best\n" +
			"matching voice, and the result is written as a WAVE file.",
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	modelsDir = viper.GetString("models_dir")
	rate = viper.GetInt("rate")
	volume = viper.GetInt("volume")
	if langs := viper.GetStringSlice("languages"); len(langs) > 0 && !cmd.Flags().Changed("languages") {
		languages = langs
	}

	if rate < -10 || rate > 10 {
		return fmt.Errorf("rate must be between -10 and 10, got %d", rate)
	}
	if volume < 0 || volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", volume)
	}
	if !useMock && modelsDir == "" {
		return errors.New("no model directory configured: pass --models or set models_dir, or use --mock")
	}
	return nil
}

// textFromInput resolves the synthesis input: piped stdin wins, then a
// readable file path, then the argument taken literally.
func textFromInput(args []string) (string, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return "", fmt.Errorf("unable to stat stdin: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("unable to read stdin: %w", err)
		}
		return string(b), nil
	}

	if len(args) == 0 {
		return "", errors.New("missing input: pass text, a file path, or pipe to stdin")
	}

	if st, err := os.Stat(args[0]); err == nil && !st.IsDir() {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("unable to read file: %w", err)
		}
		return string(b), nil
	}
	return args[0], nil
}

// newProvider builds the configured voice provider. The returned closer
// releases directory watches and must run after synthesis finishes.
func newProvider() (voices.Provider, func() error, error) {
	if useMock {
		return mock.New(), func() error { return nil }, nil
	}

	cfg := piper.Config{
		Binary:  viper.GetString("piper.binary"),
		Timeout: viper.GetDuration("piper.timeout"),
	}
	p, err := modeldir.New(modelsDir, piper.Loader(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("opening model directory: %w", err)
	}
	return p, p.Close, nil
}

func classID() sapi.InterfaceID {
	if useMock {
		return classIDMock
	}
	return classIDPiper
}

// newServer assembles the module entry surface the way a loading host
// would see it.
func newServer(provider voices.Provider, detector langdetect.Detector) *sapi.Server {
	id := classID()
	return &sapi.Server{
		ClassID: id,
		NewEngine: func() (sapi.Synthesizer, error) {
			return engine.New(detector, provider), nil
		},
		Class: sapi.ClassInfo{
			ClassID:        id,
			Name:           "Polyvox TTS Engine",
			ThreadingModel: "Both",
		},
		Voices: []sapi.ObjectToken{defaultToken(id)},
	}
}

func defaultToken(id sapi.InterfaceID) sapi.ObjectToken {
	return sapi.ObjectToken{
		KeyName:  "PolyvoxDefault",
		LongName: "Polyvox Multilingual",
		ClassID:  id,
		Attributes: sapi.Attributes{
			Name:     "Polyvox Multilingual",
			Age:      "Adult",
			Language: "409",
			Vendor:   "Polyvox",
		},
	}
}

// hostSink collects synthesized bytes and answers action polls the way a
// host would: no abort, fixed rate and volume.
type hostSink struct {
	buf    bytes.Buffer
	rate   int
	volume int
}

func (s *hostSink) Write(p []byte) (int, error) { return s.buf.Write(p) }
func (s *hostSink) Actions() sapi.Action        { return sapi.ActionContinue }
func (s *hostSink) Rate() (int, error)          { return s.rate, nil }
func (s *hostSink) Volume() (int, error)        { return s.volume, nil }

func execute(_ *cobra.Command, args []string) error {
	text, err := textFromInput(args)
	if err != nil {
		return err
	}

	provider, closeProvider, err := newProvider()
	if err != nil {
		return err
	}
	defer closeProvider() //nolint:errcheck

	detector, err := langdetect.NewLinguaDetector(languages)
	if err != nil {
		return fmt.Errorf("configuring language detection: %w", err)
	}

	server := newServer(provider, detector)

	var factory *sapi.Factory
	if st := server.GetClassObject(server.ClassID, sapi.IIDClassFactory, &factory); st.Failed() {
		return fmt.Errorf("acquiring class object: %s", st)
	}
	defer factory.Close()

	var inst *sapi.EngineInstance
	if err := factory.CreateInstance(nil, sapi.IIDSpeechEngine, &inst); err != nil {
		return fmt.Errorf("creating engine instance: %w", err)
	}
	defer inst.Close() //nolint:errcheck

	tok := defaultToken(server.ClassID)
	if err := inst.SetObjectToken(&tok); err != nil {
		return fmt.Errorf("binding voice token: %w", err)
	}

	var target *sapi.SpeechFormat
	if debugText {
		t := sapi.DebugTextFormat()
		target = &t
	}
	format, err := inst.OutputFormat(target)
	if err != nil {
		return fmt.Errorf("negotiating output format: %w", err)
	}

	var flags sapi.SpeakFlags
	if punctuation {
		flags |= sapi.FlagSpeakPunctuation
	}

	sink := &hostSink{rate: rate, volume: volume}
	start := time.Now()
	if err := inst.Speak(flags, format, sapi.FragmentFromString(text, 0), sink); err != nil {
		return fmt.Errorf("synthesis failed: %w", err)
	}
	log.Debug("synthesis finished", "bytes", sink.buf.Len(), "elapsed", time.Since(start))

	return writeOutput(format, sink.buf.Bytes())
}

func writeOutput(format sapi.SpeechFormat, data []byte) error {
	if outputPath == "-" {
		if format.Kind == sapi.FormatWave && term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("refusing to write audio to a terminal: redirect stdout or use --output")
		}
		_, err := os.Stdout.Write(wrapOutput(format, data))
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	if format.Kind != sapi.FormatWave {
		_, err := f.Write(data)
		return err
	}
	if err := wav.Encode(f, format.Wave, data); err != nil {
		return fmt.Errorf("writing wave file: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Wrote", len(data), "bytes of audio to", outputPath)
	return nil
}

func wrapOutput(format sapi.SpeechFormat, data []byte) []byte {
	if format.Kind != sapi.FormatWave {
		return data
	}
	var buf bytes.Buffer
	// Encode into a buffer only fails on size overflow, checked by Speak's
	// chunking long before this point.
	_ = wav.Encode(&buf, format.Wave, data)
	return buf.Bytes()
}

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the voices the configured provider offers",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		provider, closeProvider, err := newProvider()
		if err != nil {
			return err
		}
		defer closeProvider() //nolint:errcheck

		vs, err := provider.Voices()
		if err != nil {
			return fmt.Errorf("listing voices: %w", err)
		}
		def, err := provider.DefaultVoice()
		if err != nil {
			return fmt.Errorf("resolving default voice: %w", err)
		}
		for _, v := range vs {
			marker := " "
			if v.ID == def.ID {
				marker = "*"
			}
			fmt.Printf("%s %-30s %-8s %s\n", marker, v.Name, v.Language, v.ID)
		}
		return nil
	},
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().StringVarP(&modelsDir, "models", "m", "", "directory holding voice model configs")
	rootCmd.PersistentFlags().BoolVar(&useMock, "mock", false, "use the built-in mock voice instead of real models")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "out.wav", "output file, or - for stdout")
	rootCmd.Flags().IntVarP(&rate, "rate", "r", 0, "speaking rate from -10 (slowest) to 10 (fastest)")
	rootCmd.Flags().IntVarP(&volume, "volume", "v", 100, "volume from 0 to 100")
	rootCmd.Flags().StringSliceVarP(&languages, "languages", "l", []string{"en"}, "language codes to detect, in preference order")
	rootCmd.Flags().BoolVar(&debugText, "debug-text", false, "request the text pass-through format instead of audio")
	rootCmd.Flags().BoolVar(&punctuation, "punctuation", false, "speak punctuation out loud")

	_ = viper.BindPFlag("models_dir", rootCmd.PersistentFlags().Lookup("models"))
	_ = viper.BindPFlag("rate", rootCmd.Flags().Lookup("rate"))
	_ = viper.BindPFlag("volume", rootCmd.Flags().Lookup("volume"))
	_ = viper.BindPFlag("languages", rootCmd.Flags().Lookup("languages"))

	viper.SetDefault("rate", 0)
	viper.SetDefault("volume", 100)
	viper.SetDefault("languages", []string{"en"})
	viper.SetDefault("piper.binary", "piper")
	viper.SetDefault("piper.timeout", "30s")

	rootCmd.AddCommand(voicesCmd, configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "polyvox")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "polyvox")}, dirs...)
	}

	if c := os.Getenv("POLYVOX_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("polyvox")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("polyvox")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "polyvox.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
