// Package modeldir is a voice provider backed by a directory of synthesis
// model configs. Each JSON file in the directory describes one model (and
// thus one voice); the synthesis backend itself stays opaque behind a
// Loader. Loaded models are cached for the lifetime of the provider and the
// directory is watched so the voice list follows on-disk changes.
package modeldir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/polyvox/polyvox/sapi/voices"
)

// Common errors.
var (
	ErrNoModels = errors.New("no models in model directory")
)

// Language is the language block of a model config.
type Language struct {
	Code        string `json:"code"`
	Family      string `json:"family"`
	Region      string `json:"region"`
	NameNative  string `json:"name_native"`
	NameEnglish string `json:"name_english"`
}

// AudioConfig is the audio block of a model config.
type AudioConfig struct {
	SampleRate int `json:"sample_rate"`
}

// ModelConfig is the JSON sidecar describing one synthesis model.
type ModelConfig struct {
	Key          string           `json:"key"`
	Language     *Language        `json:"language"`
	Audio        AudioConfig      `json:"audio"`
	NumSpeakers  int              `json:"num_speakers"`
	SpeakerIDMap map[string]int64 `json:"speaker_id_map"`
}

// ModelInfo is one discovered model.
type ModelInfo struct {
	// Path of the JSON config file; doubles as the voice ID.
	Path   string
	Config ModelConfig
}

// Model is a loaded synthesis backend for one model config.
type Model interface {
	// Synthesize renders text with the given speaker and returns raw
	// audio bytes in the model's output format.
	Synthesize(text string, speaker int64, rate, volume float64) ([]byte, error)
}

// Loader constructs the opaque backend for a model config path.
type Loader func(configPath string) (Model, error)

// Provider scans a directory of model configs and serves them as voices.
// The model cache is shared by all ranges processed within one synthesis
// call and may also be hit while another goroutine constructs an instance,
// so it is mutex guarded.
type Provider struct {
	dir  string
	load Loader

	mu     sync.Mutex
	models map[string]Model // by config path

	scanMu  sync.Mutex
	scanned []ModelInfo
	stale   atomic.Bool

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// New creates a provider over dir. The directory watch is best-effort; when
// it cannot be established the provider still works, it just rescans only
// on demand.
func New(dir string, load Loader) (*Provider, error) {
	if load == nil {
		return nil, errors.New("modeldir: nil loader")
	}
	p := &Provider{
		dir:    dir,
		load:   load,
		models: make(map[string]Model),
		done:   make(chan struct{}),
	}
	p.stale.Store(true)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn("model directory watch unavailable", "err", err)
		return p, nil
	}
	if err := watcher.Add(dir); err != nil {
		log.Warn("could not watch model directory", "dir", dir, "err", err)
		_ = watcher.Close()
		return p, nil
	}
	p.watcher = watcher
	go p.watch()
	return p, nil
}

func (p *Provider) watch() {
	for {
		select {
		case _, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			p.stale.Store(true)
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("model directory watch error", "err", err)
		case <-p.done:
			return
		}
	}
}

// Close stops the directory watch. Cached models are dropped with the
// provider.
func (p *Provider) Close() error {
	close(p.done)
	if p.watcher != nil {
		return p.watcher.Close()
	}
	return nil
}

// Models returns the discovered models, rescanning the directory when the
// cached listing is stale.
func (p *Provider) Models() ([]ModelInfo, error) {
	p.scanMu.Lock()
	defer p.scanMu.Unlock()
	if !p.stale.Swap(false) && p.scanned != nil {
		return p.scanned, nil
	}

	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, fmt.Errorf("listing model directory: %w", err)
	}

	var models []ModelInfo
	for _, entry := range entries {
		path := filepath.Join(p.dir, entry.Name())
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
			log.Debug("skipped non-model entry", "path", path)
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn("failed to read model config", "path", path, "err", err)
			continue
		}
		var config ModelConfig
		if err := json.Unmarshal(data, &config); err != nil {
			log.Warn("failed to decode model config", "path", path, "err", err)
			continue
		}
		models = append(models, ModelInfo{Path: path, Config: config})
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoModels, p.dir)
	}
	p.scanned = models
	return models, nil
}

// Voices lists one voice per discovered model.
func (p *Provider) Voices() ([]voices.Voice, error) {
	models, err := p.Models()
	if err != nil {
		return nil, err
	}
	list := make([]voices.Voice, 0, len(models))
	for _, m := range models {
		list = append(list, voiceFor(m))
	}
	return list, nil
}

// DefaultVoice returns the first discovered voice.
func (p *Provider) DefaultVoice() (voices.Voice, error) {
	models, err := p.Models()
	if err != nil {
		return voices.Voice{}, err
	}
	return voiceFor(models[0]), nil
}

func voiceFor(m ModelInfo) voices.Voice {
	name := m.Config.Key
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(m.Path), filepath.Ext(m.Path))
	}
	lang := ""
	if m.Config.Language != nil {
		lang = m.Config.Language.Code
	}
	return voices.Voice{ID: m.Path, Name: name, Language: lang}
}

// Synthesize renders text with the model behind the given voice at the
// requested rate and volume and returns a session over the rendered audio.
func (p *Provider) Synthesize(text string, v voices.Voice, rate, volume float64) (voices.Session, error) {
	model, err := p.model(v.ID)
	if err != nil {
		return nil, err
	}
	data, err := model.Synthesize(text, p.speakerFor(v.ID), rate, volume)
	if err != nil {
		return nil, fmt.Errorf("model synthesis: %w", err)
	}
	return newByteSession(data), nil
}

// model returns the cached backend for a config path, loading it on first
// use. The cache lock is held across the load so concurrent callers do not
// load the same model twice.
func (p *Provider) model(configPath string) (Model, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := p.models[configPath]; ok {
		return m, nil
	}
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("%w: %s", voices.ErrVoiceNotFound, configPath)
	}
	m, err := p.load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", configPath, err)
	}
	p.models[configPath] = m
	return m, nil
}

// speakerFor reads the sidecar "<model>.voice.txt" speaker selection.
// Missing or malformed sidecars fall back to speaker 0.
func (p *Provider) speakerFor(configPath string) int64 {
	sidecar := strings.TrimSuffix(configPath, filepath.Ext(configPath)) + ".voice.txt"
	content, err := os.ReadFile(sidecar)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn("failed to read speaker sidecar", "path", sidecar, "err", err)
		}
		return 0
	}
	id, err := strconv.ParseInt(strings.TrimSpace(string(content)), 10, 64)
	if err != nil {
		log.Error("speaker sidecar should contain a number", "path", sidecar, "err", err)
		return 0
	}
	return id
}
