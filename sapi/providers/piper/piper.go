// Package piper loads neural voice models by shelling out to the piper
// binary. Each synthesis request runs a fresh process; piper starts fast
// enough that process reuse is not worth the lifecycle bookkeeping.
package piper

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/polyvox/polyvox/sapi/providers/modeldir"
)

// Config controls how piper processes are launched.
type Config struct {
	// Binary is the piper executable name or path.
	Binary string
	// Timeout bounds a single synthesis request.
	Timeout time.Duration
}

// DefaultConfig returns the config used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		Binary:  "piper",
		Timeout: 30 * time.Second,
	}
}

// Loader adapts the config into a model loader for a model directory
// provider. The returned loader never fails eagerly; a missing binary
// surfaces on the first synthesis request.
func Loader(cfg Config) modeldir.Loader {
	if cfg.Binary == "" {
		cfg.Binary = "piper"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return func(configPath string) (modeldir.Model, error) {
		return &model{
			cfg:        cfg,
			configPath: configPath,
			modelPath:  strings.TrimSuffix(configPath, ".json"),
		}, nil
	}
}

// model runs one piper process per request. Model files are laid out as
// piper ships them: <name>.onnx next to <name>.onnx.json.
type model struct {
	cfg        Config
	configPath string
	modelPath  string
}

// Synthesize renders text to raw 16-bit PCM. rate maps to piper's length
// scale (inverse); volume scales samples after synthesis.
func (m *model) Synthesize(text string, speaker int64, rate, volume float64) ([]byte, error) {
	args := []string{
		"--model", m.modelPath,
		"--config", m.configPath,
		"--output-raw",
	}
	if speaker != 0 {
		args = append(args, "--speaker", strconv.FormatInt(speaker, 10))
	}
	if rate > 0 && rate != 1.0 {
		args = append(args, "--length-scale", strconv.FormatFloat(1.0/rate, 'f', 4, 64))
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.Timeout)
	defer cancel()

	log.Debug("running piper", "binary", m.cfg.Binary, "model", m.modelPath, "speaker", speaker)
	cmd := exec.CommandContext(ctx, m.cfg.Binary, args...)
	cmd.Stdin = bytes.NewBufferString(text + "\n")

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("piper timed out after %s: %w", m.cfg.Timeout, ctx.Err())
		}
		return nil, fmt.Errorf("running piper: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("piper produced no audio for %q", m.modelPath)
	}
	return scaleVolume(out, volume), nil
}

// scaleVolume multiplies 16-bit little endian samples by level, clamping
// at the sample range. A trailing odd byte is passed through untouched.
func scaleVolume(pcm []byte, level float64) []byte {
	if level == 1.0 {
		return pcm
	}
	out := make([]byte, len(pcm))
	copy(out, pcm)
	for i := 0; i+1 < len(out); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(out[i : i+2]))
		scaled := float64(sample) * level
		switch {
		case scaled > 32767:
			sample = 32767
		case scaled < -32768:
			sample = -32768
		default:
			sample = int16(scaled)
		}
		binary.LittleEndian.PutUint16(out[i:i+2], uint16(sample))
	}
	return out
}
