// Package wav writes PCM audio into RIFF/WAVE containers. It exists so the
// command line host can persist synthesized output as playable files; the
// synthesis path itself deals only in raw sample bytes.
package wav
