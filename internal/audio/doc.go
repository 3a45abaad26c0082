// Package audio plays a short chime when a toast is presented.
// It uses the beep library to play WAV, OGG, and MP3 audio files
// with volume control and per-kind sound configuration.
package audio
