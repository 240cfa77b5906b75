// Package wavinfo reads WAV durations natively and writes silent WAV files
// used as placeholder narration.
package wavinfo

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitDepth    = 16
	numChannels = 1
	pcmFormat   = 1

	// DefaultSampleRate is used when a caller passes a non-positive rate.
	DefaultSampleRate = 44100
)

// Duration returns the playback length of a WAV file in seconds.
func Duration(path string) (float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return 0, fmt.Errorf("invalid wav file: %s", path)
	}
	duration, err := decoder.Duration()
	if err != nil {
		return 0, fmt.Errorf("wav duration %s: %w", path, err)
	}
	return duration.Seconds(), nil
}

// WriteSilence writes a mono 16-bit PCM WAV of the given length.
func WriteSilence(path string, seconds float64, sampleRate int) (err error) {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return errors.New("silence duration must be positive")
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	encoder := wav.NewEncoder(file, sampleRate, bitDepth, numChannels, pcmFormat)
	frames := int(math.Ceil(seconds * float64(sampleRate)))
	chunk := sampleRate
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numChannels, SampleRate: sampleRate},
		SourceBitDepth: bitDepth,
	}
	for written := 0; written < frames; written += chunk {
		n := min(chunk, frames-written)
		buf.Data = make([]int, n)
		if err := encoder.Write(buf); err != nil {
			return fmt.Errorf("write silence: %w", err)
		}
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}
