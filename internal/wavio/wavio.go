// Package wavio reads and writes minimal mono 16-bit PCM WAV files for
// the command line tools. Samples are normalized float64 in [-1, 1].
package wavio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// Info describes the decoded stream.
type Info struct {
	SampleRate int
	Samples    int
}

// Read decodes a RIFF/WAV stream. Only uncompressed 16-bit PCM mono is
// supported; the sample rate is reported, not restricted.
func Read(r io.ReadSeeker) ([]float64, Info, error) {
	var info Info

	var riffID [4]byte
	if err := binary.Read(r, binary.LittleEndian, &riffID); err != nil {
		return nil, info, fmt.Errorf("wavio: read RIFF id: %w", err)
	}
	if string(riffID[:]) != "RIFF" {
		return nil, info, errors.New("wavio: not a RIFF file")
	}

	var fileSize uint32
	if err := binary.Read(r, binary.LittleEndian, &fileSize); err != nil {
		return nil, info, fmt.Errorf("wavio: read file size: %w", err)
	}

	var waveID [4]byte
	if err := binary.Read(r, binary.LittleEndian, &waveID); err != nil {
		return nil, info, fmt.Errorf("wavio: read WAVE id: %w", err)
	}
	if string(waveID[:]) != "WAVE" {
		return nil, info, errors.New("wavio: not a WAVE file")
	}

	var fmtFound, dataFound bool
	var samples []float64

	for !(fmtFound && dataFound) {
		var chunkID [4]byte
		if err := binary.Read(r, binary.LittleEndian, &chunkID); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return nil, info, fmt.Errorf("wavio: read chunk id: %w", err)
		}

		var chunkSize uint32
		if err := binary.Read(r, binary.LittleEndian, &chunkSize); err != nil {
			return nil, info, fmt.Errorf("wavio: read chunk size: %w", err)
		}

		switch string(chunkID[:]) {
		case "fmt ":
			if err := readFormat(r, chunkSize, &info); err != nil {
				return nil, info, err
			}
			fmtFound = true

		case "data":
			if !fmtFound {
				return nil, info, errors.New("wavio: data chunk before fmt chunk")
			}
			var err error
			samples, err = readData(r, chunkSize)
			if err != nil {
				return nil, info, err
			}
			info.Samples = len(samples)
			dataFound = true

		default:
			// Chunks are padded to an even byte boundary.
			skip := int64(chunkSize)
			if chunkSize%2 != 0 {
				skip++
			}
			if _, err := r.Seek(skip, io.SeekCurrent); err != nil {
				return nil, info, fmt.Errorf("wavio: skip chunk %q: %w", chunkID, err)
			}
		}
	}

	if !fmtFound {
		return nil, info, errors.New("wavio: missing fmt chunk")
	}
	if !dataFound {
		return nil, info, errors.New("wavio: missing data chunk")
	}

	return samples, info, nil
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) ([]float64, Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Info{}, err
	}
	defer f.Close()
	return Read(f)
}

// Write encodes samples as mono 16-bit PCM. Values outside [-1, 1] are
// clipped.
func Write(w io.Writer, samples []float64, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("wavio: sample rate must be positive, got %d", sampleRate)
	}

	dataSize := uint32(len(samples) * 2)

	if _, err := w.Write([]byte("RIFF")); err != nil {
		return fmt.Errorf("wavio: write RIFF id: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, 36+dataSize); err != nil {
		return fmt.Errorf("wavio: write file size: %w", err)
	}
	if _, err := w.Write([]byte("WAVE")); err != nil {
		return fmt.Errorf("wavio: write WAVE id: %w", err)
	}

	if _, err := w.Write([]byte("fmt ")); err != nil {
		return fmt.Errorf("wavio: write fmt id: %w", err)
	}
	fmtFields := []any{
		uint32(16),             // chunk size
		uint16(1),              // PCM
		uint16(1),              // mono
		uint32(sampleRate),     // sample rate
		uint32(sampleRate * 2), // byte rate
		uint16(2),              // block align
		uint16(16),             // bits per sample
	}
	for _, v := range fmtFields {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("wavio: write fmt chunk: %w", err)
		}
	}

	if _, err := w.Write([]byte("data")); err != nil {
		return fmt.Errorf("wavio: write data id: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, dataSize); err != nil {
		return fmt.Errorf("wavio: write data size: %w", err)
	}

	pcm := make([]int16, len(samples))
	for i, s := range samples {
		v := math.Round(s * 32767)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		pcm[i] = int16(v)
	}
	if err := binary.Write(w, binary.LittleEndian, pcm); err != nil {
		return fmt.Errorf("wavio: write PCM data: %w", err)
	}
	return nil
}

// WriteFile encodes samples to the WAV file at path.
func WriteFile(path string, samples []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, samples, sampleRate); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readFormat(r io.ReadSeeker, size uint32, info *Info) error {
	var audioFormat uint16
	if err := binary.Read(r, binary.LittleEndian, &audioFormat); err != nil {
		return fmt.Errorf("wavio: read audio format: %w", err)
	}
	if audioFormat != 1 {
		return fmt.Errorf("wavio: unsupported audio format %d, want PCM", audioFormat)
	}

	var channels uint16
	if err := binary.Read(r, binary.LittleEndian, &channels); err != nil {
		return fmt.Errorf("wavio: read channel count: %w", err)
	}
	if channels != 1 {
		return fmt.Errorf("wavio: unsupported channel count %d, want mono", channels)
	}

	var sampleRate uint32
	if err := binary.Read(r, binary.LittleEndian, &sampleRate); err != nil {
		return fmt.Errorf("wavio: read sample rate: %w", err)
	}
	info.SampleRate = int(sampleRate)

	// byte rate and block align
	if _, err := r.Seek(6, io.SeekCurrent); err != nil {
		return fmt.Errorf("wavio: skip byte rate: %w", err)
	}

	var bits uint16
	if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
		return fmt.Errorf("wavio: read bits per sample: %w", err)
	}
	if bits != 16 {
		return fmt.Errorf("wavio: unsupported bit depth %d, want 16", bits)
	}

	const consumed = 16
	if size > consumed {
		if _, err := r.Seek(int64(size-consumed), io.SeekCurrent); err != nil {
			return fmt.Errorf("wavio: skip extra fmt bytes: %w", err)
		}
	}
	return nil
}

func readData(r io.Reader, size uint32) ([]float64, error) {
	pcm := make([]int16, int(size)/2)
	if err := binary.Read(r, binary.LittleEndian, pcm); err != nil {
		return nil, fmt.Errorf("wavio: read PCM data: %w", err)
	}

	samples := make([]float64, len(pcm))
	for i, s := range pcm {
		samples[i] = float64(s) / 32768.0
	}
	return samples, nil
}
