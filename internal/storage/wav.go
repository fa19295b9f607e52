package storage

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	wavFormatPCM       = 1
	wavFormatIEEEFloat = 3
)

// DecodeWAV parses a RIFF/WAVE container into a mono clip. PCM (8, 16 and
// 32 bit) and 32-bit IEEE float payloads are supported; multi-channel audio
// is downmixed by averaging the channels.
func DecodeWAV(data []byte) (*Clip, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE stream")
	}

	var (
		audioFormat   uint16
		numChannels   uint16
		sampleRate    uint32
		bitsPerSample uint16
		payload       []byte
		haveFmt       bool
	)

	// Walk the chunk list; writers are free to insert LIST, fact and
	// other chunks between fmt and data.
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8

		if body+chunkSize > len(data) {
			chunkSize = len(data) - body
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, fmt.Errorf("fmt chunk truncated at %d bytes", chunkSize)
			}
			audioFormat = binary.LittleEndian.Uint16(data[body : body+2])
			numChannels = binary.LittleEndian.Uint16(data[body+2 : body+4])
			sampleRate = binary.LittleEndian.Uint32(data[body+4 : body+8])
			bitsPerSample = binary.LittleEndian.Uint16(data[body+14 : body+16])
			haveFmt = true
		case "data":
			payload = data[body : body+chunkSize]
		}

		// Chunks are word aligned
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if !haveFmt {
		return nil, fmt.Errorf("missing fmt chunk")
	}
	if payload == nil {
		return nil, fmt.Errorf("missing data chunk")
	}
	if numChannels == 0 || sampleRate == 0 {
		return nil, fmt.Errorf("invalid format: %d channels at %d Hz", numChannels, sampleRate)
	}

	var samples []float64
	var err error

	switch {
	case audioFormat == wavFormatPCM && bitsPerSample == 16:
		samples = convertS16(payload)
	case audioFormat == wavFormatPCM && bitsPerSample == 32:
		samples = convertS32(payload)
	case audioFormat == wavFormatPCM && bitsPerSample == 8:
		samples = convertU8(payload)
	case audioFormat == wavFormatIEEEFloat && bitsPerSample == 32:
		samples, err = convertF32(payload)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported encoding: format %d, %d bits per sample", audioFormat, bitsPerSample)
	}

	if numChannels > 1 {
		samples = downmix(samples, int(numChannels))
	}

	return &Clip{
		Samples:    samples,
		SampleRate: int(sampleRate),
	}, nil
}

// convertS16 decodes 16-bit signed little-endian PCM to [-1, 1]
func convertS16(data []byte) []float64 {
	samples := make([]float64, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(data[i : i+2]))
		samples = append(samples, float64(sample)/32768.0)
	}
	return samples
}

// convertS32 decodes 32-bit signed little-endian PCM to [-1, 1]
func convertS32(data []byte) []float64 {
	samples := make([]float64, 0, len(data)/4)
	for i := 0; i+3 < len(data); i += 4 {
		sample := int32(binary.LittleEndian.Uint32(data[i : i+4]))
		samples = append(samples, float64(sample)/2147483648.0)
	}
	return samples
}

// convertU8 decodes unsigned 8-bit PCM, which is stored offset by 128
func convertU8(data []byte) []float64 {
	samples := make([]float64, len(data))
	for i, b := range data {
		samples[i] = (float64(b) - 128.0) / 128.0
	}
	return samples
}

// convertF32 decodes 32-bit IEEE float little-endian samples, rejecting
// non-finite values that would poison every downstream statistic
func convertF32(data []byte) ([]float64, error) {
	samples := make([]float64, 0, len(data)/4)
	for i := 0; i+3 < len(data); i += 4 {
		bits := binary.LittleEndian.Uint32(data[i : i+4])
		sample := float64(math.Float32frombits(bits))
		if math.IsNaN(sample) || math.IsInf(sample, 0) {
			return nil, fmt.Errorf("non-finite sample at byte offset %d", i)
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

// downmix averages interleaved channels into mono
func downmix(samples []float64, channels int) []float64 {
	frames := len(samples) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += samples[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}
