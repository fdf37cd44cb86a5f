package narrator

import (
	"bytes"
	"encoding/binary"
)

// Gemini TTS replies with raw 16-bit little-endian PCM at this rate.
const (
	DefaultSampleRate = 24000
	DefaultChannels   = 1
)

// Clip is one synthesized utterance.
type Clip struct {
	Text       string
	PCM        []byte
	SampleRate int
	Channels   int
}

// Samples decodes the PCM into per-channel float32 samples in [-1, 1).
// A trailing odd byte is ignored.
func (c Clip) Samples() [][]float32 {
	channels := c.Channels
	if channels <= 0 {
		channels = 1
	}
	frames := len(c.PCM) / 2 / channels
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			off := (i*channels + ch) * 2
			v := int16(binary.LittleEndian.Uint16(c.PCM[off : off+2]))
			out[ch][i] = float32(v) / 32768.0
		}
	}
	return out
}

// Duration in seconds.
func (c Clip) Duration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	channels := c.Channels
	if channels <= 0 {
		channels = 1
	}
	return float64(len(c.PCM)/2/channels) / float64(c.SampleRate)
}

// WAV wraps the PCM in a canonical 44-byte RIFF header.
func (c Clip) WAV() []byte {
	channels := c.Channels
	if channels <= 0 {
		channels = 1
	}
	rate := c.SampleRate
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	const bitsPerSample = 16
	blockAlign := channels * bitsPerSample / 8
	dataLen := len(c.PCM) - len(c.PCM)%2

	var buf bytes.Buffer
	buf.Grow(44 + dataLen)
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(rate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(rate*blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	buf.Write(c.PCM[:dataLen])
	return buf.Bytes()
}
