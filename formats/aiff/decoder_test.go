// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/chromahubz/midify/audio"
)

// mockAiffReader simulates the aiff.Decoder for testing
type mockAiffReader struct {
	sampleRate   int
	channels     int
	samples      []int
	offset       int
	returnErrors bool
}

func (m *mockAiffReader) Format() *goaudio.Format {
	return &goaudio.Format{
		SampleRate:  m.sampleRate,
		NumChannels: m.channels,
	}
}

func (m *mockAiffReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.returnErrors {
		return 0, io.ErrUnexpectedEOF
	}

	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	n := copy(buf.Data, m.samples[m.offset:])
	m.offset += n

	if m.offset >= len(m.samples) {
		return n, io.EOF
	}

	return n, nil
}

// encodeAIFF writes samples with the go-audio encoder and returns the file bytes.
func encodeAIFF(t *testing.T, sampleRate, channels, bitDepth int, samples []int) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "in.aiff")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	enc := aiff.NewEncoder(f, sampleRate, bitDepth, channels)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{SampleRate: sampleRate, NumChannels: channels},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	return data
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"text", []byte("This is not AIFF data")},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrNotAiffFile) {
				t.Errorf("Decode() error = %v, want ErrNotAiffFile", err)
			}
		})
	}
}

func TestDecoder_EncodedFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bitDepth int
		samples  []int
		want     []float32
	}{
		{"16-bit", 16, []int{0, 16384, -16384, -32768}, []float32{0, 0.5, -0.5, -1}},
		{"24-bit", 24, []int{0, 4194304, -4194304, -8388608}, []float32{0, 0.5, -0.5, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := encodeAIFF(t, 44100, 2, tt.bitDepth, tt.samples)

			// MultiReader hides Seek, forcing the in-memory path.
			buf, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(data)))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			if buf.SampleRate != 44100 || buf.Channels != 2 {
				t.Errorf("Decode() = %d Hz x %d, want 44100 Hz x 2", buf.SampleRate, buf.Channels)
			}
			if len(buf.Data) != len(tt.want) {
				t.Fatalf("len(Data) = %d, want %d", len(buf.Data), len(tt.want))
			}
			for i, want := range tt.want {
				if math.Abs(float64(buf.Data[i]-want)) > 1e-6 {
					t.Errorf("Data[%d] = %v, want %v", i, buf.Data[i], want)
				}
			}
		})
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src, err := newSource(&mockAiffReader{sampleRate: 48000, channels: 2}, 16)
	if err != nil {
		t.Fatalf("newSource() error = %v", err)
	}

	if src.SampleRate() != 48000 {
		t.Errorf("SampleRate() = %d, want 48000", src.SampleRate())
	}
	if src.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", src.Channels())
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v, want nil", err)
	}
}

func TestNewSource_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		dec      *mockAiffReader
		bitDepth int
		want     error
	}{
		{"12-bit", &mockAiffReader{sampleRate: 8000, channels: 1}, 12, ErrUnsupportedBitDepth},
		{"no channels", &mockAiffReader{sampleRate: 8000}, 16, ErrUnsupportedAiffLayout},
		{"no rate", &mockAiffReader{channels: 1}, 16, ErrUnsupportedAiffLayout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := newSource(tt.dec, tt.bitDepth); !errors.Is(err, tt.want) {
				t.Errorf("newSource() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSource_ReadSamples_MultipleReads(t *testing.T) {
	t.Parallel()

	samples := make([]int, 20)
	for i := range samples {
		samples[i] = i * 1000
	}

	src, err := newSource(&mockAiffReader{sampleRate: 8000, channels: 2, samples: samples}, 16)
	if err != nil {
		t.Fatal(err)
	}

	dst := make([]float32, 6)
	total := 0
	for {
		n, err := src.ReadSamples(dst)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if total != 20 {
		t.Errorf("read %d samples, want 20", total)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	src, err := newSource(&mockAiffReader{sampleRate: 8000, channels: 1, returnErrors: true}, 16)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := audio.ReadAll(src); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadAll() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestSource_BitDepthNormalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bitDepth int
		input    int
		expected float32
	}{
		{"8-bit max", 8, 127, 127.0 / 128.0},
		{"8-bit min", 8, -128, -1.0},
		{"16-bit max", 16, 32767, 32767.0 / 32768.0},
		{"16-bit min", 16, -32768, -1.0},
		{"24-bit", 24, 8388607, 8388607.0 / 8388608.0},
		{"32-bit", 32, 2147483647, 2147483647.0 / 2147483648.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := newSource(&mockAiffReader{
				sampleRate: 44100,
				channels:   1,
				samples:    []int{tt.input},
			}, tt.bitDepth)
			if err != nil {
				t.Fatal(err)
			}

			dst := make([]float32, 1)
			n, _ := src.ReadSamples(dst)
			if n != 1 {
				t.Fatalf("ReadSamples() n = %d, want 1", n)
			}

			if math.Abs(float64(dst[0]-tt.expected)) > 0.001 {
				t.Errorf("ReadSamples() dst[0] = %f, want ~%f", dst[0], tt.expected)
			}
		})
	}
}

func TestErrors_Uniqueness(t *testing.T) {
	t.Parallel()

	allErrors := []error{ErrNotAiffFile, ErrUnsupportedBitDepth, ErrUnsupportedAiffLayout}
	messages := make(map[string]bool)

	for _, err := range allErrors {
		if messages[err.Error()] {
			t.Errorf("duplicate message %q", err.Error())
		}
		messages[err.Error()] = true
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	samples := make([]int, 44100*2)
	for i := range samples {
		samples[i] = i % 1000
	}

	mock := &mockAiffReader{sampleRate: 44100, channels: 2, samples: samples}
	src, _ := newSource(mock, 16)
	dst := make([]float32, 4096)

	b.ReportAllocs()

	for b.Loop() {
		mock.offset = 0
		_, _ = src.ReadSamples(dst)
	}
}
