// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes RIFF/WAVE files through github.com/go-audio/wav.
//
// Integer PCM at 8, 16, 24 and 32 bits is decoded to float32 samples in
// [-1, 1]. Decoder.Decode loads the whole file into an audio.Buffer; Open
// returns a streaming audio.Source instead:
//
//	f, _ := os.Open("take.wav")
//	buf, err := wav.Decoder{}.Decode(f)
//
// The go-audio decoder needs to seek. Readers that cannot are buffered in
// memory first.
//
// Encode writes a buffer back as integer PCM:
//
//	out, _ := os.Create("mono.wav")
//	err := wav.Encode(out, buf, 16)
//
// # Errors
//
//   - ErrNotWavFile: the stream has no RIFF/WAVE header
//   - ErrUnsupportedWavLayout: compressed or float data, or no channels
//   - ErrUnsupportedBitDepth: sample size other than 8, 16, 24 or 32 bits
//   - ErrUnsupportedWavChunks: no data chunk follows the header
package wav
