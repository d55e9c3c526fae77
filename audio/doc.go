// SPDX-License-Identifier: EPL-2.0

// Package audio provides the sample-level building blocks used before
// pitch analysis.
//
// This package contains:
//   - Source, the streaming interface every decoder and processor implements
//   - Buffer, a fully decoded block of interleaved samples
//   - MonoMixer for channel averaging
//   - Resampler, a band-limited windowed-sinc rate converter
//   - Normalize, which turns any Buffer into mono audio at a target rate
//   - Registry for decoder registration
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    Close() error
//	}
//
// Processors wrap a Source and are themselves a Source, so they chain:
//
//	chain := audio.NewResampler(audio.NewMonoMixer(buf.Reader()), 22050)
//	mono, err := audio.ReadAll(chain)
//
// # Normalization
//
// Most callers only need Normalize:
//
//	mono, err := audio.Normalize(buf, 22050)
//
// Channels are averaged before resampling. The output length is always
// OutputLength(buf.Frames(), buf.SampleRate, 22050), and the same input
// always yields bit-identical output.
//
// # Resampling
//
// The Resampler applies a Blackman-windowed sinc low-pass filter whose
// cutoff follows the lower of the two Nyquist frequencies, so content that
// cannot be represented at the target rate is removed instead of folding
// back as aliases. Source positions are tracked as exact rationals, which
// keeps long streams free of drift.
//
// # Sample Format
//
// Samples are float32 in the range [-1.0, 1.0]:
//   - 0.0 represents silence
//   - 1.0 represents maximum positive amplitude
//   - -1.0 represents maximum negative amplitude
//
// # Error Handling
//
// ReadSamples returns io.EOF when the stream is finished, possibly together
// with the final samples:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    process(buf[:n])
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
//
// Buffers without channels, samples or a positive rate are rejected with
// ErrUnsupportedAudio.
package audio
