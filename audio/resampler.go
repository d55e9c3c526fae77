// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"math"

	"github.com/chromahubz/midify/utils"
)

const (
	// zeroCrossings is the number of sinc lobes kept on each side of the
	// interpolation point at full bandwidth.
	zeroCrossings = 16

	// maxCachedPhases caps the per-phase kernel table. Rate pairs with more
	// distinct phases compute their taps on the fly.
	maxCachedPhases = 1024

	// trimThreshold is how many consumed frames accumulate before the
	// history buffer is compacted.
	trimThreshold = 4096
)

// Resampler streams src at a new sample rate using band-limited
// (Blackman-windowed sinc) interpolation. Channel count is preserved.
//
// Positions are tracked as exact rationals (srcRate/dstRate reduced by their
// gcd), so the output depends only on the input samples and the two rates.
// Output length is ceil(frames * dstRate / srcRate).
type Resampler struct {
	src      Source
	srcRate  int
	dstRate  int
	channels int

	passthrough bool

	// output frame k sits at source position k*step/phases
	step   int64
	phases int64

	cutoff float64
	half   int
	table  [][]float64
	taps   []float64

	// hist holds interleaved source frames starting at absolute frame histStart
	hist      []float32
	histStart int64
	total     int64
	eof       bool

	next    int64
	readBuf []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	srcRate := src.SampleRate()
	channels := src.Channels()

	r := &Resampler{
		src:         src,
		srcRate:     srcRate,
		dstRate:     dstRate,
		channels:    channels,
		passthrough: srcRate == dstRate,
	}
	if r.passthrough {
		return r
	}

	g := gcd(int64(srcRate), int64(dstRate))
	r.step = int64(srcRate) / g
	r.phases = int64(dstRate) / g

	r.cutoff = math.Min(1, float64(dstRate)/float64(srcRate))
	r.half = int(math.Ceil(zeroCrossings / r.cutoff))
	r.taps = make([]float64, 2*r.half)

	if r.phases <= maxCachedPhases {
		r.table = make([][]float64, r.phases)
		for ph := range r.table {
			row := make([]float64, 2*r.half)
			r.kernel(ph, row)
			r.table[ph] = row
		}
	}

	bufSize := 4096 - 4096%channels
	if bufSize == 0 {
		bufSize = channels
	}
	r.readBuf = make([]float32, bufSize)

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// ReadSamples produces dst samples at the destination rate.
// dst length must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if r.passthrough {
		return r.src.ReadSamples(dst)
	}

	framesNeeded := len(dst) / r.channels
	written := 0

	for written < framesNeeded {
		num := r.next * r.step
		i := num / r.phases
		ph := num % r.phases

		if err := r.fill(i + int64(r.half)); err != nil {
			return written * r.channels, err
		}

		if r.eof && i >= r.total {
			return written * r.channels, io.EOF
		}

		r.trim(i - int64(r.half) + 1)

		out := dst[written*r.channels : (written+1)*r.channels]
		r.interpolate(out, i, r.weights(ph))

		written++
		r.next++
	}

	return written * r.channels, nil
}

// fill pulls source frames until frame index upto is buffered or the source ends.
func (r *Resampler) fill(upto int64) error {
	empty := 0
	for !r.eof && r.total <= upto {
		n, err := r.src.ReadSamples(r.readBuf)
		frames := n / r.channels
		if frames > 0 {
			r.hist = append(r.hist, r.readBuf[:frames*r.channels]...)
			r.total += int64(frames)
			empty = 0
		}

		if err == io.EOF {
			r.eof = true
			break
		}

		if err != nil {
			return fmt.Errorf("%w", err)
		}

		if frames == 0 {
			empty++
			if empty >= maxEmptyReads {
				return io.ErrNoProgress
			}
		}
	}

	return nil
}

// trim drops history before frame index from once enough has piled up.
func (r *Resampler) trim(from int64) {
	drop := from - r.histStart
	if drop < trimThreshold {
		return
	}

	n := int(drop) * r.channels
	r.hist = append(r.hist[:0], r.hist[n:]...)
	r.histStart = from
}

func (r *Resampler) weights(ph int64) []float64 {
	if r.table != nil {
		return r.table[ph]
	}

	r.kernel(int(ph), r.taps)
	return r.taps
}

// kernel fills taps for phase ph. Tap j weights source frame i-half+1+j
// for an output at position i + ph/phases. Taps are normalized to unit sum
// so a constant signal passes unchanged away from the edges.
func (r *Resampler) kernel(ph int, taps []float64) {
	frac := float64(ph) / float64(r.phases)

	sum := 0.0
	for j := range taps {
		x := float64(r.half-1-j) + frac
		taps[j] = utils.LowpassTap(x, r.cutoff, r.half)
		sum += taps[j]
	}

	if sum == 0 {
		return
	}
	for j := range taps {
		taps[j] /= sum
	}
}

func (r *Resampler) interpolate(out []float32, i int64, taps []float64) {
	first := i - int64(r.half) + 1

	for c := range r.channels {
		acc := 0.0
		for j, w := range taps {
			n := first + int64(j)
			// zero padding outside the signal
			if n < 0 || n >= r.total {
				continue
			}
			acc += w * float64(r.hist[int(n-r.histStart)*r.channels+c])
		}
		out[c] = float32(acc)
	}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// OutputLength is the number of frames a conversion of frames samples from
// srcRate to dstRate yields: ceil(frames * dstRate / srcRate).
func OutputLength(frames, srcRate, dstRate int) int {
	if srcRate <= 0 || dstRate <= 0 {
		return 0
	}

	num := int64(frames) * int64(dstRate)
	return int((num + int64(srcRate) - 1) / int64(srcRate))
}
