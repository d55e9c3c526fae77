// SPDX-License-Identifier: EPL-2.0

package notes

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chromahubz/midify/internal/audiotest"
	"github.com/chromahubz/midify/matrix"
)

func TestDecode_SingleNote(t *testing.T) {
	t.Parallel()

	onsets := audiotest.NewGrid(12, 8).Set(2, 5, 0.9).Matrix()
	frames := audiotest.NewGrid(12, 8).Fill(5, 2, 10, 0.8).Matrix()

	got, err := Decode(frames, onsets, DefaultDecodeOptions())
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, 5, got[0].PitchBin)
	assert.Equal(t, 2, got[0].StartFrame)
	assert.Equal(t, 10, got[0].EndFrame)
	assert.InDelta(t, 0.9, got[0].Velocity, 1e-6)
}

func TestDecode_OnsetPeaks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		onset  []float32 // bin 0, frames 0..n
		starts []int
	}{
		{name: "smeared transient", onset: []float32{0, 0.3, 0.8, 0.5, 0}, starts: []int{2}},
		{name: "plateau keeps first frame", onset: []float32{0, 0.6, 0.6, 0.6, 0}, starts: []int{1}},
		{name: "first frame", onset: []float32{0.7, 0.2, 0, 0, 0}, starts: []int{0}},
		{name: "last frame", onset: []float32{0, 0, 0, 0.2, 0.7}, starts: []int{4}},
		{name: "at threshold is not above", onset: []float32{0, 0.25, 0, 0, 0}, starts: nil},
		{name: "rising into a higher frame", onset: []float32{0, 0.5, 0.9, 0, 0}, starts: []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			on := audiotest.NewGrid(len(tt.onset), 1)
			for i, v := range tt.onset {
				on.Set(i, 0, v)
			}

			opts := DecodeOptions{OnsetThreshold: 0.25, FrameThreshold: 0.25, MinNoteFrames: 1}
			frames := audiotest.NewGrid(len(tt.onset), 1).Matrix()
			got, err := Decode(frames, on.Matrix(), opts)
			require.NoError(t, err)

			var starts []int
			for _, n := range got {
				starts = append(starts, n.StartFrame)
			}
			assert.Equal(t, tt.starts, starts)
		})
	}
}

func TestDecode_OnsetFrameAlwaysIncluded(t *testing.T) {
	t.Parallel()

	onsets := audiotest.NewGrid(12, 1).Set(2, 0, 0.9).Matrix()
	frames := audiotest.NewGrid(12, 1).Fill(0, 3, 9, 0.8).Matrix()

	got, err := Decode(frames, onsets, DefaultDecodeOptions())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, RawNote{PitchBin: 0, StartFrame: 2, EndFrame: 9, Velocity: float64(float32(0.9))}, got[0])
}

func TestDecode_SplitsAtNextOnset(t *testing.T) {
	t.Parallel()

	onsets := audiotest.NewGrid(20, 1).Set(2, 0, 0.9).Set(10, 0, 0.7).Matrix()
	frames := audiotest.NewGrid(20, 1).Fill(0, 2, 20, 0.8).Matrix()

	got, err := Decode(frames, onsets, DefaultDecodeOptions())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 2, got[0].StartFrame)
	assert.Equal(t, 10, got[0].EndFrame)
	assert.Equal(t, 10, got[1].StartFrame)
	assert.Equal(t, 20, got[1].EndFrame)
}

func TestDecode_ShortLaterOnsetDoesNotCut(t *testing.T) {
	t.Parallel()

	onsets := audiotest.NewGrid(20, 1).Set(2, 0, 0.9).Set(10, 0, 0.7).Matrix()
	frames := audiotest.NewGrid(20, 1).Fill(0, 2, 12, 0.8).Matrix()

	got, err := Decode(frames, onsets, DefaultDecodeOptions())
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, 2, got[0].StartFrame)
	assert.Equal(t, 12, got[0].EndFrame)
}

func TestDecode_MinNoteFrames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		length int
		want   int
	}{
		{name: "one short", length: 4, want: 0},
		{name: "exactly minimum", length: 5, want: 1},
		{name: "longer", length: 9, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			onsets := audiotest.NewGrid(16, 1).Set(1, 0, 0.9).Matrix()
			frames := audiotest.NewGrid(16, 1).Fill(0, 1, 1+tt.length, 0.8).Matrix()

			got, err := Decode(frames, onsets, DefaultDecodeOptions())
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestDecode_Polyphony(t *testing.T) {
	t.Parallel()

	onsets := audiotest.NewGrid(20, 4).
		Set(3, 2, 0.6).
		Set(3, 1, 0.7).
		Set(1, 3, 0.8).
		Matrix()
	frames := audiotest.NewGrid(20, 4).
		Fill(2, 3, 15, 0.5).
		Fill(1, 3, 12, 0.5).
		Fill(3, 1, 19, 0.5).
		Matrix()

	got, err := Decode(frames, onsets, DefaultDecodeOptions())
	require.NoError(t, err)

	want := []RawNote{
		{PitchBin: 3, StartFrame: 1, EndFrame: 19, Velocity: float64(float32(0.8))},
		{PitchBin: 1, StartFrame: 3, EndFrame: 12, Velocity: float64(float32(0.7))},
		{PitchBin: 2, StartFrame: 3, EndFrame: 15, Velocity: float64(float32(0.6))},
	}
	assert.Equal(t, want, got)
}

func TestDecode_VelocityClipped(t *testing.T) {
	t.Parallel()

	onsets := audiotest.NewGrid(10, 1).Set(0, 0, 1.5).Matrix()
	frames := audiotest.NewGrid(10, 1).Fill(0, 0, 10, 1).Matrix()

	got, err := Decode(frames, onsets, DefaultDecodeOptions())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1.0, got[0].Velocity)
}

func TestDecode_Empty(t *testing.T) {
	t.Parallel()

	frames := audiotest.NewGrid(50, 88).Fill(10, 0, 50, 0.2).Matrix()
	onsets := audiotest.NewGrid(50, 88).Set(0, 10, 0.1).Matrix()

	got, err := Decode(frames, onsets, DefaultDecodeOptions())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func randomActivations(t *testing.T, seed uint64, rows, cols int) (*matrix.Matrix, *matrix.Matrix) {
	t.Helper()

	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	frames := audiotest.NewGrid(rows, cols)
	onsets := audiotest.NewGrid(rows, cols)
	for tt := range rows {
		for b := range cols {
			frames.Set(tt, b, r.Float32())
			if r.IntN(4) == 0 {
				onsets.Set(tt, b, r.Float32())
			}
		}
	}
	return frames.Matrix(), onsets.Matrix()
}

func TestDecode_Invariants(t *testing.T) {
	t.Parallel()

	for seed := range uint64(8) {
		frames, onsets := randomActivations(t, seed, 200, 12)

		for _, minFrames := range []int{1, 3, 5} {
			opts := DecodeOptions{OnsetThreshold: 0.3, FrameThreshold: 0.2, MinNoteFrames: minFrames}
			got, err := Decode(frames, onsets, opts)
			require.NoError(t, err)

			lastEnd := map[int]int{}
			for i, n := range got {
				assert.GreaterOrEqual(t, n.Frames(), minFrames)
				assert.GreaterOrEqual(t, n.Velocity, 0.0)
				assert.LessOrEqual(t, n.Velocity, 1.0)

				if i > 0 {
					prev := got[i-1]
					ordered := prev.StartFrame < n.StartFrame ||
						(prev.StartFrame == n.StartFrame && prev.PitchBin < n.PitchBin)
					assert.True(t, ordered, "notes %v and %v out of order", prev, n)
				}

				if end, ok := lastEnd[n.PitchBin]; ok {
					assert.GreaterOrEqual(t, n.StartFrame, end, "overlap on bin %d", n.PitchBin)
				}
				lastEnd[n.PitchBin] = n.EndFrame
			}
		}
	}
}

func TestDecode_OnsetThresholdMonotonic(t *testing.T) {
	t.Parallel()

	for seed := range uint64(8) {
		frames, onsets := randomActivations(t, seed, 300, 16)

		prev := math.MaxInt
		for i := 0; i <= 20; i++ {
			opts := DecodeOptions{OnsetThreshold: float64(i) / 20, FrameThreshold: 0.3, MinNoteFrames: 2}
			got, err := Decode(frames, onsets, opts)
			require.NoError(t, err)

			assert.LessOrEqual(t, len(got), prev, "seed %d threshold %v", seed, opts.OnsetThreshold)
			prev = len(got)
		}
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	ok := audiotest.NewGrid(4, 2).Matrix()
	nan := audiotest.NewGrid(4, 2).Set(1, 1, float32(math.NaN())).Matrix()
	wide := audiotest.NewGrid(4, 3).Matrix()

	tests := []struct {
		name    string
		frames  *matrix.Matrix
		onsets  *matrix.Matrix
		opts    DecodeOptions
		wantErr error
	}{
		{name: "shape mismatch", frames: ok, onsets: wide, opts: DefaultDecodeOptions(), wantErr: ErrDecoding},
		{name: "missing onsets", frames: ok, onsets: nil, opts: DefaultDecodeOptions(), wantErr: ErrDecoding},
		{name: "nan frame", frames: nan, onsets: ok, opts: DefaultDecodeOptions(), wantErr: ErrDecoding},
		{name: "nan onset", frames: ok, onsets: nan, opts: DefaultDecodeOptions(), wantErr: ErrDecoding},
		{
			name: "threshold above one", frames: ok, onsets: ok,
			opts:    DecodeOptions{OnsetThreshold: 1.5, FrameThreshold: 0.25, MinNoteFrames: 5},
			wantErr: ErrInvalidOptions,
		},
		{
			name: "zero minimum length", frames: ok, onsets: ok,
			opts:    DecodeOptions{OnsetThreshold: 0.25, FrameThreshold: 0.25},
			wantErr: ErrInvalidOptions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode(tt.frames, tt.onsets, tt.opts)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	r := rand.New(rand.NewPCG(1, 2))
	frames := audiotest.NewGrid(2000, 88)
	onsets := audiotest.NewGrid(2000, 88)
	for t := range 2000 {
		for p := range 88 {
			frames.Set(t, p, r.Float32())
			onsets.Set(t, p, r.Float32())
		}
	}
	fm, om := frames.Matrix(), onsets.Matrix()
	opts := DefaultDecodeOptions()

	b.ResetTimer()
	for range b.N {
		_, _ = Decode(fm, om, opts)
	}
}
