// SPDX-License-Identifier: EPL-2.0

// Package inference defines the contract between the transcription pipeline
// and a pitch estimator.
//
// An estimator turns normalized mono audio into three activation matrices:
// note frames, note onsets and a finer pitch contour. The neural model that
// normally fills this role lives outside the module; package spectral
// provides a deterministic stand-in with the same shape contract.
//
// Progress is reported over a channel instead of a callback:
//
//	progress := make(chan float64, 8)
//	go func() {
//	    for p := range progress {
//	        fmt.Printf("%.0f%%\n", p*100)
//	    }
//	}()
//	acts, err := inference.Run(ctx, est, buf, progress)
//	close(progress)
package inference
