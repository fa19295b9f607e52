// Package segment tiles a recording's duration into fixed-width analysis
// windows. All per-segment metrics key their series by these start times, so
// the tiling must be deterministic and identical across extractors.
package segment

// Window is a half-open time interval [Start, End) in seconds.
// The last window of a recording may be shorter than the nominal width.
type Window struct {
	Start float64
	End   float64
}

// Starts returns the ordered segment start times 0, width, 2*width, ...
// while start < duration. A zero duration yields no segments.
func Starts(duration, width float64) []float64 {
	if duration <= 0 || width <= 0 {
		return nil
	}

	var starts []float64
	// Multiply instead of accumulating so float drift cannot add or drop
	// a trailing segment.
	for i := 0; float64(i)*width < duration; i++ {
		starts = append(starts, float64(i)*width)
	}
	return starts
}

// Windows returns the segment intervals tiling [0, duration), with the last
// window clipped to the recording end.
func Windows(duration, width float64) []Window {
	starts := Starts(duration, width)
	windows := make([]Window, len(starts))
	for i, start := range starts {
		end := start + width
		if end > duration {
			end = duration
		}
		windows[i] = Window{Start: start, End: end}
	}
	return windows
}
