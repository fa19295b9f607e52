package acoustic

// Frame is one timestamped measurement of a physical quantity
type Frame struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

// FrameSeries is an ordered sequence of frames for one quantity
// (pitch in Hz, RMS amplitude, formant frequency in Hz)
type FrameSeries []Frame

// Values returns the measurement values without timestamps
func (fs FrameSeries) Values() []float64 {
	values := make([]float64, len(fs))
	for i, f := range fs {
		values[i] = f.Value
	}
	return values
}

// Between returns the frames whose timestamps fall in [from, to)
func (fs FrameSeries) Between(from, to float64) FrameSeries {
	var out FrameSeries
	for _, f := range fs {
		if f.Time >= from && f.Time < to {
			out = append(out, f)
		}
	}
	return out
}
