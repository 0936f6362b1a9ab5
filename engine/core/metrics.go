package core

const AVG_COUNT uint8 = 30

// Metrics keeps a rolling frame-time average and a frames-per-second counter.
type Metrics struct {
	frameAVGCounter    uint8
	msTimes            [AVG_COUNT]float64
	msAvg              float64
	frames            int32
	accumulatedWallMS float64
	fps               float64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Update records one frame. busy is the time the frame did work and wall is
// the time from its start to the start of the next one, sleep included.
func (m *Metrics) Update(busy, wall float64) {
	// Calculate frame ms average
	frameMS := busy * 1000.0
	m.msTimes[m.frameAVGCounter] = frameMS
	if m.frameAVGCounter == AVG_COUNT-1 {
		sum := 0.0
		for i := uint8(0); i < AVG_COUNT; i++ {
			sum += m.msTimes[i]
		}
		m.msAvg = sum / float64(AVG_COUNT)
	}
	m.frameAVGCounter++
	m.frameAVGCounter %= AVG_COUNT

	// Count frames against the wall clock.
	m.frames++
	m.accumulatedWallMS += wall * 1000.0
	if m.accumulatedWallMS >= 1000 {
		m.fps = float64(m.frames)
		m.accumulatedWallMS -= 1000
		m.frames = 0
	}
}

func (m *Metrics) FPS() float64 {
	return m.fps
}

func (m *Metrics) FrameTime() float64 {
	return m.msAvg
}

func (m *Metrics) Frame() (float64, float64) {
	return m.fps, m.msAvg
}
