// Package strip puts addressable LED hardware behind a small pixel
// sink interface with deferred output.
package strip

// Strip is an addressable run of RGB pixels. Mutations stage into a
// buffer and become visible on Flush.
type Strip interface {
	Count() int
	Set(i int, r, g, b byte)
	Fill(r, g, b byte)
	Flush() error
	Close() error
}

// Memory is an in-memory Strip recording every flushed frame. It
// stands in for hardware in tests and headless simulation.
type Memory struct {
	buf    []byte
	frames [][]byte
}

func NewMemory(n int) *Memory {
	return &Memory{buf: make([]byte, n*3)}
}

func (m *Memory) Count() int { return len(m.buf) / 3 }

func (m *Memory) Set(i int, r, g, b byte) {
	m.buf[i*3+0] = r
	m.buf[i*3+1] = g
	m.buf[i*3+2] = b
}

func (m *Memory) Fill(r, g, b byte) {
	for i := 0; i < m.Count(); i++ {
		m.Set(i, r, g, b)
	}
}

func (m *Memory) Flush() error {
	frame := append([]byte{}, m.buf...)
	m.frames = append(m.frames, frame)
	return nil
}

func (m *Memory) Close() error { return nil }

// Frame returns the last flushed frame, nil before the first Flush.
func (m *Memory) Frame() []byte {
	if len(m.frames) == 0 {
		return nil
	}
	return m.frames[len(m.frames)-1]
}

// Frames returns every flushed frame in order.
func (m *Memory) Frames() [][]byte { return m.frames }

// Flushes returns how many times Flush ran.
func (m *Memory) Flushes() int { return len(m.frames) }
