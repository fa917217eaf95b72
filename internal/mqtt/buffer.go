package mqtt

import "log"

// bufferedMsg stores a serialized MQTT message for replay after reconnection.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer is a fixed-capacity FIFO holding messages while disconnected.
// When full, the oldest message is dropped to admit the newest. Not safe
// for concurrent use; the caller must synchronize.
type ringBuffer struct {
	msgs    []bufferedMsg
	start   int // index of the oldest message
	n       int
	dropped int // messages lost since the last drain
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{msgs: make([]bufferedMsg, capacity)}
}

func (r *ringBuffer) push(m bufferedMsg) {
	if r.n == len(r.msgs) {
		if r.dropped == 0 {
			log.Printf("mqtt: buffer full (%d messages), dropping oldest", len(r.msgs))
		}
		r.dropped++
		r.msgs[r.start] = m
		r.start = (r.start + 1) % len(r.msgs)
		return
	}
	r.msgs[(r.start+r.n)%len(r.msgs)] = m
	r.n++
}

func (r *ringBuffer) drainAll() []bufferedMsg {
	if r.n == 0 {
		return nil
	}

	out := make([]bufferedMsg, r.n)
	for i := range out {
		out[i] = r.msgs[(r.start+i)%len(r.msgs)]
	}

	r.start = 0
	r.n = 0
	r.dropped = 0
	return out
}

func (r *ringBuffer) len() int {
	return r.n
}
