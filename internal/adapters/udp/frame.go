package udp

import "bytes"

// EndMarker is the payload of the terminal datagram of every response. It
// always travels alone; a data chunk is never equal to it.
const EndMarker = "__END__"

// DefaultChunkSize bounds both outbound chunks and the inbound receive buffer.
const DefaultChunkSize = 1024

var endMarker = []byte(EndMarker)

// Chunks splits body into consecutive pieces of at most size bytes. A piece
// that would equal EndMarker is cut in two so the client cannot mistake it
// for the end of the response. An empty body yields no chunks.
//
// Chunks cut at byte boundaries; a multi-byte UTF-8 sequence may straddle two
// datagrams, which is fine because the client joins bytes before decoding.
func Chunks(body []byte, size int) [][]byte {
	if size <= 0 {
		size = DefaultChunkSize
	}
	out := make([][]byte, 0, len(body)/size+1)
	for off := 0; off < len(body); {
		end := min(off+size, len(body))
		c := body[off:end]
		if bytes.Equal(c, endMarker) {
			c = c[:len(c)-1]
			end--
		}
		out = append(out, c)
		off = end
	}
	return out
}

// IsEnd reports whether a received payload is the end marker.
func IsEnd(payload []byte) bool {
	return bytes.Equal(payload, endMarker)
}

// Reassemble concatenates datagram payloads up to the first end marker. ok is
// false when the marker never arrived.
func Reassemble(datagrams [][]byte) (body []byte, ok bool) {
	var buf bytes.Buffer
	for _, d := range datagrams {
		if IsEnd(d) {
			return buf.Bytes(), true
		}
		buf.Write(d)
	}
	return buf.Bytes(), false
}
