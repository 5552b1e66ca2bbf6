package udp_test

import (
	"bytes"
	"strings"
	"testing"

	"lodging_query/internal/adapters/udp"
)

func TestChunks_RoundTrip(t *testing.T) {
	const size = 16
	for _, n := range []int{0, 1, size - 1, size, size + 1, 3 * size, 3*size + 5, 1000} {
		body := bytes.Repeat([]byte("abcdefghij"), n/10+1)[:n]
		chunks := udp.Chunks(body, size)

		for i, c := range chunks {
			if len(c) == 0 || len(c) > size {
				t.Fatalf("n=%d chunk %d has %d bytes", n, i, len(c))
			}
			if udp.IsEnd(c) {
				t.Fatalf("n=%d chunk %d equals the marker", n, i)
			}
		}
		if want := (n + size - 1) / size; len(chunks) != want {
			t.Fatalf("n=%d: %d chunks, want %d", n, len(chunks), want)
		}

		wire := append(chunks, []byte(udp.EndMarker))
		got, ok := udp.Reassemble(wire)
		if !ok || !bytes.Equal(got, body) {
			t.Fatalf("n=%d: round trip mismatch ok=%v", n, ok)
		}
	}
}

func TestChunks_NeverEmitsMarkerAsData(t *testing.T) {
	size := len(udp.EndMarker)
	body := []byte(strings.Repeat(udp.EndMarker, 3))
	chunks := udp.Chunks(body, size)
	for _, c := range chunks {
		if udp.IsEnd(c) {
			t.Fatalf("data chunk equals marker: %q", c)
		}
	}
	got, ok := udp.Reassemble(append(chunks, []byte(udp.EndMarker)))
	if !ok || !bytes.Equal(got, body) {
		t.Fatalf("got %q", got)
	}
}

func TestChunks_DefaultSize(t *testing.T) {
	body := bytes.Repeat([]byte{'x'}, udp.DefaultChunkSize+1)
	if got := len(udp.Chunks(body, 0)); got != 2 {
		t.Fatalf("got %d chunks", got)
	}
}

func TestReassemble_StopsAtMarkerAndReportsMissing(t *testing.T) {
	got, ok := udp.Reassemble([][]byte{[]byte("ab"), []byte(udp.EndMarker), []byte("late")})
	if !ok || string(got) != "ab" {
		t.Fatalf("got %q ok=%v", got, ok)
	}
	got, ok = udp.Reassemble([][]byte{[]byte("ab"), []byte("cd")})
	if ok || string(got) != "abcd" {
		t.Fatalf("got %q ok=%v", got, ok)
	}
	if _, ok := udp.Reassemble([][]byte{[]byte(udp.EndMarker + "x")}); ok {
		t.Fatalf("marker must match exactly")
	}
}
