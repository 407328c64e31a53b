package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Job IDs are ULIDs: 26 Crockford Base32 characters with a 48-bit
// millisecond timestamp prefix, so IDs sort by creation time. Generated
// locally, no external dependency.

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

func generateULID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	b[0] = byte(ts >> 40)
	b[1] = byte(ts >> 32)
	b[2] = byte(ts >> 24)
	b[3] = byte(ts >> 16)
	b[4] = byte(ts >> 8)
	b[5] = byte(ts)
	rand.Read(b[6:])
	// Sequence in bytes 6-7 keeps IDs unique within one millisecond.
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeCrockford(b)
}

// encodeCrockford maps 128 bits onto 26 characters. The first character
// carries only the top three bits; every following character takes the
// next five.
func encodeCrockford(b [16]byte) string {
	var out [26]byte
	out[0] = crockford[b[0]>>5]
	bit := 3
	for i := 1; i < 26; i++ {
		idx := bit / 8
		off := bit % 8
		window := int(b[idx]) << 8
		if idx+1 < len(b) {
			window |= int(b[idx+1])
		}
		out[i] = crockford[(window>>(11-off))&31]
		bit += 5
	}
	return string(out[:])
}
