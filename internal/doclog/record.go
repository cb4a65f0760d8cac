package doclog

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
)

// Journal records are framed as varint headerLen | header | payload |
// crc32c(header|payload). The header currently holds only the write
// timestamp in big-endian milliseconds; the varint length keeps room to
// grow it without breaking old journals.

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

var errCorruptRecord = errors.New("doclog: corrupt journal record")

const recordHeaderLen = 8

// encodeRecord frames an event payload with its write timestamp.
func encodeRecord(tsMs int64, payload []byte) []byte {
	var header [recordHeaderLen]byte
	binary.BigEndian.PutUint64(header[:], uint64(tsMs))

	out := make([]byte, 0, 1+recordHeaderLen+len(payload)+4)
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], recordHeaderLen)
	out = append(out, tmp[:n]...)
	out = append(out, header[:]...)
	out = append(out, payload...)

	crc := crc32.Update(0, castagnoli, header[:])
	crc = crc32.Update(crc, castagnoli, payload)
	var crcb [4]byte
	binary.BigEndian.PutUint32(crcb[:], crc)
	return append(out, crcb[:]...)
}

// decodeRecord returns the write timestamp and event payload, or
// errCorruptRecord when the frame is truncated, misformed, or fails its
// checksum. Payload is a copy, safe to retain.
func decodeRecord(b []byte) (tsMs int64, payload []byte, err error) {
	if len(b) < 1+4 {
		return 0, nil, errCorruptRecord
	}
	hlen, n := binary.Uvarint(b)
	if n <= 0 || hlen < recordHeaderLen {
		return 0, nil, errCorruptRecord
	}
	if n+int(hlen)+4 > len(b) {
		return 0, nil, errCorruptRecord
	}
	header := b[n : n+int(hlen)]
	body := b[n+int(hlen) : len(b)-4]
	expect := binary.BigEndian.Uint32(b[len(b)-4:])
	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, body)
	if crc != expect {
		return 0, nil, errCorruptRecord
	}
	tsMs = int64(binary.BigEndian.Uint64(header[:recordHeaderLen]))
	return tsMs, append([]byte(nil), body...), nil
}
