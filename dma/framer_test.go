package dma

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func feed(f *Framer, bytes []byte) []ByteItem {
	var out []ByteItem
	for _, b := range bytes {
		if item, ok := f.Step(ReceivedByte{Data: b}, true); ok {
			out = append(out, item)
		}
	}
	return out
}

func TestFramerDiscardsUntilHeader(t *testing.T) {
	f := NewFramer('Q')

	// junk, then header, length=4 (address only, no payload), address 0x78.
	items := feed(f, []byte{0xFF, 0x00, 'Q', 0x00, 0x04, 0x00, 0x00, 0x00, 0x78})

	assert.Len(t, items, 4)
	assert.Equal(t, byte(0x00), items[0].Data)
	assert.Equal(t, byte(0x78), items[3].Data)
	assert.True(t, items[3].Last)
}

func TestFramerIgnoresFramingFlags(t *testing.T) {
	f := NewFramer('Q')

	item, ok := f.Step(ReceivedByte{Data: 'Q', ParityError: true, StopBitUnstable: true}, true)
	assert.False(t, ok)
	assert.Zero(t, item)

	items := feed(f, []byte{0x00, 0x01, 0x42})
	assert.Len(t, items, 1)
	assert.Equal(t, byte(0x42), items[0].Data)
	assert.True(t, items[0].Last)
}

func TestFramerReturnsToWaitAfterPacket(t *testing.T) {
	f := NewFramer('Q')

	_ = feed(f, []byte{'Q', 0x00, 0x01, 0xAA})
	items := feed(f, []byte{'Q', 0x00, 0x01, 0xBB})

	assert.Len(t, items, 1)
	assert.Equal(t, byte(0xBB), items[0].Data)
}
