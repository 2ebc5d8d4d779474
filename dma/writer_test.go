package dma

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriterFullWordRoundTrip(t *testing.T) {
	w := NewWriter()

	// address 0x00000010, then one full word 0x44,0x33,0x22,0x11 (little-endian -> 0x11223344), last.
	w.Push(ByteItem{Data: 0x00})
	w.Push(ByteItem{Data: 0x00})
	w.Push(ByteItem{Data: 0x00})
	w.Push(ByteItem{Data: 0x10})
	w.Push(ByteItem{Data: 0x44})
	w.Push(ByteItem{Data: 0x33})
	w.Push(ByteItem{Data: 0x22})
	w.Push(ByteItem{Data: 0x11, Last: true})

	var lastAddr uint32
	var lastData uint32
	done := false

	for i := 0; i < 20 && !done; i++ {
		req := w.Request()
		if req.Valid {
			lastAddr = req.Data.Address
			lastData = req.Data.WriteData
		}
		w.Update(req.Valid)
		done = w.Done()
	}

	assert.True(t, done)
	assert.EqualValues(t, 0x10, lastAddr)
	assert.EqualValues(t, 0x11223344, lastData)
}

func TestWriterPadsPartialFinalWord(t *testing.T) {
	w := NewWriter()

	w.Push(ByteItem{Data: 0x00})
	w.Push(ByteItem{Data: 0x00})
	w.Push(ByteItem{Data: 0x00})
	w.Push(ByteItem{Data: 0x00})
	w.Push(ByteItem{Data: 0x7F, Last: true}) // single payload byte, rest padded zero

	var lastData uint32
	done := false

	for i := 0; i < 20 && !done; i++ {
		req := w.Request()
		if req.Valid {
			lastData = req.Data.WriteData
		}
		w.Update(req.Valid)
		done = w.Done()
	}

	assert.True(t, done)
	assert.EqualValues(t, 0x7F, lastData)
}
