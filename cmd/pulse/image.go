package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/jawline/Pulse/membus"
	"github.com/jawline/Pulse/memctrl"
)

// loadImage reads a raw little-endian binary image and pokes it into
// mem word by word starting at address 0, bypassing the memory
// controller's arbitrated channels — the same PeekWord/PokeWord escape
// hatch memctrl.Comp documents for host tooling.
func loadImage(mem *memctrl.Comp, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if len(data)%membus.DataBytes != 0 {
		padded := make([]byte, (len(data)/membus.DataBytes+1)*membus.DataBytes)
		copy(padded, data)
		data = padded
	}

	maxWords := mem.NumWords()

	for i := 0; i+membus.DataBytes <= len(data); i += membus.DataBytes {
		word := binary.LittleEndian.Uint32(data[i : i+membus.DataBytes])
		addr := uint32(i)

		if int(addr)/membus.DataBytes >= maxWords {
			return fmt.Errorf("image is larger than the backing store (%d words)", maxWords)
		}

		mem.PokeWord(addr, word)
	}

	return nil
}
