package dma

import "github.com/jawline/Pulse/hart"

// TransmitMode is the x[5] value that selects "initiate outbound DMA"
// (§4.3.4 / §6): mode 0.
const TransmitMode = 0

// ECALL implements hart.ECALLPort (§4.3.4): it decodes the guest
// register convention x[5]=mode, x[6]=source address, x[7]=length, and
// drives the Memory-to-Packet engine. When the engine is already
// transferring, the call returns busy (rd=0); otherwise it starts the
// transfer and returns accepted (rd=1). The environment always advances
// pc by 4.
func (c *Comp) ECALL(regs [32]uint32, pc uint32) hart.Transaction {
	mode := regs[5]

	if mode != TransmitMode {
		return hart.Transaction{Finished: true, SetRd: true, NewRd: 0, NewPC: pc + 4}
	}

	if c.reader.Busy() {
		return hart.Transaction{Finished: true, SetRd: true, NewRd: 0, NewPC: pc + 4}
	}

	c.reader.Enable(ReadRequest{Address: regs[6], Length: regs[7]})

	return hart.Transaction{Finished: true, SetRd: true, NewRd: 1, NewPC: pc + 4}
}
