package hart

import (
	"github.com/jawline/Pulse/hart/isa"
	"github.com/jawline/Pulse/membus"
)

// executeFetched runs decode, execute and (for single-cycle opcodes)
// writeback against a freshly-fetched instruction word, per §4.2's
// opcode dispatch table. Multi-cycle opcodes (LOAD, STORE) instead set
// up the load/store micro-sequencer state and return without retiring.
func (c *Comp) executeFetched(word uint32) {
	inst := isa.Decode(word)
	c.inst = inst
	c.rd = inst.Rd

	rs1 := c.Reg(inst.Rs1)
	rs2 := c.Reg(inst.Rs2)

	switch inst.Opcode {
	case isa.OpOpImm:
		// §4.2: funct7 bit30 still selects SRA over SRL for immediate
		// shifts; only the ADD/SUB toggle is barred ("No SUB-immediate").
		sub := inst.Funct3 == isa.F3SrlSra && isa.Funct7Bit30(inst.Funct7)
		val := isa.ALU(inst.Funct3, sub, rs1, inst.IImm)
		c.retire(Transaction{Finished: true, SetRd: true, NewRd: val, NewPC: c.pc + 4})

	case isa.OpOp:
		sub := isa.Funct7Bit30(inst.Funct7)
		val := isa.ALU(inst.Funct3, sub, rs1, rs2)
		c.retire(Transaction{Finished: true, SetRd: true, NewRd: val, NewPC: c.pc + 4})

	case isa.OpLui:
		c.retire(Transaction{Finished: true, SetRd: true, NewRd: inst.UImm, NewPC: c.pc + 4})

	case isa.OpAuipc:
		c.retire(Transaction{Finished: true, SetRd: true, NewRd: c.pc + inst.UImm, NewPC: c.pc + 4})

	case isa.OpJal:
		target := c.pc + inst.JImm
		c.retire(Transaction{
			Finished: true, SetRd: true, NewRd: c.pc + 4,
			NewPC: target, Error: !alignedTaken(target),
		})

	case isa.OpJalr:
		target := (rs1 + inst.IImm) &^ 1
		c.retire(Transaction{
			Finished: true, SetRd: true, NewRd: c.pc + 4,
			NewPC: target, Error: !alignedTaken(target),
		})

	case isa.OpBranch:
		c.executeBranch(inst, rs1, rs2)

	case isa.OpLoad:
		c.memAddr = rs1 + inst.IImm
		c.memFunct3 = inst.Funct3
		c.state = stLoadIssue

	case isa.OpStore:
		c.memAddr = rs1 + inst.SImm
		c.memFunct3 = inst.Funct3
		c.storeData = rs2
		c.state = stStoreReadIssue

	case isa.OpSystem:
		c.executeSystem(inst)

	case isa.OpMiscMem:
		// FENCE: no-op advancing pc+4, per §4.2.
		c.retire(Transaction{Finished: true, NewPC: c.pc + 4})

	default:
		// Unsupported/reserved opcode, including the all-zero word the
		// "Boot empty" scenario (§8.1) fetches from a cleared memory.
		c.retire(Transaction{Finished: true, Error: true})
	}
}

func (c *Comp) executeBranch(inst isa.Instruction, rs1, rs2 uint32) {
	taken, ok := isa.BranchTaken(inst.Funct3, rs1, rs2)
	if !ok {
		c.retire(Transaction{Finished: true, Error: true})
		return
	}

	nextPC := c.pc + 4
	if taken {
		nextPC = c.pc + inst.BImm
	}

	c.retire(Transaction{Finished: true, NewPC: nextPC, Error: !alignedTaken(nextPC)})
}

func (c *Comp) executeSystem(inst isa.Instruction) {
	if inst.Funct3 == 0 && inst.IImm == 0 {
		t := c.ecall.ECALL(c.regs, c.pc)
		c.retire(t)
		return
	}

	// §7 / Design Notes §9's Open Question: non-ECALL SYSTEM sub-ops
	// (CSR*) are unsupported. The source's peculiar error=true,
	// set_rd=true, new_rd=1 combination is preserved verbatim for
	// compatibility, as the spec instructs.
	c.writeReg(c.rd, 1)
	c.setError()
}

// completeLoad extracts the addressed byte/half/word from the aligned
// word the controller returned and sign- or zero-extends it, per
// §4.2's "Load sub-word extraction."
func (c *Comp) completeLoad(resp membus.ReadResponse) {
	if resp.Error {
		c.retire(Transaction{Finished: true, Error: true})
		return
	}

	val := extractLoad(c.memFunct3, resp.ReadData, membus.ByteOffset(c.memAddr))
	c.retire(Transaction{Finished: true, SetRd: true, NewRd: val, NewPC: c.pc + 4})
}

func extractLoad(funct3 uint32, word uint32, offset uint32) uint32 {
	switch funct3 {
	case isa.F3Byte:
		b := byte(word >> (8 * offset))
		return uint32(int32(int8(b)))
	case isa.F3ByteU:
		return uint32(byte(word >> (8 * offset)))
	case isa.F3Half:
		h := uint16(word >> (8 * (offset &^ 1)))
		return uint32(int32(int16(h)))
	case isa.F3HalfU:
		return uint32(uint16(word >> (8 * (offset &^ 1))))
	case isa.F3Word:
		return word
	default:
		return word
	}
}

// completeStoreRead splices the store's byte/half/word into the word
// just read from the aligned address, per §4.2's "Store sub-word"
// read-modify-write description, and moves on to issue the write.
func (c *Comp) completeStoreRead(resp membus.ReadResponse) {
	if resp.Error {
		c.retire(Transaction{Finished: true, Error: true})
		return
	}

	c.storeWord = spliceStore(c.memFunct3, resp.ReadData, c.storeData, membus.ByteOffset(c.memAddr))
	c.state = stStoreWriteIssue
}

func spliceStore(funct3 uint32, word, data, offset uint32) uint32 {
	switch funct3 {
	case isa.F3Byte:
		shift := 8 * offset
		mask := uint32(0xFF) << shift
		return (word &^ mask) | ((data & 0xFF) << shift)
	case isa.F3Half:
		shift := 8 * (offset &^ 1)
		mask := uint32(0xFFFF) << shift
		return (word &^ mask) | ((data & 0xFFFF) << shift)
	case isa.F3Word:
		return data
	default:
		return data
	}
}

func (c *Comp) completeStoreWrite(resp membus.WriteResponse) {
	if resp.Error {
		c.retire(Transaction{Finished: true, Error: true})
		return
	}

	c.retire(Transaction{Finished: true, NewPC: c.pc + 4})
}
