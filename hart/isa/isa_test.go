package isa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jawline/Pulse/hart/isa"
)

func TestDecodeAddiX1X0_0x123(t *testing.T) {
	// addi x1, x0, 0x123
	inst := isa.Decode(0x12300093)

	assert.Equal(t, isa.OpOpImm, inst.Opcode)
	assert.EqualValues(t, 1, inst.Rd)
	assert.EqualValues(t, 0, inst.Rs1)
	assert.EqualValues(t, isa.F3Add, inst.Funct3)
	assert.EqualValues(t, 0x123, inst.IImm)
}

func TestDecodeNegativeIImmSignExtends(t *testing.T) {
	// addi x1, x0, -1 -> imm field all ones
	inst := isa.Decode(0xFFF00093)
	assert.EqualValues(t, 0xFFFFFFFF, inst.IImm)
}

func TestDecodeSW(t *testing.T) {
	// sw x1, 0(x0)
	inst := isa.Decode(0x00102023)
	assert.Equal(t, isa.OpStore, inst.Opcode)
	assert.EqualValues(t, 1, inst.Rs2)
	assert.EqualValues(t, 0, inst.Rs1)
	assert.EqualValues(t, 0, inst.SImm)
}

func TestDecodeBImmIsEven(t *testing.T) {
	// beq x1, x2, +8
	inst := isa.Decode(0x00208463)
	assert.Equal(t, isa.OpBranch, inst.Opcode)
	assert.EqualValues(t, isa.F3Beq, inst.Funct3)
	assert.EqualValues(t, 8, inst.BImm)
}

func TestALUAddSub(t *testing.T) {
	assert.EqualValues(t, 7, isa.ALU(isa.F3Add, false, 3, 4))
	assert.EqualValues(t, 1, isa.ALU(isa.F3Add, true, 5, 4))
}

func TestALUShiftsAndCompares(t *testing.T) {
	assert.EqualValues(t, 8, isa.ALU(isa.F3Sll, false, 1, 3))
	assert.EqualValues(t, 1, isa.ALU(isa.F3Slt, false, ^uint32(0), 0))
	assert.EqualValues(t, 0, isa.ALU(isa.F3Sltu, false, ^uint32(0), 0))
}

func TestALUSrlVsSra(t *testing.T) {
	assert.EqualValues(t, 0x7FFFFFFF, isa.ALU(isa.F3SrlSra, false, 0xFFFFFFFF, 1))
	assert.EqualValues(t, 0xFFFFFFFF, isa.ALU(isa.F3SrlSra, true, 0xFFFFFFFF, 1))
}

func TestDecodeSraiSetsFunct7Bit30(t *testing.T) {
	// srai x1, x1, 1 -> funct7 = 0x20 (bit30 set), distinguishing it from
	// srli, which shares the same opcode/funct3 but funct7 = 0.
	inst := isa.Decode(0x4010D093)

	assert.Equal(t, isa.OpOpImm, inst.Opcode)
	assert.EqualValues(t, isa.F3SrlSra, inst.Funct3)
	assert.True(t, isa.Funct7Bit30(inst.Funct7))
}

func TestDecodeSrliLeavesFunct7Bit30Clear(t *testing.T) {
	// srli x1, x1, 1 -> funct7 = 0
	inst := isa.Decode(0x0010D093)

	assert.Equal(t, isa.OpOpImm, inst.Opcode)
	assert.EqualValues(t, isa.F3SrlSra, inst.Funct3)
	assert.False(t, isa.Funct7Bit30(inst.Funct7))
}

func TestBranchTakenTable(t *testing.T) {
	taken, ok := isa.BranchTaken(isa.F3Beq, 1, 1)
	assert.True(t, ok)
	assert.True(t, taken)

	_, ok = isa.BranchTaken(0x2, 1, 1)
	assert.False(t, ok)
}
