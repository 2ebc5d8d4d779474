package hart

// Transaction is the writeback contract produced by any instruction,
// per §3: "{ finished, set_rd, new_rd, new_pc, error }". Multi-cycle
// instructions (load, store, system) may take several Comp.Update
// calls before Finished becomes true; Comp never surfaces an
// intermediate Transaction to callers — it is purely the hart's
// internal writeback record and the shape an ECALLPort must return.
type Transaction struct {
	Finished bool
	SetRd    bool
	NewRd    uint32
	NewPC    uint32
	Error    bool
}

// ECALLPort is the host-provided handler described by §4.2's "ECALL
// interface": when a SYSTEM/ECALL instruction commits, the hart exposes
// its current register state, and the host synchronously returns the
// Transaction to apply at writeback. This is the mechanism by which
// guest code requests DMA (§4.3.4).
type ECALLPort interface {
	ECALL(regs [32]uint32, pc uint32) Transaction
}

// DefaultECALLPort is wired to every hart except hart 0 (§4.5: "other
// harts receive a default transaction (no-op, advance pc+4, rd=0)").
type DefaultECALLPort struct{}

// ECALL implements ECALLPort.
func (DefaultECALLPort) ECALL(_ [32]uint32, pc uint32) Transaction {
	return Transaction{Finished: true, SetRd: true, NewRd: 0, NewPC: pc + 4}
}
