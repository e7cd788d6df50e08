package hw

// State is the CPU register file, in save-state order.
type State struct {
	PC, U, S, X, Y uint16
	DP, B, A       uint8
	CC             CC
	Wait           WaitState
}

func (c *CPU) State() State {
	return State{
		PC: c.PC, U: c.U, S: c.S, X: c.X, Y: c.Y,
		DP: c.DP, B: c.B, A: c.A,
		CC:   c.CC,
		Wait: c.Wait,
	}
}

// SetState restores registers and wait state saved with State.
func (c *CPU) SetState(s State) {
	c.PC, c.U, c.S, c.X, c.Y = s.PC, s.U, s.S, s.X, s.Y
	c.DP, c.B, c.A = s.DP, s.B, s.A
	c.CC = s.CC
	c.Wait = s.Wait
}
