package remote

import (
	"errors"
	"fmt"
	"io"
	"net"

	"mc6809/hw"
)

// session is the server side of a client connection.
type session struct {
	conn   conn
	name   string
	cpu    *hw.CPU
	closed bool

	// first bus transport error of the current command. Once set, reads
	// return 0 and writes are dropped.
	busErr error
}

func newSession(c conn, name string) *session {
	s := &session{conn: c, name: name}
	s.cpu = hw.NewCPU(hw.BusFuncs{Read: s.readBus, Write: s.writeBus})
	s.cpu.SetFaultHandler(s.fault)
	return s
}

// serveConn serves commands until the client says bye or the connection
// fails.
func serveConn(c conn, name string) {
	modRemote.InfoZ("client connected").String("client", name).End()

	s := newSession(c, name)
	for !s.closed {
		if err := s.serveNextCmd(); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				modRemote.WarnZ("closing client connection").
					String("client", name).
					Error("err", err).
					End()
			}
			break
		}
	}
	c.Close()
	modRemote.InfoZ("client disconnected").String("client", name).End()
}

func (s *session) fault(f hw.Fault) {
	modRemote.WarnZ("cpu fault").
		String("client", s.name).
		Stringer("kind", f.Kind).
		Hex8("page", f.Page).
		Hex8("code", f.Code).
		Hex16("pc", f.PC).
		End()
}

func (s *session) ack() error {
	return s.conn.out(newAckResponse(0))
}

func (s *session) serveNextCmd() error {
	hdr, err := s.conn.inB()
	if err != nil {
		return err
	}

	op := opbyte(hdr)
	if r, write, ok := regFromOp(op); ok {
		return s.serveReg(r, write)
	}

	switch op {
	case opBye:
		s.closed = true
		return nil

	case opTraceOn:
		s.cpu.SetTraceFunc(s.trace)
		return s.ack()

	case opTraceOff:
		s.cpu.SetTraceFunc(nil)
		return s.ack()

	case opReset:
		s.cpu.Reset()
		if err := s.endBusCmd(); err != nil {
			return err
		}
		return s.ack()

	case opStep:
		lines, err := s.conn.inB()
		if err != nil {
			return err
		}
		cycles := s.cpu.Step(lines&LineIRQ != 0, lines&LineFIRQ != 0)
		if err := s.endBusCmd(); err != nil {
			return err
		}
		res := newAckResponse(2)
		res.appendW(uint16(cycles))
		return s.conn.out(res)

	case opReadWait:
		res := newAckResponse(1)
		res.appendB(uint8(s.cpu.Wait))
		return s.conn.out(res)
	}

	modRemote.WarnZ("unrecognized command").
		String("client", s.name).
		Hex8("op", hdr).
		End()
	return s.conn.out(newFailResponse())
}

func (s *session) serveReg(r Reg, write bool) error {
	if write {
		var (
			val uint16
			err error
		)
		if r.Wide() {
			val, err = s.conn.inW()
		} else {
			var b uint8
			b, err = s.conn.inB()
			val = uint16(b)
		}
		if err != nil {
			return err
		}
		setReg(s.cpu, r, val)
		return s.ack()
	}

	if r.Wide() {
		res := newAckResponse(2)
		res.appendW(getReg(s.cpu, r))
		return s.conn.out(res)
	}
	res := newAckResponse(1)
	res.appendB(uint8(getReg(s.cpu, r)))
	return s.conn.out(res)
}

// endBusCmd reports the bus error that occurred during the command, if any.
func (s *session) endBusCmd() error {
	err := s.busErr
	s.busErr = nil
	if err != nil {
		return fmt.Errorf("bus: %w", err)
	}
	return nil
}

func (s *session) expectAck() error {
	b, err := s.conn.inB()
	if err != nil {
		return err
	}
	switch opbyte(b) {
	case opAck:
		return nil
	case opFail:
		return fmt.Errorf("communication error: expected ACK(%#x) got FAIL(%#x)", opAck, opFail)
	}
	return fmt.Errorf("communication error: expected ACK(%#x) or FAIL(%#x), got %#x", opAck, opFail, b)
}

func (s *session) readBus(addr uint16) uint8 {
	if s.busErr != nil {
		return 0
	}
	ev := newMessage(opEventReadBus, 2)
	ev.appendW(addr)
	if s.busErr = s.conn.out(ev); s.busErr != nil {
		return 0
	}
	if s.busErr = s.expectAck(); s.busErr != nil {
		return 0
	}
	var val uint8
	val, s.busErr = s.conn.inB()
	return val
}

func (s *session) writeBus(addr uint16, val uint8) {
	if s.busErr != nil {
		return
	}
	ev := newMessage(opEventWriteBus, 3)
	ev.appendW(addr)
	ev.appendB(val)
	if s.busErr = s.conn.out(ev); s.busErr != nil {
		return
	}
	s.busErr = s.expectAck()
}

func (s *session) trace(pc uint16, opcode []byte, name string) {
	if s.busErr != nil {
		return
	}
	var op uint16
	for _, b := range opcode {
		op = op<<8 | uint16(b)
	}
	ev := newMessage(opEventTrace, 5+len(name))
	ev.appendW(pc)
	ev.appendW(op)
	ev.appendS(name)
	if s.busErr = s.conn.out(ev); s.busErr != nil {
		return
	}
	s.busErr = s.expectAck()
}
