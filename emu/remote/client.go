package remote

import (
	"errors"
	"fmt"
	"net"

	"github.com/gorilla/websocket"

	"mc6809/hw"
)

// ErrFailed is returned when the server answers a command with FAIL.
var ErrFailed = errors.New("remote: command failed")

// Client drives a remote CPU. It serves the bus events of the CPU with its
// own Bus while waiting for command responses.
type Client struct {
	conn  conn
	bus   hw.Bus
	trace hw.TraceFunc
}

// NewClient returns a client talking over a TCP connection.
func NewClient(c net.Conn, bus hw.Bus) *Client {
	return &Client{conn: newTCPConn(c), bus: bus}
}

// DialWebSocket connects to the WebSocket endpoint at url
// (ws://host:port/mc6809).
func DialWebSocket(url string, bus hw.Bus) (*Client, error) {
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}
	return &Client{conn: newWSConn(c), bus: bus}, nil
}

// Close says bye to the server and closes the connection.
func (c *Client) Close() error {
	err := c.conn.out(newMessage(opBye, 0))
	if cerr := c.conn.Close(); err == nil {
		err = cerr
	}
	return err
}

// SetTrace enables trace events, received by fn. A nil fn disables them.
func (c *Client) SetTrace(fn hw.TraceFunc) error {
	op := opTraceOn
	if fn == nil {
		op = opTraceOff
	}
	if err := c.cmd(newMessage(op, 0)); err != nil {
		return err
	}
	c.trace = fn
	return nil
}

// Reset resets the remote CPU, which reads the reset vector from the bus.
func (c *Client) Reset() error {
	return c.cmd(newMessage(opReset, 0))
}

// Step runs one CPU step and returns the cycles it took.
func (c *Client) Step(irq, firq bool) (int, error) {
	var lines uint8
	if irq {
		lines |= LineIRQ
	}
	if firq {
		lines |= LineFIRQ
	}
	msg := newMessage(opStep, 1)
	msg.appendB(lines)
	if err := c.cmd(msg); err != nil {
		return 0, err
	}
	cycles, err := c.conn.inW()
	return int(cycles), err
}

func (c *Client) ReadReg(r Reg) (uint16, error) {
	if r >= numRegs {
		return 0, fmt.Errorf("remote: unknown register %v", r)
	}
	if err := c.cmd(newMessage(r.readOp(), 0)); err != nil {
		return 0, err
	}
	if r.Wide() {
		return c.conn.inW()
	}
	b, err := c.conn.inB()
	return uint16(b), err
}

func (c *Client) WriteReg(r Reg, val uint16) error {
	if r >= numRegs {
		return fmt.Errorf("remote: unknown register %v", r)
	}
	var msg sendBuf
	if r.Wide() {
		msg = newMessage(r.writeOp(), 2)
		msg.appendW(val)
	} else {
		msg = newMessage(r.writeOp(), 1)
		msg.appendB(uint8(val))
	}
	return c.cmd(msg)
}

func (c *Client) WaitState() (hw.WaitState, error) {
	if err := c.cmd(newMessage(opReadWait, 0)); err != nil {
		return 0, err
	}
	b, err := c.conn.inB()
	return hw.WaitState(b), err
}

// cmd sends a command and serves server events until the response. On
// success the response payload is left to be read.
func (c *Client) cmd(msg sendBuf) error {
	if err := c.conn.out(msg); err != nil {
		return err
	}
	for {
		hdr, err := c.conn.inB()
		if err != nil {
			return err
		}
		switch opbyte(hdr) {
		case opAck:
			return nil
		case opFail:
			return ErrFailed
		case opEventReadBus:
			err = c.serveRead()
		case opEventWriteBus:
			err = c.serveWrite()
		case opEventTrace:
			err = c.serveTrace()
		default:
			return fmt.Errorf("remote: unexpected message %#x", hdr)
		}
		if err != nil {
			return err
		}
	}
}

func (c *Client) serveRead() error {
	addr, err := c.conn.inW()
	if err != nil {
		return err
	}
	res := newAckResponse(1)
	res.appendB(c.bus.Read8(addr))
	return c.conn.out(res)
}

func (c *Client) serveWrite() error {
	addr, err := c.conn.inW()
	if err != nil {
		return err
	}
	val, err := c.conn.inB()
	if err != nil {
		return err
	}
	c.bus.Write8(addr, val)
	return c.conn.out(newAckResponse(0))
}

func (c *Client) serveTrace() error {
	pc, err := c.conn.inW()
	if err != nil {
		return err
	}
	op, err := c.conn.inW()
	if err != nil {
		return err
	}
	name, err := c.conn.inS()
	if err != nil {
		return err
	}
	if c.trace != nil {
		opcode := []byte{uint8(op)}
		if op>>8 != 0 {
			opcode = []byte{uint8(op >> 8), uint8(op)}
		}
		c.trace(pc, opcode, name)
	}
	return c.conn.out(newAckResponse(0))
}
