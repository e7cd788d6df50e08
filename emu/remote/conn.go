package remote

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/gorilla/websocket"
)

// conn is a message stream, over TCP or WebSocket.
type conn interface {
	inB() (uint8, error)
	inW() (uint16, error)
	inS() (string, error)
	out(b sendBuf) error
	io.Closer
}

type tcpConn struct {
	conn   net.Conn
	reader *bufio.Reader
}

func newTCPConn(c net.Conn) *tcpConn {
	return &tcpConn{conn: c, reader: bufio.NewReader(c)}
}

func (c *tcpConn) Close() error { return c.conn.Close() }

func (c *tcpConn) out(b sendBuf) error {
	_, err := c.conn.Write(b.bytes())
	return err
}

func (c *tcpConn) inB() (uint8, error) {
	return c.reader.ReadByte()
}

func (c *tcpConn) inW() (uint16, error) {
	var buf [2]uint8
	if _, err := io.ReadFull(c.reader, buf[:]); err != nil {
		return 0, err
	}
	return uint16(buf[0])<<8 | uint16(buf[1]), nil
}

func (c *tcpConn) inS() (string, error) {
	n, err := c.inB()
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(c.reader, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// wsConn sends each message in its own binary WebSocket message. Received
// bytes are buffered, a value may span several messages.
type wsConn struct {
	conn   *websocket.Conn
	msgBuf []uint8
}

func newWSConn(c *websocket.Conn) *wsConn {
	return &wsConn{conn: c}
}

func (c *wsConn) Close() error { return c.conn.Close() }

func (c *wsConn) out(b sendBuf) error {
	return c.conn.WriteMessage(websocket.BinaryMessage, b.bytes())
}

func (c *wsConn) recvMsg() error {
	tp, msg, err := c.conn.ReadMessage()
	if err != nil {
		var cerr *websocket.CloseError
		if errors.As(err, &cerr) {
			return io.EOF
		}
		return err
	}
	if tp != websocket.BinaryMessage {
		return fmt.Errorf("expected binary message, got type %d", tp)
	}
	c.msgBuf = append(c.msgBuf, msg...)
	return nil
}

// fill receives messages until n bytes are buffered.
func (c *wsConn) fill(n int) error {
	for len(c.msgBuf) < n {
		if err := c.recvMsg(); err != nil {
			return err
		}
	}
	return nil
}

func (c *wsConn) inB() (uint8, error) {
	if err := c.fill(1); err != nil {
		return 0, err
	}
	res := c.msgBuf[0]
	c.msgBuf = c.msgBuf[1:]
	return res, nil
}

func (c *wsConn) inW() (uint16, error) {
	if err := c.fill(2); err != nil {
		return 0, err
	}
	res := uint16(c.msgBuf[0])<<8 | uint16(c.msgBuf[1])
	c.msgBuf = c.msgBuf[2:]
	return res, nil
}

func (c *wsConn) inS() (string, error) {
	n, err := c.inB()
	if err != nil {
		return "", err
	}
	if err := c.fill(int(n)); err != nil {
		return "", err
	}
	s := string(c.msgBuf[:n])
	c.msgBuf = c.msgBuf[n:]
	return s, nil
}
