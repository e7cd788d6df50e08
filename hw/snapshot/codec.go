package snapshot

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-faster/jx"

	"mc6809/hw"
)

var ErrVersion = errors.New("unsupported snapshot version")

// Encode writes m as JSON. Fields are always written in the same order.
func Encode(w io.Writer, m *Machine) error {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("version", func(e *jx.Encoder) { e.Int(m.Version) })
		e.Field("cpu", func(e *jx.Encoder) { encodeCPU(e, &m.CPU) })
		e.Field("cycles", func(e *jx.Encoder) { e.Int64(m.Cycles) })
		e.Field("regions", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for i := range m.Regions {
					encodeRegion(e, &m.Regions[i])
				}
			})
		})
	})
	_, err := w.Write(e.Bytes())
	return err
}

func encodeCPU(e *jx.Encoder, s *hw.State) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("pc", func(e *jx.Encoder) { e.Int(int(s.PC)) })
		e.Field("u", func(e *jx.Encoder) { e.Int(int(s.U)) })
		e.Field("s", func(e *jx.Encoder) { e.Int(int(s.S)) })
		e.Field("x", func(e *jx.Encoder) { e.Int(int(s.X)) })
		e.Field("y", func(e *jx.Encoder) { e.Int(int(s.Y)) })
		e.Field("dp", func(e *jx.Encoder) { e.Int(int(s.DP)) })
		e.Field("b", func(e *jx.Encoder) { e.Int(int(s.B)) })
		e.Field("a", func(e *jx.Encoder) { e.Int(int(s.A)) })
		e.Field("cc", func(e *jx.Encoder) { e.Int(int(s.CC)) })
		e.Field("wait", func(e *jx.Encoder) { e.Str(s.Wait.String()) })
	})
}

func encodeRegion(e *jx.Encoder, r *Region) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("name", func(e *jx.Encoder) { e.Str(r.Name) })
		e.Field("start", func(e *jx.Encoder) { e.Int(int(r.Start)) })
		e.Field("data", func(e *jx.Encoder) { e.Base64(r.Data) })
	})
}

// Decode reads a snapshot written by Encode. Unknown fields are ignored.
func Decode(r io.Reader) (*Machine, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	m := new(Machine)
	m.Version = -1
	d := jx.DecodeBytes(buf)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "version":
			m.Version, err = d.Int()
		case "cpu":
			err = decodeCPU(d, &m.CPU)
		case "cycles":
			m.Cycles, err = d.Int64()
		case "regions":
			err = d.Arr(func(d *jx.Decoder) error {
				var rgn Region
				if err := decodeRegion(d, &rgn); err != nil {
					return err
				}
				m.Regions = append(m.Regions, rgn)
				return nil
			})
		default:
			err = d.Skip()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if m.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, m.Version)
	}
	return m, nil
}

func decodeUint(d *jx.Decoder, max int) (int, error) {
	v, err := d.Int()
	if err != nil {
		return 0, err
	}
	if v < 0 || v > max {
		return 0, fmt.Errorf("value %d out of range [0, %d]", v, max)
	}
	return v, nil
}

func decode8(d *jx.Decoder, dst *uint8) error {
	v, err := decodeUint(d, 0xFF)
	*dst = uint8(v)
	return err
}

func decode16(d *jx.Decoder, dst *uint16) error {
	v, err := decodeUint(d, 0xFFFF)
	*dst = uint16(v)
	return err
}

func decodeWait(d *jx.Decoder, dst *hw.WaitState) error {
	s, err := d.Str()
	if err != nil {
		return err
	}
	for _, ws := range []hw.WaitState{hw.Normal, hw.SyncWait, hw.CwaiWait} {
		if ws.String() == s {
			*dst = ws
			return nil
		}
	}
	return fmt.Errorf("unknown wait state %q", s)
}

func decodeCPU(d *jx.Decoder, s *hw.State) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "pc":
			err = decode16(d, &s.PC)
		case "u":
			err = decode16(d, &s.U)
		case "s":
			err = decode16(d, &s.S)
		case "x":
			err = decode16(d, &s.X)
		case "y":
			err = decode16(d, &s.Y)
		case "dp":
			err = decode8(d, &s.DP)
		case "b":
			err = decode8(d, &s.B)
		case "a":
			err = decode8(d, &s.A)
		case "cc":
			var cc uint8
			err = decode8(d, &cc)
			s.CC = hw.CC(cc)
		case "wait":
			err = decodeWait(d, &s.Wait)
		default:
			err = d.Skip()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return nil
	})
}

func decodeRegion(d *jx.Decoder, r *Region) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			r.Name, err = d.Str()
		case "start":
			err = decode16(d, &r.Start)
		case "data":
			r.Data, err = d.Base64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return nil
	})
}
