package log

import (
	"fmt"
	"strconv"
	"time"
)

type fieldKind uint8

const (
	kindBool fieldKind = iota + 1
	kindString
	kindInt
	kindHex8
	kindHex16
	kindError
	kindDuration
	kindStringer
)

// field is a key/value pair of an EntryZ. Depending on kind, the value is
// held by str, num or val.
type field struct {
	kind fieldKind
	key  string
	str  string
	num  int64
	val  any
}

func (f *field) value() string {
	switch f.kind {
	case kindBool:
		return strconv.FormatBool(f.num != 0)
	case kindString:
		return f.str
	case kindInt:
		return strconv.FormatInt(f.num, 10)
	case kindHex8:
		return fmt.Sprintf("%02x", uint8(f.num))
	case kindHex16:
		return fmt.Sprintf("%04x", uint16(f.num))
	case kindError:
		if f.val == nil {
			return "<nil>"
		}
		return f.val.(error).Error()
	case kindDuration:
		return time.Duration(f.num).String()
	case kindStringer:
		return f.val.(fmt.Stringer).String()
	}
	return ""
}
