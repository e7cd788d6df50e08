package log

import (
	"fmt"
	"sync"
	"time"

	"gopkg.in/Sirupsen/logrus.v0"
)

const maxFields = 16

// EntryZ is a log entry built field by field and emitted by End. All methods
// accept a nil receiver, which is what disabled levels return, so a disabled
// log line costs a nil check per field.
type EntryZ struct {
	lvl     Level
	mod     Module
	msg     string
	fields  [maxFields]field
	nfields int
}

var entryzPool = sync.Pool{
	New: func() any { return new(EntryZ) },
}

func newEntryZ() *EntryZ {
	e := entryzPool.Get().(*EntryZ)
	e.nfields = 0
	return e
}

func (z *EntryZ) add(f field) *EntryZ {
	if z == nil {
		return nil
	}
	if z.nfields < maxFields {
		z.fields[z.nfields] = f
		z.nfields++
	}
	return z
}

func (z *EntryZ) Bool(key string, v bool) *EntryZ {
	f := field{kind: kindBool, key: key}
	if v {
		f.num = 1
	}
	return z.add(f)
}

func (z *EntryZ) String(key, v string) *EntryZ {
	return z.add(field{kind: kindString, key: key, str: v})
}

func (z *EntryZ) Int(key string, v int) *EntryZ {
	return z.add(field{kind: kindInt, key: key, num: int64(v)})
}

func (z *EntryZ) Int64(key string, v int64) *EntryZ {
	return z.add(field{kind: kindInt, key: key, num: v})
}

func (z *EntryZ) Hex8(key string, v uint8) *EntryZ {
	return z.add(field{kind: kindHex8, key: key, num: int64(v)})
}

func (z *EntryZ) Hex16(key string, v uint16) *EntryZ {
	return z.add(field{kind: kindHex16, key: key, num: int64(v)})
}

// Error adds err, which may be nil.
func (z *EntryZ) Error(key string, err error) *EntryZ {
	f := field{kind: kindError, key: key}
	if err != nil {
		f.val = err
	}
	return z.add(f)
}

func (z *EntryZ) Duration(key string, d time.Duration) *EntryZ {
	return z.add(field{kind: kindDuration, key: key, num: int64(d)})
}

func (z *EntryZ) Stringer(key string, s fmt.Stringer) *EntryZ {
	return z.add(field{kind: kindStringer, key: key, val: s})
}

// End emits the entry and recycles it.
func (z *EntryZ) End() {
	if z == nil {
		return
	}

	fields := make(logrus.Fields, z.nfields+1)
	fields["_mod"] = z.mod.String()
	for i := range z.fields[:z.nfields] {
		fields[z.fields[i].key] = z.fields[i].value()
	}
	entry := logrus.StandardLogger().WithFields(fields)

	switch z.lvl {
	case DebugLevel:
		entry.Debug(z.msg)
	case InfoLevel:
		entry.Info(z.msg)
	case WarnLevel:
		entry.Warn(z.msg)
	case ErrorLevel:
		entry.Error(z.msg)
	}

	z.fields = [maxFields]field{}
	entryzPool.Put(z)
}
