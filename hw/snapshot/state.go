package snapshot

import "mc6809/hw"

// Version of the snapshot format written by Encode.
const Version = 1

// Machine is the saved state of a machine: CPU registers, elapsed cycles
// and the content of its writable memory regions.
type Machine struct {
	Version int
	CPU     hw.State
	Cycles  int64
	Regions []Region
}

type Region struct {
	Name  string
	Start uint16
	Data  []byte
}
