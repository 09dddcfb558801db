package mpc

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/Dreyvor/ADVPETs-projects/pkg/mpc/field"
)

// encodeElem and decodeElem give every value crossing the comm.Communication
// interface a stable wire form, using CBOR the way the teacher's
// pkg/protocol/handler.go encodes round messages.
func encodeElem(e field.Elem) []byte {
	data, err := cbor.Marshal(uint32(e))
	if err != nil {
		panic(err)
	}
	return data
}

func decodeElem(data []byte) (field.Elem, error) {
	var v uint32
	if err := cbor.Unmarshal(data, &v); err != nil {
		return 0, err
	}
	return field.Elem(v), nil
}
