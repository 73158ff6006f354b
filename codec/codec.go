// Package codec provides a concrete wire encoding for idlist's Saved
// format. MessagePack is denser than JSON and, unlike encoding/json,
// round-trips large uint64 counters without float coercion.
package codec

import (
	"github.com/orbitcollective/idlist"
	"github.com/vmihailenco/msgpack/v5"
)

// wireRecord mirrors idlist.SavedRecord with msgpack struct tags; idlist
// itself stays free of encoding-library annotations.
type wireRecord struct {
	BunchID      string `msgpack:"b"`
	StartCounter uint64 `msgpack:"s"`
	Count        uint64 `msgpack:"c"`
	IsDeleted    bool   `msgpack:"d"`
}

// Marshal encodes a Saved sequence to MessagePack bytes.
func Marshal(records []idlist.SavedRecord) ([]byte, error) {
	wire := make([]wireRecord, len(records))
	for i, r := range records {
		wire[i] = wireRecord{BunchID: r.BunchID, StartCounter: r.StartCounter, Count: r.Count, IsDeleted: r.IsDeleted}
	}
	return msgpack.Marshal(wire)
}

// Unmarshal decodes MessagePack bytes produced by Marshal back into a
// Saved sequence suitable for idlist.Load.
func Unmarshal(data []byte) ([]idlist.SavedRecord, error) {
	var wire []wireRecord
	if err := msgpack.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	records := make([]idlist.SavedRecord, len(wire))
	for i, w := range wire {
		records[i] = idlist.SavedRecord{BunchID: w.BunchID, StartCounter: w.StartCounter, Count: w.Count, IsDeleted: w.IsDeleted}
	}
	return records, nil
}
