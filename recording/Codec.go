package recording

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding: sorted map keys, smallest integer encoding, no
// indefinite-length items. The same record always produces identical
// bytes, which keeps file recordings reproducible.
var encMode cbor.EncMode

// decMode accepts standard CBOR and ignores unknown fields, so newer
// recordings remain readable by older code.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("recording: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Timeline maps decode into map[string]int64 targets, but any
		// future any-typed fields should come back as map[string]any
		// rather than the CBOR default map[interface{}]interface{}.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("recording: CBOR decoder initialization failed: " + err.Error())
	}
}

func marshalRecord(rec *Record) ([]byte, error) {
	data, err := encMode.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshalRecord: could not encode %v record: %v",
			rec.Kind, err)
	}
	return data, nil
}

func unmarshalRecord(data []byte) (*Record, error) {
	rec := new(Record)
	if err := decMode.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("unmarshalRecord: could not decode record: %v",
			err)
	}
	return rec, nil
}
