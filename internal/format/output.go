package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// TextWriter is implemented by payloads that have a plain-text rendering.
type TextWriter interface {
	WriteText(w io.Writer) error
}

// Write writes output in the requested format.
//
// Supported formats:
// - text (default for records and codes, mirrors the demo transcript)
// - json
// - edn
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "text":
		if t, ok := v.(TextWriter); ok {
			return t.WriteText(w)
		}
		return WriteJSON(w, v, pretty)
	case "json":
		return WriteJSON(w, v, pretty)
	case "edn":
		return WriteEDN(w, v, pretty)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON, one document per call.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}
