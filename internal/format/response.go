package format

import (
	"fmt"
	"io"

	"phonebook-client/internal/model"
)

// CodeResponse is the printable outcome of an add or delete call.
type CodeResponse struct {
	Op   string `json:"op"`
	Code bool   `json:"code"`
}

func (r CodeResponse) WriteText(w io.Writer) error {
	code := 0
	if r.Code {
		code = 1
	}
	_, err := fmt.Fprintf(w, "[%s] Response code: \"%d\"\n", r.Op, code)
	return err
}

// FindResponse is the printable outcome of a find call.
type FindResponse struct {
	Op      string         `json:"op"`
	Kind    string         `json:"kind"`
	Records []model.Record `json:"records"`
}

func NewFindResponse(op string, res model.Result) FindResponse {
	recs := res.Records()
	if recs == nil {
		recs = []model.Record{}
	}
	return FindResponse{Op: op, Kind: res.Kind().String(), Records: recs}
}

func (r FindResponse) WriteText(w io.Writer) error {
	switch {
	case len(r.Records) == 0:
		_, err := fmt.Fprintf(w, "[%s] Response: not found\n", r.Op)
		return err
	case r.Kind == model.KindSingle.String():
		_, err := fmt.Fprintf(w, "[%s] Response: %s\n", r.Op, RecordLine(r.Records[0]))
		return err
	}
	if _, err := fmt.Fprintf(w, "[%s] Response (%d records):\n", r.Op, len(r.Records)); err != nil {
		return err
	}
	for i, rec := range r.Records {
		if _, err := fmt.Fprintf(w, "#%d %s\n", i+1, RecordLine(rec)); err != nil {
			return err
		}
	}
	return nil
}

// RecordLine renders rec as quoted key="value" pairs.
func RecordLine(rec model.Record) string {
	return fmt.Sprintf("id=\"%d\", name=%q, surname=%q, patronymic=%q, number=%q, note=%q",
		rec.ID, rec.Name, rec.Surname, rec.Patronymic, rec.Number, rec.Note)
}
