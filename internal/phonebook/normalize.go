package phonebook

import (
	"errors"
	"io"

	"phonebook-client/internal/model"
	"phonebook-client/internal/rpc"
)

func toRecord(r *rpc.RecordResponse) model.Record {
	return model.Record{
		ID: r.ID,
		Entry: model.Entry{
			Name:       r.Name,
			Surname:    r.Surname,
			Patronymic: r.Patronymic,
			Number:     r.Number,
			Note:       r.Note,
		},
	}
}

// normalizeOne maps a single-record response. ID 0 is the service's
// "no such record" sentinel.
func normalizeOne(r *rpc.RecordResponse) model.Result {
	if r == nil || r.ID == 0 {
		return model.Absent()
	}
	return model.One(toRecord(r))
}

// collect drains a record stream in arrival order. An empty stream is
// Absent. Sentinel items (ID 0) are dropped so they never reach callers.
func collect(s rpc.RecordStream) (model.Result, error) {
	var out []model.Record
	for {
		r, err := s.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.Absent(), err
		}
		if r.ID == 0 {
			continue
		}
		out = append(out, toRecord(r))
	}
	return model.Many(out), nil
}
