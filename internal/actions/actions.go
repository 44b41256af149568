package actions

import (
	"context"
	"fmt"

	"phonebook-client/internal/model"
	"phonebook-client/internal/phonebook"

	"go.uber.org/zap"
)

// Querier is the phone book API the handlers depend on. *phonebook.Client
// implements it.
type Querier interface {
	AddRecord(ctx context.Context, addr string, e model.Entry) (bool, error)
	DeleteRecordByID(ctx context.Context, addr string, id uint64) (bool, error)
	DeleteRecordByNumber(ctx context.Context, addr string, number string) (bool, error)
	FindRecordByID(ctx context.Context, addr string, id uint64) (model.Result, error)
	FindRecordByNumber(ctx context.Context, addr string, number string) (model.Result, error)
	FindRecordsByName(ctx context.Context, addr string, name string) (model.Result, error)
	FindRecordsBySurname(ctx context.Context, addr string, surname string) (model.Result, error)
	FindRecordsByPatronymic(ctx context.Context, addr string, patronymic string) (model.Result, error)
	FindRecordsByNote(ctx context.Context, addr string, query string) (model.Result, error)
}

var _ Querier = (*phonebook.Client)(nil)

type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Notice is a transient message shown to the user.
type Notice struct {
	Level Level
	Text  string
}

// TableUpdate replaces the contents of a results table.
type TableUpdate struct {
	Rows []model.Record
}

// Outcome is what a handler asks the UI to do. A nil Table leaves the
// results display as it was.
type Outcome struct {
	Notice Notice
	Table  *TableUpdate
}

const unreachableText = "Could not send the request. The server may be unavailable."

// Handlers validates form input, calls the phone book and turns the result
// into an Outcome. Handlers never return errors; every failure becomes an
// error notice.
type Handlers struct {
	Client Querier
	Logger *zap.Logger
}

func (h Handlers) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func (h Handlers) Add(ctx context.Context, addr string, e model.Entry) Outcome {
	ok, err := h.Client.AddRecord(ctx, addr, e)
	if err != nil {
		return h.failed("add", err)
	}
	if ok {
		return info("Record added.")
	}
	return warning("A record with this phone number already exists.")
}

func (h Handlers) DeleteByID(ctx context.Context, addr string, rawID string) Outcome {
	id, err := ParseID(rawID)
	if err != nil {
		return h.invalid(err)
	}
	ok, err := h.Client.DeleteRecordByID(ctx, addr, id)
	if err != nil {
		return h.failed("delete by id", err)
	}
	if ok {
		return info("Record deleted.")
	}
	return warning("No record with this id exists.")
}

func (h Handlers) DeleteByNumber(ctx context.Context, addr string, number string) Outcome {
	ok, err := h.Client.DeleteRecordByNumber(ctx, addr, number)
	if err != nil {
		return h.failed("delete by number", err)
	}
	if ok {
		return info("Record deleted.")
	}
	return warning("No record with this phone number exists.")
}

func (h Handlers) FindByID(ctx context.Context, addr string, rawID string) Outcome {
	id, err := ParseID(rawID)
	if err != nil {
		return h.invalid(err)
	}
	res, err := h.Client.FindRecordByID(ctx, addr, id)
	if err != nil {
		return h.failed("find by id", err)
	}
	return single(res,
		fmt.Sprintf("Record with id \"%d\" found.", id),
		fmt.Sprintf("No record with id \"%d\" exists.", id))
}

func (h Handlers) FindByNumber(ctx context.Context, addr string, number string) Outcome {
	res, err := h.Client.FindRecordByNumber(ctx, addr, number)
	if err != nil {
		return h.failed("find by number", err)
	}
	return single(res,
		fmt.Sprintf("Record with phone number %q found.", number),
		fmt.Sprintf("No record with phone number %q exists.", number))
}

func (h Handlers) FindByName(ctx context.Context, addr string, name string) Outcome {
	res, err := h.Client.FindRecordsByName(ctx, addr, name)
	if err != nil {
		return h.failed("find by name", err)
	}
	return many(res, fmt.Sprintf("with name %q", name))
}

func (h Handlers) FindBySurname(ctx context.Context, addr string, surname string) Outcome {
	res, err := h.Client.FindRecordsBySurname(ctx, addr, surname)
	if err != nil {
		return h.failed("find by surname", err)
	}
	return many(res, fmt.Sprintf("with surname %q", surname))
}

func (h Handlers) FindByPatronymic(ctx context.Context, addr string, patronymic string) Outcome {
	res, err := h.Client.FindRecordsByPatronymic(ctx, addr, patronymic)
	if err != nil {
		return h.failed("find by patronymic", err)
	}
	return many(res, fmt.Sprintf("with patronymic %q", patronymic))
}

func (h Handlers) FindByNote(ctx context.Context, addr string, query string) Outcome {
	res, err := h.Client.FindRecordsByNote(ctx, addr, query)
	if err != nil {
		return h.failed("find by note", err)
	}
	return many(res, fmt.Sprintf("with %q in the note", query))
}

func (h Handlers) invalid(err error) Outcome {
	return Outcome{Notice: Notice{Level: LevelError, Text: err.Error()}}
}

func (h Handlers) failed(action string, err error) Outcome {
	h.logger().Warn("action failed", zap.String("action", action), zap.Error(err))
	return Outcome{Notice: Notice{Level: LevelError, Text: unreachableText}}
}

func info(text string) Outcome {
	return Outcome{Notice: Notice{Level: LevelInfo, Text: text}}
}

func warning(text string) Outcome {
	return Outcome{Notice: Notice{Level: LevelWarning, Text: text}}
}

func single(res model.Result, found, missing string) Outcome {
	if res.IsAbsent() {
		return Outcome{
			Notice: Notice{Level: LevelWarning, Text: missing},
			Table:  &TableUpdate{},
		}
	}
	return Outcome{
		Notice: Notice{Level: LevelInfo, Text: found},
		Table:  &TableUpdate{Rows: res.Records()},
	}
}

func many(res model.Result, what string) Outcome {
	if res.IsAbsent() {
		return Outcome{
			Notice: Notice{Level: LevelWarning, Text: "No records " + what + " found."},
			Table:  &TableUpdate{},
		}
	}
	noun := "records"
	if res.Len() == 1 {
		noun = "record"
	}
	return Outcome{
		Notice: Notice{Level: LevelInfo, Text: fmt.Sprintf("Found %d %s %s.", res.Len(), noun, what)},
		Table:  &TableUpdate{Rows: res.Records()},
	}
}
