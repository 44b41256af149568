package cli

import (
	"context"

	"phonebook-client/internal/format"
	"phonebook-client/internal/model"
	"phonebook-client/internal/phonebook"
	"phonebook-client/internal/rpc"

	"github.com/spf13/cobra"
)

// demoStep is one call of the demonstration sequence.
type demoStep func(ctx context.Context, c *phonebook.Client, addr string) (any, error)

func addStep(name, surname, patronymic, number, note string) demoStep {
	e := model.Entry{Name: name, Surname: surname, Patronymic: patronymic, Number: number, Note: note}
	return func(ctx context.Context, c *phonebook.Client, addr string) (any, error) {
		ok, err := c.AddRecord(ctx, addr, e)
		return format.CodeResponse{Op: rpc.MethodAddRecord, Code: ok}, err
	}
}

func deleteIDStep(id uint64) demoStep {
	return func(ctx context.Context, c *phonebook.Client, addr string) (any, error) {
		ok, err := c.DeleteRecordByID(ctx, addr, id)
		return format.CodeResponse{Op: rpc.MethodDeleteRecordByID, Code: ok}, err
	}
}

func deleteNumberStep(number string) demoStep {
	return func(ctx context.Context, c *phonebook.Client, addr string) (any, error) {
		ok, err := c.DeleteRecordByNumber(ctx, addr, number)
		return format.CodeResponse{Op: rpc.MethodDeleteRecordByNumber, Code: ok}, err
	}
}

func findIDStep(id uint64) demoStep {
	return func(ctx context.Context, c *phonebook.Client, addr string) (any, error) {
		res, err := c.FindRecordByID(ctx, addr, id)
		return format.NewFindResponse(rpc.MethodFindRecordByID, res), err
	}
}

func findStep(op string, find func(*phonebook.Client, context.Context, string, string) (model.Result, error), value string) demoStep {
	return func(ctx context.Context, c *phonebook.Client, addr string) (any, error) {
		res, err := find(c, ctx, addr, value)
		return format.NewFindResponse(op, res), err
	}
}

// demoSteps returns the demonstration sequence. Against an empty server the
// adds produce ids 1..18 in order, with the duplicate number rejected.
func demoSteps() []demoStep {
	byName := (*phonebook.Client).FindRecordsByName
	bySurname := (*phonebook.Client).FindRecordsBySurname
	byPatronymic := (*phonebook.Client).FindRecordsByPatronymic
	byNote := (*phonebook.Client).FindRecordsByNote

	return []demoStep{
		addStep("Aleksandr", "Ivanov", "Petrovich", "+79743102164", "C++ intern developer"),
		addStep("Aleksandr", "Petrov", "Ivanovich", "+79754213275", "C++ junior developer"),
		addStep("Aleksandr", "Sidorov", "Nikolaevich", "+79765324386", "C++ middle developer"),
		addStep("Aleksandr", "Smirnov", "Konstantinovich", "+79776435497", "C++ senior developer"),
		addStep("Aleksandr", "Sokolov", "Alekseevich", "+79787546508", "Python senior developer"),
		addStep("Aleksandr", "Vasiliev", "Pavlovich", "+79798657619", "Rust middle developer"),

		// Same number as the first record: rejected.
		addStep("Sergei", "Burkatovsky", "Borisovich", "+79743102164", "Boss of the gym"),

		findIDStep(4),
		findIDStep(404),
		findStep(rpc.MethodFindRecordsByName, byName, "Aleksandr"),

		deleteIDStep(1),
		deleteIDStep(3),
		deleteIDStep(6),
		deleteIDStep(404),
		findStep(rpc.MethodFindRecordsByName, byName, "Aleksandr"),

		addStep("Anton", "Kulikov", "Denisovich", "+79638245371", "UX/UI designer"),
		addStep("Artyom", "Kulikov", "Maksimovich", "+79649356482", "Level designer"),
		addStep("Andrei", "Kulikov", "Dmitrievich", "+79650467593", "3ds Max artist"),
		addStep("Aleksei", "Kulikov", "Semyonovich", "+79661578604", "3ds Max rendering specialist"),
		addStep("Arseny", "Kulikov", "Evgenievich", "+79672689715", "3ds Max plugin developer"),
		addStep("Anatoly", "Kulikov", "Mikhailovich", "+79683790826", "Havok developer"),
		findStep(rpc.MethodFindRecordsBySurname, bySurname, "Kulikov"),

		deleteNumberStep("+79649356482"),
		deleteNumberStep("+79661578604"),
		deleteNumberStep("88005553535"),
		findStep(rpc.MethodFindRecordsBySurname, bySurname, "Kulikov"),

		addStep("Anna", "Lebedeva", "Sergeevna", "+79847358427", "Product manager"),
		addStep("Alina", "Zhukova", "Sergeevna", "+79858469538", "PR manager"),
		addStep("Ksenia", "Zaitseva", "Sergeevna", "+79869570649", "Photoshop artist"),
		addStep("Sofia", "Volkova", "Sergeevna", "+79870681750", "Data scientist"),
		addStep("Maria", "Tarasova", "Sergeevna", "+79881792861", "Data engineer"),
		addStep("Anastasia", "Fomina", "Sergeevna", "+79892803972", "C++ teamlead senior developer"),
		findStep(rpc.MethodFindRecordsByPatronymic, byPatronymic, "Sergeevna"),

		findStep(rpc.MethodFindRecordsByNote, byNote, "C++ teamlead senior developer"),
		findStep(rpc.MethodFindRecordsByNote, byNote, "Likes artillery"),
	}
}

func newDemoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the demonstration sequence against a server and print each response",
		Long: `Runs a fixed sequence of adds, deletes and lookups. Expected ids assume
an empty server. The sequence stops at the first transport failure.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, step := range demoSteps() {
				v, err := step(cmd.Context(), app.client, app.cfg.Address)
				if err != nil {
					return callError(err)
				}
				if err := writeOut(cmd, app, v); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
