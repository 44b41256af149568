package cli

import (
	"context"
	"strings"

	"phonebook-client/internal/actions"
	"phonebook-client/internal/format"
	"phonebook-client/internal/model"
	"phonebook-client/internal/phonebook"
	"phonebook-client/internal/rpc"

	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	var e model.Entry

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a record (rejected when the phone number is already in use)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := app.client.AddRecord(cmd.Context(), app.cfg.Address, e)
			if err != nil {
				return callError(err)
			}
			return writeOut(cmd, app, format.CodeResponse{Op: rpc.MethodAddRecord, Code: ok})
		},
	}

	cmd.Flags().StringVar(&e.Name, "name", "", "First name")
	cmd.Flags().StringVar(&e.Surname, "surname", "", "Surname")
	cmd.Flags().StringVar(&e.Patronymic, "patronymic", "", "Patronymic")
	cmd.Flags().StringVar(&e.Number, "number", "", "Phone number (the server rejects numbers already in use)")
	cmd.Flags().StringVar(&e.Note, "note", "", "Free-text note")
	return cmd
}

func newDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a record by id or phone number",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "id <id>",
		Short: "Delete the record with this id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := actions.ParseID(args[0])
			if err != nil {
				return err
			}
			ok, err := app.client.DeleteRecordByID(cmd.Context(), app.cfg.Address, id)
			if err != nil {
				return callError(err)
			}
			return writeOut(cmd, app, format.CodeResponse{Op: rpc.MethodDeleteRecordByID, Code: ok})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "number <phone-number>",
		Short: "Delete the record with this phone number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := app.client.DeleteRecordByNumber(cmd.Context(), app.cfg.Address, args[0])
			if err != nil {
				return callError(err)
			}
			return writeOut(cmd, app, format.CodeResponse{Op: rpc.MethodDeleteRecordByNumber, Code: ok})
		},
	})

	return cmd
}

func newFindCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Look up records",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "id <id>",
		Short: "Find the record with this id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := actions.ParseID(args[0])
			if err != nil {
				return err
			}
			res, err := app.client.FindRecordByID(cmd.Context(), app.cfg.Address, id)
			if err != nil {
				return callError(err)
			}
			return writeOut(cmd, app, format.NewFindResponse(rpc.MethodFindRecordByID, res))
		},
	})

	lookups := []struct {
		use   string
		short string
		op    string
		find  func(*phonebook.Client, context.Context, string, string) (model.Result, error)
	}{
		{"number <phone-number>", "Find the record with this phone number", rpc.MethodFindRecordByNumber, (*phonebook.Client).FindRecordByNumber},
		{"name <name>", "Find records with this first name", rpc.MethodFindRecordsByName, (*phonebook.Client).FindRecordsByName},
		{"surname <surname>", "Find records with this surname", rpc.MethodFindRecordsBySurname, (*phonebook.Client).FindRecordsBySurname},
		{"patronymic <patronymic>", "Find records with this patronymic", rpc.MethodFindRecordsByPatronymic, (*phonebook.Client).FindRecordsByPatronymic},
		{"note <words>", "Find records whose note shares words with the query, most relevant first", rpc.MethodFindRecordsByNote, (*phonebook.Client).FindRecordsByNote},
	}
	for _, l := range lookups {
		l := l
		cmd.AddCommand(&cobra.Command{
			Use:   l.use,
			Short: l.short,
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := l.find(app.client, cmd.Context(), app.cfg.Address, strings.Join(args, " "))
				if err != nil {
					return callError(err)
				}
				return writeOut(cmd, app, format.NewFindResponse(l.op, res))
			},
		})
	}

	return cmd
}
