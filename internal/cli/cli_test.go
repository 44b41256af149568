package cli

import (
	"bytes"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"phonebook-client/internal/actions"
	"phonebook-client/internal/config"
	"phonebook-client/internal/model"
	"phonebook-client/internal/phonebook"
	"phonebook-client/internal/phonebook/phonebooktest"
	"phonebook-client/internal/rpc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("PHONEBOOK_CONFIG_DIR", t.TempDir())

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = Execute(cmd)
	return out.String(), errOut.String(), err
}

var idRe = regexp.MustCompile(`^#\d+ id="(\d+)"`)

// listedIDs returns the ids of the record block that follows header.
func listedIDs(out, header string) []string {
	lines := strings.Split(out, "\n")
	for i, l := range lines {
		if l != header {
			continue
		}
		var ids []string
		for _, row := range lines[i+1:] {
			m := idRe.FindStringSubmatch(row)
			if m == nil {
				break
			}
			ids = append(ids, m[1])
		}
		return ids
	}
	return nil
}

func TestDemo_Transcript(t *testing.T) {
	srv := phonebooktest.Start(t)

	out, _, err := run(t, "demo", "--addr", srv.Addr)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, `[AddRecord] Response code: "1"`, lines[0])
	assert.Equal(t, `[AddRecord] Response code: "0"`, lines[6], "duplicate number must be rejected")
	assert.Equal(t, `[FindRecordById] Response: id="4", name="Aleksandr", surname="Smirnov", patronymic="Konstantinovich", number="+79776435497", note="C++ senior developer"`, lines[7])
	assert.Equal(t, `[FindRecordById] Response: not found`, lines[8])
	assert.Equal(t, `[FindRecordsByNote] Response: not found`, lines[len(lines)-1])

	assert.Contains(t, out, "[DeleteRecordById] Response code: \"0\"\n")
	assert.Contains(t, out, "[DeleteRecordByNumber] Response code: \"0\"\n")

	assert.Equal(t, []string{"2", "4", "5"}, listedIDs(out, "[FindRecordsByName] Response (3 records):"))
	assert.Equal(t, []string{"7", "9", "11", "12"}, listedIDs(out, "[FindRecordsBySurname] Response (4 records):"))
	assert.Equal(t, []string{"13", "14", "15", "16", "17", "18"}, listedIDs(out, "[FindRecordsByPatronymic] Response (6 records):"))
	assert.Equal(t, []string{"18", "4", "2", "5", "12", "11"}, listedIDs(out, "[FindRecordsByNote] Response (6 records):"))

	assert.Equal(t, 15, srv.Len())
	assert.Equal(t, uint64(18), srv.LastID())
}

func TestFind_JSONOutput(t *testing.T) {
	srv := phonebooktest.Start(t)
	srv.Seed(
		model.Entry{Name: "Anton", Surname: "Kulikov", Number: "+79638245371", Note: "UX/UI designer"},
		model.Entry{Name: "Andrei", Surname: "Kulikov", Number: "+79650467593", Note: "3ds Max artist"},
	)

	out, _, err := run(t, "find", "surname", "Kulikov", "--addr", srv.Addr, "--format", "json")
	require.NoError(t, err)

	var got struct {
		Op      string         `json:"op"`
		Kind    string         `json:"kind"`
		Records []model.Record `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, rpc.MethodFindRecordsBySurname, got.Op)
	assert.Equal(t, "many", got.Kind)
	require.Len(t, got.Records, 2)
	assert.Equal(t, "Anton", got.Records[0].Name)
}

func TestAddAndDelete(t *testing.T) {
	srv := phonebooktest.Start(t)

	out, _, err := run(t, "add", "--addr", srv.Addr, "--name", "Anna", "--number", "+79847358427")
	require.NoError(t, err)
	assert.Equal(t, "[AddRecord] Response code: \"1\"\n", out)

	out, _, err = run(t, "delete", "number", "+79847358427", "--addr", srv.Addr)
	require.NoError(t, err)
	assert.Equal(t, "[DeleteRecordByNumber] Response code: \"1\"\n", out)

	out, _, err = run(t, "delete", "id", "1", "--addr", srv.Addr)
	require.NoError(t, err)
	assert.Equal(t, "[DeleteRecordById] Response code: \"0\"\n", out)

	// The server decides whether an entry without a number is acceptable.
	out, _, err = run(t, "add", "--addr", srv.Addr, "--name", "Anna")
	require.NoError(t, err)
	assert.Equal(t, "[AddRecord] Response code: \"1\"\n", out)
	assert.Equal(t, 2, srv.Calls(rpc.MethodAddRecord))
}

func TestFindID_InvalidIDSendsNoRequest(t *testing.T) {
	srv := phonebooktest.Start(t)

	_, stderr, err := run(t, "find", "id", "0", "--addr", srv.Addr)
	var ve *actions.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, stderr, `"0" is not a valid record id`)
	assert.Zero(t, srv.TotalCalls())
}

func TestFind_UnreachableServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, stderr, err := run(t, "find", "name", "Anna", "--addr", addr, "--timeout", "2s")
	require.ErrorIs(t, err, phonebook.ErrUnreachable)
	assert.Contains(t, stderr, "is the phone book server running at "+addr)
	assert.Equal(t, 1, strings.Count(strings.TrimSpace(stderr), "\n")+1, "error is reported on one line")
}

func TestConfig_ShowAndInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, _, err := run(t, "config", "show", "--config", path, "--addr", "example:7000", "--format", "json")
	require.NoError(t, err)
	var view configView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "example:7000", view.Address)
	assert.Equal(t, "5s", view.Timeout)
	assert.Equal(t, path, view.Path)

	out, _, err = run(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	_, _, err = run(t, "config", "init", "--config", path)
	require.Error(t, err)

	_, _, err = run(t, "config", "init", "--config", path, "--force")
	require.NoError(t, err)

	out, _, err = run(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "address: localhost:50051")
}

func TestConfigInit_ForceReplacesMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	bad := []byte("address: [unterminated")
	require.NoError(t, os.WriteFile(path, bad, 0o600))

	_, _, err := run(t, "config", "show", "--config", path)
	require.Error(t, err, "other commands still refuse a malformed file")

	out, _, err := run(t, "config", "init", "--config", path, "--force")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, bad, backup)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}
