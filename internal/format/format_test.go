package format

import (
	"bytes"
	"strings"
	"testing"

	"phonebook-client/internal/model"
)

func rec(id uint64, name, surname string) model.Record {
	return model.Record{ID: id, Entry: model.Entry{Name: name, Surname: surname, Patronymic: "Sergeevna", Number: "+7", Note: "PR manager"}}
}

func TestWrite_TextTranscriptLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    any
		want string
	}{
		{
			name: "code true",
			v:    CodeResponse{Op: "AddRecord", Code: true},
			want: "[AddRecord] Response code: \"1\"\n",
		},
		{
			name: "code false",
			v:    CodeResponse{Op: "DeleteRecordById", Code: false},
			want: "[DeleteRecordById] Response code: \"0\"\n",
		},
		{
			name: "absent",
			v:    NewFindResponse("FindRecordById", model.Absent()),
			want: "[FindRecordById] Response: not found\n",
		},
		{
			name: "single",
			v:    NewFindResponse("FindRecordById", model.One(rec(4, "Alina", "Zhukova"))),
			want: "[FindRecordById] Response: id=\"4\", name=\"Alina\", surname=\"Zhukova\", patronymic=\"Sergeevna\", number=\"+7\", note=\"PR manager\"\n",
		},
		{
			name: "many",
			v:    NewFindResponse("FindRecordsByPatronymic", model.Many([]model.Record{rec(14, "Alina", "Zhukova"), rec(13, "Anna", "Lebedeva")})),
			want: "[FindRecordsByPatronymic] Response (2 records):\n" +
				"#1 id=\"14\", name=\"Alina\", surname=\"Zhukova\", patronymic=\"Sergeevna\", number=\"+7\", note=\"PR manager\"\n" +
				"#2 id=\"13\", name=\"Anna\", surname=\"Lebedeva\", patronymic=\"Sergeevna\", number=\"+7\", note=\"PR manager\"\n",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := Write(&buf, tt.v, "text", false); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Fatalf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestWrite_JSONAndEDN(t *testing.T) {
	t.Parallel()

	v := NewFindResponse("FindRecordByNumber", model.One(rec(18446744073709551615, "Anna", "Lebedeva")))

	var js bytes.Buffer
	if err := Write(&js, v, "json", false); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(js.String(), `"id":18446744073709551615`) || !strings.Contains(js.String(), `"kind":"single"`) {
		t.Fatalf("unexpected json: %s", js.String())
	}

	var edn bytes.Buffer
	if err := Write(&edn, v, "edn", false); err != nil {
		t.Fatalf("edn: %v", err)
	}
	got := edn.String()
	if !strings.HasPrefix(got, `{:kind "single" :op "FindRecordByNumber" :records [{:id 18446744073709551615 `) {
		t.Fatalf("unexpected edn: %s", got)
	}

	var empty bytes.Buffer
	if err := Write(&empty, NewFindResponse("FindRecordsByNote", model.Absent()), "edn", true); err != nil {
		t.Fatalf("edn pretty: %v", err)
	}
	want := "{\n  :kind \"absent\"\n  :op \"FindRecordsByNote\"\n  :records []\n}\n"
	if empty.String() != want {
		t.Fatalf("got:\n%q\nwant:\n%q", empty.String(), want)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()
	if err := Write(&bytes.Buffer{}, CodeResponse{}, "yaml", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestWrite_TextFallsBackToJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := Write(&buf, map[string]string{"address": "localhost:50051"}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.String() != "{\"address\":\"localhost:50051\"}\n" {
		t.Fatalf("unexpected: %q", buf.String())
	}
}
