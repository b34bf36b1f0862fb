package extract

import "testing"

func TestParseModelOutputEnvelope(t *testing.T) {
	text := `{"tables":[{"page":1,"rows":[["A","B"],["1","2"]]}]}`
	tables, ok := ParseModelOutput(text)
	if !ok {
		t.Fatal("expected decodable output")
	}
	if len(tables) != 1 || tables[0].Page != 1 || len(tables[0].Rows) != 2 {
		t.Fatalf("unexpected tables: %#v", tables)
	}
}

func TestParseModelOutputBareArray(t *testing.T) {
	tables, ok := ParseModelOutput(`[{"page":2,"rows":[["X"]]}]`)
	if !ok {
		t.Fatal("expected decodable output")
	}
	if len(tables) != 1 || tables[0].Page != 2 {
		t.Fatalf("unexpected tables: %#v", tables)
	}
}

func TestParseModelOutputCodeFences(t *testing.T) {
	text := "```json\n{\"tables\":[{\"page\":1,\"rows\":[[\"A\"]]}]}\n```"
	tables, ok := ParseModelOutput(text)
	if !ok {
		t.Fatal("expected decodable output inside fences")
	}
	if len(tables) != 1 {
		t.Fatalf("unexpected tables: %#v", tables)
	}
}

func TestParseModelOutputEmptyEnvelope(t *testing.T) {
	tables, ok := ParseModelOutput(`{"tables":[]}`)
	if !ok {
		t.Fatal("empty tables array is still decodable")
	}
	if len(tables) != 0 {
		t.Fatalf("unexpected tables: %#v", tables)
	}
}

func TestParseModelOutputGarbage(t *testing.T) {
	for _, text := range []string{"", "Sorry, I could not find any tables.", "{\"foo\":1}"} {
		if _, ok := ParseModelOutput(text); ok {
			t.Fatalf("ParseModelOutput(%q) should not decode", text)
		}
	}
}
