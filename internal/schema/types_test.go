package schema

import (
	"encoding/json"
	"testing"
)

func TestTablePrimaryKeyOrder(t *testing.T) {
	table := &Table{
		Name: "line_items",
		Columns: []Column{
			{Ordinal: 0, Name: "qty", PrimaryKey: 0},
			{Ordinal: 1, Name: "item_id", PrimaryKey: 2},
			{Ordinal: 2, Name: "invoice_id", PrimaryKey: 1},
		},
	}

	pk := table.PrimaryKey()
	if len(pk) != 2 || pk[0] != "invoice_id" || pk[1] != "item_id" {
		t.Errorf("PrimaryKey() = %v, want [invoice_id item_id]", pk)
	}
	if !table.Columns[1].IsPrimaryKey() || table.Columns[0].IsPrimaryKey() {
		t.Error("IsPrimaryKey() does not follow the nonzero rule")
	}
}

func TestIntrospected(t *testing.T) {
	if (&Table{Name: "t"}).Introspected() {
		t.Error("bare table reported as introspected")
	}
	if !(&Table{Name: "t", Columns: []Column{}}).Introspected() {
		t.Error("table with empty columns should count as introspected")
	}
}

func TestDocumentWireShape(t *testing.T) {
	def := "0"
	doc := Document{
		{
			Table: "accounts",
			ColData: []ColumnDocument{
				{ColumnName: "id", DataType: "INTEGER", NotNull: 0, PrimaryKey: 1},
				{ColumnName: "balance", DataType: "NUMERIC", DefaultColumnData: &def, NotNull: 1},
			},
		},
	}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `[{"table":"accounts","col_data":[` +
		`{"column_name":"id","data_type":"INTEGER","default_column_data":null,"not_null":0,"primary_key":1},` +
		`{"column_name":"balance","data_type":"NUMERIC","default_column_data":"0","not_null":1,"primary_key":0}]}]`
	if string(data) != want {
		t.Errorf("wire shape mismatch\n got: %s\nwant: %s", data, want)
	}
}

func TestDocumentLookup(t *testing.T) {
	doc := Document{{Table: "a"}, {Table: "b"}}

	names := doc.TableNames()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("TableNames() = %v", names)
	}
	if doc.Find("b") == nil || doc.Find("c") != nil {
		t.Error("Find() returned the wrong entry")
	}
}
