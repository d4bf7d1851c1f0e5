package openapi

import (
	"context"
	"errors"
	"testing"
)

const petstore = `{
  "openapi": "3.0.3",
  "info": {"title": "Petstore", "version": "1.0.0"},
  "servers": [{"url": "https://petstore.example.com/v1"}],
  "paths": {
    "/pets/{petId}": {
      "parameters": [{"name": "petId", "in": "path", "required": true, "schema": {"type": "string"}}],
      "get": {"operationId": "getPet", "summary": " Get a pet "},
      "delete": {"operationId": "deletePet"}
    },
    "/pets": {
      "get": {
        "operationId": "listPets",
        "parameters": [
          {"name": "limit", "in": "query", "schema": {"type": "integer"}},
          {"name": "session", "in": "cookie", "schema": {"type": "string"}}
        ]
      },
      "post": {"operationId": "createPet"}
    }
  }
}`

func TestParse(t *testing.T) {
	doc, err := Parse(context.Background(), []byte(petstore))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Title != "Petstore" || doc.Version != "1.0.0" {
		t.Errorf("info = %q %q", doc.Title, doc.Version)
	}
	if len(doc.Servers) != 1 || doc.Servers[0] != "https://petstore.example.com/v1" {
		t.Errorf("servers = %v", doc.Servers)
	}

	want := []struct{ method, path string }{
		{"GET", "/pets"},
		{"POST", "/pets"},
		{"DELETE", "/pets/{petId}"},
		{"GET", "/pets/{petId}"},
	}
	if len(doc.Operations) != len(want) {
		t.Fatalf("got %d operations, want %d", len(doc.Operations), len(want))
	}
	for i, w := range want {
		op := doc.Operations[i]
		if op.Method != w.method || op.URLTemplate != w.path {
			t.Errorf("op[%d] = %s %s, want %s %s", i, op.Method, op.URLTemplate, w.method, w.path)
		}
	}
}

func TestParse_Params(t *testing.T) {
	doc, err := Parse(context.Background(), []byte(petstore))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	list, ok := doc.Find("listPets")
	if !ok {
		t.Fatal("listPets not found")
	}
	if len(list.Params) != 1 {
		t.Fatalf("cookie params must be dropped, got %+v", list.Params)
	}
	if p := list.Params[0]; p.Name != "limit" || p.In != ParamInQuery || p.Type != "integer" {
		t.Errorf("param = %+v", p)
	}

	get, _ := doc.Find("getPet")
	if get.Summary != "Get a pet" {
		t.Errorf("summary = %q", get.Summary)
	}
	if len(get.Params) != 1 || get.Params[0].In != ParamInPath || !get.Params[0].Required {
		t.Errorf("path-level params not inherited: %+v", get.Params)
	}

	if _, ok := doc.Find("nope"); ok {
		t.Error("unexpected operation")
	}
}

func TestParse_YAML(t *testing.T) {
	src := "openapi: 3.1.0\ninfo:\n  title: Tiny\n  version: '2'\npaths:\n  /ping:\n    get:\n      operationId: ping\n"
	doc, err := Parse(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Operations) != 1 || doc.Operations[0].URLTemplate != "/ping" {
		t.Errorf("operations = %+v", doc.Operations)
	}
}

func TestParse_Swagger2Unsupported(t *testing.T) {
	_, err := Parse(context.Background(), []byte(`{"swagger": "2.0", "info": {"title": "x", "version": "1"}, "paths": {}}`))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestParse_Garbage(t *testing.T) {
	if _, err := Parse(context.Background(), []byte("{not json")); err == nil {
		t.Error("expected error")
	}
}

func TestExtractOperations_Nil(t *testing.T) {
	if ops := ExtractOperations(nil); ops == nil || len(ops) != 0 {
		t.Errorf("got %#v, want empty", ops)
	}
}
