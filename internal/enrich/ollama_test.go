package enrich

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaListModelsFiltersEmbedders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(ollamaTagsResponse{Models: []ollamaModel{
			{Name: "nomic-embed-text:latest", Size: 100},
			{Name: "llama3.2:3b", Size: 2000},
			{Name: "mxbai-embed-large:latest", Size: 500},
		}})
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "")
	models, err := client.ListModels()
	if err != nil {
		t.Fatalf("ListModels() error: %v", err)
	}
	if len(models) != 1 || models[0].Name != "llama3.2:3b" {
		t.Errorf("models = %v, want only llama3.2:3b", models)
	}
}

func TestOllamaPickModelPrefersKnown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaTagsResponse{Models: []ollamaModel{
			{Name: "mystery-model:7b"},
			{Name: "qwen2.5:3b"},
		}})
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "")
	model, err := client.PickModel()
	if err != nil {
		t.Fatalf("PickModel() error: %v", err)
	}
	if model != "qwen2.5:3b" {
		t.Errorf("PickModel() = %q, want preferred qwen2.5:3b", model)
	}
}

func TestOllamaPickModelNoneAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaTagsResponse{})
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "")
	model, err := client.PickModel()
	if err != nil {
		t.Fatalf("PickModel() error: %v", err)
	}
	if model != "" {
		t.Errorf("PickModel() = %q, want empty", model)
	}
}

func TestOllamaGenerateJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req ollamaGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Format != "json" {
			t.Errorf("format = %q, want json", req.Format)
		}
		if req.Stream {
			t.Error("stream should be false")
		}
		if req.Model != "llama3.2:3b" {
			t.Errorf("model = %q", req.Model)
		}
		json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: ` {"tags": ["ok"]} `})
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "llama3.2:3b")
	reply, err := client.GenerateJSON("prompt")
	if err != nil {
		t.Fatalf("GenerateJSON() error: %v", err)
	}
	if reply != `{"tags": ["ok"]}` {
		t.Errorf("reply = %q, want trimmed JSON", reply)
	}
}
