package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/campusbites/canteenhub/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

type bindErrorResponse struct {
	Error  string                `json:"error"`
	Fields []handlers.FieldError `json:"fields"`
}

func bindTestRouter() *gin.Engine {
	r := gin.New()
	r.POST("/signup", func(ctx *gin.Context) {
		var req handlers.SignUpRequest
		if !handlers.BindJSON(ctx, &req) {
			return
		}
		ctx.Status(http.StatusOK)
	})

	return r
}

func TestBindJSONMissingFields(t *testing.T) {
	r := bindTestRouter()

	w := doJSON(t, r, http.MethodPost, "/signup", `{"email":"a@b.com"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
	}

	var resp bindErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v body=%s", err, w.Body.String())
	}

	if resp.Error != "All fields are required" {
		t.Fatalf("got error %q, want the blunt required-fields message", resp.Error)
	}

	found := map[string]string{}
	for _, fe := range resp.Fields {
		found[fe.Field] = fe.Rule
	}

	for _, field := range []string{"full_name", "password"} {
		if found[field] != "required" {
			t.Fatalf("missing required-field detail for %q: %+v", field, resp.Fields)
		}
	}
}

func TestBindJSONBadSyntax(t *testing.T) {
	r := bindTestRouter()

	w := doJSON(t, r, http.MethodPost, "/signup", `{"email":`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}

	var resp bindErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if resp.Error != "Invalid JSON" {
		t.Fatalf("got error %q, want %q", resp.Error, "Invalid JSON")
	}
}

func TestBindJSONTypeMismatch(t *testing.T) {
	r := bindTestRouter()

	w := doJSON(t, r, http.MethodPost, "/signup", `{"full_name":12,"email":"a@b.com","password":"pw12345"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}

	var resp bindErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(resp.Fields) != 1 || resp.Fields[0].Rule != "type" {
		t.Fatalf("expected a single type error, got %+v", resp.Fields)
	}
}

func TestBindJSONInvalidEmail(t *testing.T) {
	r := bindTestRouter()

	w := doJSON(t, r, http.MethodPost, "/signup", `{"full_name":"A B","email":"not-an-email","password":"pw12345"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}

	var resp bindErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if resp.Error == "All fields are required" {
		t.Fatalf("format violation should not use the required-fields message")
	}
}
