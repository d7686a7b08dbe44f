package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"ReviewTriage/internal/domain"
)

type botServer struct {
	mu    sync.Mutex
	calls []string
	forms []map[string]string
}

func (b *botServer) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

		b.mu.Lock()
		b.calls = append(b.calls, method)
		form := map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		b.forms = append(b.forms, form)
		b.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch method {
		case "getMe":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":7,"is_bot":true,"first_name":"triage","username":"triage_bot"}}`))
		case "sendMessage", "editMessageText":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":42,"date":0,"chat":{"id":-100,"type":"group"},"text":"ok"}}`))
		default:
			_, _ = w.Write([]byte(`{"ok":false,"error_code":404,"description":"Not Found"}`))
		}
	}
}

func TestNotifierPostAndEdit(t *testing.T) {
	t.Parallel()

	bs := &botServer{}
	server := httptest.NewServer(bs.handler(t))
	defer server.Close()

	n, err := NewNotifier("token", "-100", server.URL+"/bot%s/%s")
	if err != nil {
		t.Fatalf("NewNotifier: %v", err)
	}

	id, err := n.Post(context.Background(), domain.Message{Body: "Fetching reviews"})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if id != "42" {
		t.Fatalf("unexpected message id %s", id)
	}

	id, err = n.Post(context.Background(), domain.Message{Body: "No reviews found", ReplaceID: "42"})
	if err != nil {
		t.Fatalf("Post edit: %v", err)
	}
	if id != "42" {
		t.Fatalf("unexpected edited id %s", id)
	}

	bs.mu.Lock()
	defer bs.mu.Unlock()
	want := []string{"getMe", "sendMessage", "editMessageText"}
	if strings.Join(bs.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected calls %v", bs.calls)
	}
	if bs.forms[1]["chat_id"] != "-100" || bs.forms[1]["text"] != "Fetching reviews" {
		t.Fatalf("unexpected send form %v", bs.forms[1])
	}
	if bs.forms[2]["message_id"] != "42" || bs.forms[2]["text"] != "No reviews found" {
		t.Fatalf("unexpected edit form %v", bs.forms[2])
	}
}

func TestNewNotifierValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewNotifier("", "1", ""); err == nil {
		t.Fatalf("expected error without token")
	}
	if _, err := NewNotifier("token", "general", ""); err == nil {
		t.Fatalf("expected error for non-numeric chat id")
	}
}

func TestNotifierRejectsForeignReplaceID(t *testing.T) {
	t.Parallel()

	bs := &botServer{}
	server := httptest.NewServer(bs.handler(t))
	defer server.Close()

	n, err := NewNotifier("token", "1", server.URL+"/bot%s/%s")
	if err != nil {
		t.Fatalf("NewNotifier: %v", err)
	}
	if _, err := n.Post(context.Background(), domain.Message{Body: "x", ReplaceID: "don:timeline/1"}); err == nil {
		t.Fatalf("expected error for non-numeric replace id")
	}
}
