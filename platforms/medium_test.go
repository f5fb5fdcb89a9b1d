package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func newTestMedium(t *testing.T, handler http.Handler) *Medium {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewMedium(Config{Token: "test-token", BaseURL: server.URL, Logger: log})
}

func TestMe(t *testing.T) {
	m := newTestMedium(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/v1/me" {
			t.Errorf("path = %s, want /v1/me", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Mozilla") {
			t.Errorf("User-Agent = %q, want a browser-like agent", ua)
		}
		fmt.Fprint(w, `{"data":{"id":"1f86x","username":"sam","name":"Sam","url":"https://medium.com/@sam"}}`)
	}))

	user, err := m.Me(context.Background())
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if user.ID != "1f86x" {
		t.Errorf("ID = %q, want %q", user.ID, "1f86x")
	}
	if user.Username != "sam" {
		t.Errorf("Username = %q, want %q", user.Username, "sam")
	}
}

func TestMeUnauthorized(t *testing.T) {
	m := newTestMedium(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	if _, err := m.Me(context.Background()); err == nil {
		t.Fatal("expected an error for a 401 response")
	} else if !strings.Contains(err.Error(), "401") {
		t.Errorf("err = %v, want the status code in the message", err)
	}
}

func TestUploadImage(t *testing.T) {
	m := newTestMedium(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images" {
			t.Errorf("path = %s, want /v1/images", r.URL.Path)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("no multipart field named image: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Filename != "img.png" {
			t.Errorf("filename = %q, want %q", header.Filename, "img.png")
		}
		if ct := header.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("part Content-Type = %q, want %q", ct, "image/png")
		}
		data, err := io.ReadAll(file)
		if err != nil {
			t.Errorf("read part: %v", err)
		}
		if string(data) != "fake-png-bytes" {
			t.Errorf("part body = %q", data)
		}

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"data":{"url":"https://cdn-images-1.medium.com/max/img.png","md5":"abc"}}`)
	}))

	url, err := m.UploadImage(context.Background(), "img.png", []byte("fake-png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if url != "https://cdn-images-1.medium.com/max/img.png" {
		t.Errorf("url = %q", url)
	}
}

func TestUploadImageRejected(t *testing.T) {
	m := newTestMedium(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"errors":[{"message":"Invalid image","code":400}]}`)
	}))

	_, err := m.UploadImage(context.Background(), "img.png", []byte("x"), "image/png")
	if err == nil {
		t.Fatal("expected an error for a 400 response")
	}
	if !strings.Contains(err.Error(), "unexpected status 400") {
		t.Errorf("err = %v, want the status code in the message", err)
	}
}

func TestCreatePost(t *testing.T) {
	want := Post{
		Title:         "Hello",
		Tags:          []string{"Foo Bar"},
		PublishStatus: PostStatusDraft,
		Content:       "# Hello\n\nText",
		ContentFormat: ContentFormatMarkdown,
	}

	m := newTestMedium(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/users/1f86x/posts" {
			t.Errorf("path = %s, want /v1/users/1f86x/posts", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		var got Post
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("payload = %+v, want %+v", got, want)
		}

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"data":{"id":"p1","url":"https://medium.com/@sam/hello-p1","publishStatus":"draft"}}`)
	}))

	result, err := m.CreatePost(context.Background(), "1f86x", want)
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if result.URL != "https://medium.com/@sam/hello-p1" {
		t.Errorf("URL = %q", result.URL)
	}
	if result.PublishStatus != PostStatusDraft {
		t.Errorf("PublishStatus = %q", result.PublishStatus)
	}
}

func TestCreatePostServerError(t *testing.T) {
	m := newTestMedium(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := m.CreatePost(context.Background(), "1f86x", Post{Title: "T"})
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}
	if !strings.Contains(err.Error(), "unexpected status 500") {
		t.Errorf("err = %v, want the status code in the message", err)
	}
}

func TestValidPostStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"public", true},
		{"unlisted", true},
		{"draft", true},
		{"", false},
		{"published", false},
		{"Draft", false},
	}

	for _, tt := range tests {
		if got := ValidPostStatus(tt.status); got != tt.want {
			t.Errorf("ValidPostStatus(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
