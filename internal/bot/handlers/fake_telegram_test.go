package handlers_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-telegram/bot"
)

const testToken = "123456:test-token"

// apiCall is one Bot API request received by fakeTelegram.
type apiCall struct {
	Method   string
	Fields   map[string]string
	FileName string
	FileData string
}

// fakeTelegram serves the subset of the Bot API the handlers use.
type fakeTelegram struct {
	t      *testing.T
	server *httptest.Server

	mu    sync.Mutex
	calls []apiCall
	files map[string]string
}

func newFakeTelegram(t *testing.T) (*fakeTelegram, *bot.Bot) {
	t.Helper()

	f := &fakeTelegram{t: t, files: make(map[string]string)}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)

	b, err := bot.New(testToken, bot.WithServerURL(f.server.URL), bot.WithSkipGetMe())
	if err != nil {
		t.Fatalf("bot.New() error = %v", err)
	}
	return f, b
}

func (f *fakeTelegram) addFile(fileID, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[fileID] = content
}

func (f *fakeTelegram) serve(w http.ResponseWriter, r *http.Request) {
	if rest, ok := strings.CutPrefix(r.URL.Path, "/file/bot"+testToken+"/documents/"); ok {
		f.mu.Lock()
		content, found := f.files[rest]
		f.mu.Unlock()
		if !found {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, content)
		return
	}

	method := strings.TrimPrefix(r.URL.Path, "/bot"+testToken+"/")
	call := apiCall{Method: method, Fields: make(map[string]string)}

	if err := r.ParseMultipartForm(32 << 20); err == nil && r.MultipartForm != nil {
		for k, v := range r.MultipartForm.Value {
			call.Fields[k] = v[0]
		}
		if files := r.MultipartForm.File["document"]; len(files) > 0 {
			call.FileName = files[0].Filename
			if fh, err := files[0].Open(); err == nil {
				data, _ := io.ReadAll(fh)
				_ = fh.Close()
				call.FileData = string(data)
			}
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch method {
	case "getFile":
		fileID := call.Fields["file_id"]
		fmt.Fprintf(w, `{"ok":true,"result":{"file_id":%q,"file_unique_id":"u","file_path":"documents/%s"}}`, fileID, fileID)
	case "sendMessage", "sendDocument":
		fmt.Fprint(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`)
	default:
		fmt.Fprint(w, `{"ok":true,"result":true}`)
	}
}

// callsTo returns the recorded calls of one Bot API method.
func (f *fakeTelegram) callsTo(method string) []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []apiCall
	for _, c := range f.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// lastText returns the text of the most recent sendMessage call.
func (f *fakeTelegram) lastText() string {
	f.t.Helper()
	msgs := f.callsTo("sendMessage")
	if len(msgs) == 0 {
		f.t.Fatal("no message was sent")
	}
	return msgs[len(msgs)-1].Fields["text"]
}
