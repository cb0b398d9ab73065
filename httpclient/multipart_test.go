package httpclient

import (
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type decodedPart struct {
	fileName    string
	contentType string
	data        string
}

func decodeMultipart(t *testing.T, r io.Reader, contentType string) map[string]decodedPart {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("ParseMediaType: %v", err)
	}
	if mediaType != "multipart/form-data" {
		t.Fatalf("media type = %q", mediaType)
	}
	parts := map[string]decodedPart{}
	mr := multipart.NewReader(r, params["boundary"])
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			return parts
		}
		if err != nil {
			t.Fatalf("NextPart: %v", err)
		}
		data, _ := io.ReadAll(p)
		parts[p.FormName()] = decodedPart{p.FileName(), p.Header.Get("Content-Type"), string(data)}
	}
}

func TestMultipartBody_Encode(t *testing.T) {
	tests := []struct {
		name     string
		body     *MultipartBody
		wantFile decodedPart
	}{
		{
			name: "data with content type",
			body: &MultipartBody{
				Fields: map[string]string{"task": "transcribe", "language": "ru"},
				Files:  []FileField{{FieldName: "file", FileName: "voice.ogg", ContentType: "audio/ogg", Data: []byte("OggS")}},
			},
			wantFile: decodedPart{"voice.ogg", "audio/ogg", "OggS"},
		},
		{
			name: "reader defaults to octet-stream",
			body: &MultipartBody{
				Fields: map[string]string{"task": "transcribe", "language": "ru"},
				Files:  []FileField{{FieldName: "file", FileName: `we"ird.ogg`, Reader: strings.NewReader("streamed")}},
			},
			wantFile: decodedPart{`we"ird.ogg`, "application/octet-stream", "streamed"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, ct, err := tc.body.encode()
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			parts := decodeMultipart(t, r, ct)
			if parts["task"].data != "transcribe" || parts["language"].data != "ru" {
				t.Errorf("fields = %+v", parts)
			}
			if got := parts["file"]; got != tc.wantFile {
				t.Errorf("file part = %+v, want %+v", got, tc.wantFile)
			}
		})
	}
}

func TestClient_Do_MultipartOverridesJSONContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		if got := r.FormValue("task"); got != "transcribe" {
			t.Errorf("task = %q", got)
		}
		f, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if header.Filename != "voice.ogg" || string(data) != "audio bytes" {
			t.Errorf("file = %q %q", header.Filename, data)
		}
		_, _ = w.Write([]byte(`{"text":"привет"}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, Headers: map[string]string{"Content-Type": "application/json"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	resp, err := c.Do(t.Context(), Request{
		Method: http.MethodPost,
		Path:   "/transcribe",
		Body: &MultipartBody{
			Fields: map[string]string{"task": "transcribe"},
			Files:  []FileField{{FieldName: "file", FileName: "voice.ogg", Data: []byte("audio bytes")}},
		},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if string(resp.Body) != `{"text":"привет"}` {
		t.Errorf("body = %q", resp.Body)
	}
}
