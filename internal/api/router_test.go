package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/Veraticus/plata/internal/assistant"
	"github.com/Veraticus/plata/internal/common"
	"github.com/Veraticus/plata/internal/model"
	"github.com/Veraticus/plata/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	user          model.User
	messageID     string
	text          string
	audio         []byte
	mimeType      string
	correlationID string
}

type fakeAssistant struct {
	replies []assistant.Reply
	reply   assistant.Reply
	err     error
	calls   []call
}

func (f *fakeAssistant) HandleText(_ context.Context, user model.User, messageID, text string) ([]assistant.Reply, error) {
	f.calls = append(f.calls, call{user: user, messageID: messageID, text: text})
	return f.replies, f.err
}

func (f *fakeAssistant) HandleAudio(_ context.Context, user model.User, messageID string, audio []byte, mimeType string) ([]assistant.Reply, error) {
	f.calls = append(f.calls, call{user: user, messageID: messageID, audio: audio, mimeType: mimeType})
	return f.replies, f.err
}

func (f *fakeAssistant) Confirm(_ context.Context, user model.User, correlationID string) (assistant.Reply, error) {
	f.calls = append(f.calls, call{user: user, correlationID: correlationID, text: "confirm"})
	return f.reply, f.err
}

func (f *fakeAssistant) Cancel(_ context.Context, user model.User, correlationID string) (assistant.Reply, error) {
	f.calls = append(f.calls, call{user: user, correlationID: correlationID, text: "cancel"})
	return f.reply, f.err
}

func newTestServer(t *testing.T, a Assistant, cfg Config) *httptest.Server {
	t.Helper()
	cfg.Logger = testutil.DiscardLogger()
	server := httptest.NewServer(NewRouter(a, cfg))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any, header http.Header) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

var telegramUser = UserPayload{ID: "u-1", Platform: "telegram", TelegramID: "123456", SpreadsheetID: "sheet-1"}

func TestHealth(t *testing.T) {
	server := newTestServer(t, &fakeAssistant{}, Config{})

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("plata_results_total 1\n"))
	})
	server := newTestServer(t, &fakeAssistant{}, Config{Metrics: metrics})

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	bare := newTestServer(t, &fakeAssistant{}, Config{})
	resp2, err := http.Get(bare.URL + "/metrics")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestPostMessage(t *testing.T) {
	fake := &fakeAssistant{replies: []assistant.Reply{{
		Text:          "<b>Gasto</b>",
		CorrelationID: "42:0",
		Buttons:       []assistant.Button{{Label: "✅ Confirmar", Data: "confirm:42:0"}},
	}}}
	server := newTestServer(t, fake, Config{})

	resp := postJSON(t, server.URL+"/v1/messages", MessageRequest{User: telegramUser, MessageID: "42", Text: "gasté 500"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body RepliesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, fake.replies, body.Replies)

	require.Len(t, fake.calls, 1)
	assert.Equal(t, "42", fake.calls[0].messageID)
	assert.Equal(t, "gasté 500", fake.calls[0].text)
	assert.Equal(t, model.PlatformTelegram, fake.calls[0].user.Platform)
	assert.Equal(t, "sheet-1", fake.calls[0].user.SpreadsheetID)
}

func TestPostMessageErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   any
		err    error
		status int
	}{
		{"missing user", MessageRequest{Text: "hola"}, nil, http.StatusBadRequest},
		{"empty text", MessageRequest{User: telegramUser}, assistant.ErrEmptyMessage, http.StatusBadRequest},
		{"not json", "gasté 500", nil, http.StatusBadRequest},
		{"unexpected failure", MessageRequest{User: telegramUser, Text: "hola"}, errors.New("boom"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, &fakeAssistant{err: tt.err}, Config{})

			resp := postJSON(t, server.URL+"/v1/messages", tt.body, nil)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestJSONBodyLimit(t *testing.T) {
	oversized, err := json.Marshal(MessageRequest{
		User: telegramUser,
		Text: strings.Repeat("gasté 500 en comida ", maxJSONBytes/10),
	})
	require.NoError(t, err)
	require.Greater(t, len(oversized), maxJSONBytes)

	for _, path := range []string{"/v1/messages", "/v1/pending/42:0/confirm", "/v1/pending/42:0/cancel"} {
		t.Run(path, func(t *testing.T) {
			fake := &fakeAssistant{}
			router := NewRouter(fake, Config{Logger: testutil.DiscardLogger()})

			req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(oversized))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
			assert.Contains(t, rec.Body.String(), "request body too large")
			assert.Empty(t, fake.calls, "oversized bodies never reach the assistant")
		})
	}
}

func TestPostAudio(t *testing.T) {
	fake := &fakeAssistant{replies: []assistant.Reply{{Text: "ok"}}}
	server := newTestServer(t, fake, Config{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	userJSON, err := json.Marshal(telegramUser)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("user", string(userJSON)))
	require.NoError(t, mw.WriteField("message_id", "77"))

	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", `form-data; name="audio"; filename="voice.ogg"`)
	partHeader.Set("Content-Type", "audio/ogg; codecs=opus")
	part, err := mw.CreatePart(partHeader)
	require.NoError(t, err)
	_, err = part.Write([]byte("OggS"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(server.URL+"/v1/audio", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, fake.calls, 1)
	assert.Equal(t, "77", fake.calls[0].messageID)
	assert.Equal(t, []byte("OggS"), fake.calls[0].audio)
	assert.Equal(t, "audio/ogg; codecs=opus", fake.calls[0].mimeType)
	assert.Equal(t, "u-1", fake.calls[0].user.ID)
}

func TestPostAudioRequiresFile(t *testing.T) {
	server := newTestServer(t, &fakeAssistant{}, Config{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("user", `{"id":"u-1"}`))
	require.NoError(t, mw.Close())

	resp, err := http.Post(server.URL+"/v1/audio", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResolvePending(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		err    error
		status int
		action string
	}{
		{"confirm", "/v1/pending/42:0/confirm", nil, http.StatusOK, "confirm"},
		{"cancel", "/v1/pending/42:0/cancel", nil, http.StatusOK, "cancel"},
		{"expired", "/v1/pending/42:0/confirm", assistant.ErrPendingNotFound, http.StatusNotFound, "confirm"},
		{"no spreadsheet", "/v1/pending/42:0/confirm", common.ErrMissingConfig, http.StatusConflict, "confirm"},
		{"sheets down", "/v1/pending/42:0/confirm", errors.New("sheets unavailable"), http.StatusBadGateway, "confirm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAssistant{reply: assistant.Reply{Text: "listo"}, err: tt.err}
			server := newTestServer(t, fake, Config{})

			resp := postJSON(t, server.URL+tt.path, PendingRequest{User: telegramUser}, nil)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body ReplyResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, "listo", body.Reply.Text)
			assert.Equal(t, tt.err != nil, body.Error != "")

			require.Len(t, fake.calls, 1)
			assert.Equal(t, "42:0", fake.calls[0].correlationID)
			assert.Equal(t, tt.action, fake.calls[0].text)
		})
	}
}

func TestBearerAuth(t *testing.T) {
	fake := &fakeAssistant{replies: []assistant.Reply{{Text: "hola"}}}
	server := newTestServer(t, fake, Config{Token: "s3cret"})
	body := MessageRequest{User: telegramUser, Text: "hola"}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "Bearer nope", http.StatusUnauthorized},
		{"wrong scheme", "Basic s3cret", http.StatusUnauthorized},
		{"valid", "Bearer s3cret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.header != "" {
				header.Set("Authorization", tt.header)
			}
			resp := postJSON(t, server.URL+"/v1/messages", body, header)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "health stays public")
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain"))
}
