package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	msg, err := Render(KindInvitation, "t@example.com", map[string]any{
		"LandlordName": "Ana",
		"PropertyName": "Str. Lunga 5",
		"StartDate":    "2024-05-01",
		"Link":         "https://app.example.com/invite?token=abc",
	})
	require.NoError(t, err)
	assert.Equal(t, "You are invited to rent Str. Lunga 5", msg.Subject)
	assert.Contains(t, msg.HTML, "Ana invited you")
	assert.Contains(t, msg.HTML, `href="https://app.example.com/invite?token=abc"`)

	_, err = Render(Kind("nope"), "x@example.com", nil)
	assert.Error(t, err)
}

func TestRenderEscapes(t *testing.T) {
	msg, err := Render(KindMaintenance, "x@example.com", map[string]any{
		"Title":  "<script>",
		"Status": "pending",
	})
	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, "<script>")
}

func TestAPIMailer(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewAPIMailer(srv.URL, "key", "Dashboardly <no-reply@example.com>")
	err := m.Send(context.Background(), &Message{To: "a@example.com", Subject: "Hi", HTML: "<p>x</p>"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com"}, got.To)
	assert.Equal(t, "Dashboardly <no-reply@example.com>", got.From)

	fail := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid from", http.StatusUnprocessableEntity)
	}))
	defer fail.Close()
	err = NewAPIMailer(fail.URL, "key", "bad").Send(context.Background(), &Message{To: "a@example.com"})
	assert.ErrorContains(t, err, "invalid from")
}
