//go:build !short

package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const spaPage = `<!doctype html><html><head><title>Loading</title></head>
<body><div id="root"></div>
<script>
setTimeout(function () {
	var root = document.getElementById("root");
	root.innerHTML = '<h1 class="job-title">Rendered Role</h1>' +
		'<div class="job-description"><h2>Responsibilities</h2><ul>' +
		'<li>' + 'Maintain rendering pipelines across many services and teams. '.repeat(12) + '</li>' +
		'</ul></div><div class="cookie-banner">We use cookies</div>';
}, 200);
</script></body></html>`

func TestRender_Integration(t *testing.T) {
	r := New(nil, nil)
	if _, err := r.ExecPath(); err != nil {
		t.Skip("Chrome/Chromium not installed")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(spaPage))
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.SettleDelay = 500 * time.Millisecond
	opts.NetworkIdleTimeout = 3 * time.Second
	r = New(opts, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := r.RenderWaiting(ctx, server.URL, []string{".job-description"})
	require.NoError(t, err)
	assert.Equal(t, "Rendered Role", result.Fields.Title)
	assert.Contains(t, result.ExtractedText, "Maintain rendering pipelines")
	assert.NotContains(t, result.HTML, "We use cookies")
	assert.False(t, strings.Contains(result.HTML, "<script"))
}
