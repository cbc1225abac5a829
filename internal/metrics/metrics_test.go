package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.CommandCount.Observe(1, "hello", "discord")
	m.CommandCount.Observe(1, "hello", "discord")
	m.AnnouncedItems.Observe(3)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `albot_commands_total{command="hello",platform="discord"} 2`)
	assert.Contains(t, string(body), "albot_announced_items_total 3")
}
