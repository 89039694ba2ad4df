package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarppi/termgloss/internal/common"
	"github.com/mkarppi/termgloss/internal/surface"
	"github.com/mkarppi/termgloss/internal/surface/surfacetest"
)

const appDict = `{
	"settings": {"caseSensitive": false},
	"terms": [{"word": "latency", "definition": "Time to first byte."}]
}`

func newService(t *testing.T) (*Service, *surfacetest.Host) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(appDict))
	}))
	t.Cleanup(srv.Close)

	cfg := common.NewDefaultConfig()
	cfg.Dictionary.BaseURL = srv.URL + "/"
	cfg.Binder.Passes = 1

	host := surfacetest.NewHost(surface.Viewport{Width: 100, Height: 40})

	svc, err := New(cfg, host, nil)
	require.NoError(t, err)
	return svc, host
}

func TestServiceBindsAndShowsTooltip(t *testing.T) {
	svc, host := newService(t)
	m := surfacetest.NewMarker("latency")
	m.Rect = surface.Rect{X: 4, Y: 4, W: 7, H: 1}
	host.AddMarker(m)

	svc.Start(context.Background())
	defer svc.Stop()

	// The initial pass runs synchronously inside Start.
	require.Equal(t, 1, m.HandlerCount(surface.EventEnter))

	m.Fire(surface.EventEnter)
	assert.True(t, svc.Controller().Visible())
	assert.Equal(t, "Time to first byte.", host.Tip.Content.Definition)

	host.PressEscape()
	assert.False(t, svc.Controller().Visible())
}

func TestServiceNotifyBindsLateMarkers(t *testing.T) {
	svc, host := newService(t)
	svc.Start(context.Background())
	defer svc.Stop()

	late := surfacetest.NewMarker("latency")
	host.AddMarker(late)
	require.Equal(t, 0, late.HandlerCount(surface.EventEnter))

	svc.Notify()
	assert.Equal(t, 1, late.HandlerCount(surface.EventEnter))
}

func TestServiceStopHidesTooltip(t *testing.T) {
	svc, host := newService(t)
	m := surfacetest.NewMarker("latency")
	host.AddMarker(m)

	svc.Start(context.Background())
	m.Fire(surface.EventEnter)
	require.True(t, svc.Controller().Visible())

	svc.Stop()
	assert.False(t, svc.Controller().Visible())
	assert.False(t, host.Tip.Visible)
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Dictionary.BaseURL = "http://[::1"

	_, err := New(cfg, surfacetest.NewHost(surface.Viewport{}), nil)
	assert.Error(t, err)
}
