package itemservice

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ananyateklu/second-brain-sub004/client"
	"github.com/ananyateklu/second-brain-sub004/internal/config"
	"github.com/ananyateklu/second-brain-sub004/model"
)

func TestRun_ServesAndShutsDown(t *testing.T) {
	cfg := config.NewServiceForTesting(filepath.Join(t.TempDir(), "items.db"))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg, WithListener(ln), WithLogger(zerolog.Nop())) }()

	c, err := client.NewWithDevMode("http://" + ln.Addr().String())
	require.NoError(t, err)
	defer c.Close()

	var created *model.Item
	require.Eventually(t, func() bool {
		created, err = c.CreateItem(context.Background(), model.Draft{Title: "first"})
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)
	assert.Equal(t, "first", created.Title)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewStore_UnknownDriver(t *testing.T) {
	cfg := config.NewServiceForTesting("")
	cfg.DBDriver = "oracle"
	_, err := NewStore(context.Background(), cfg)
	assert.Error(t, err)
}
