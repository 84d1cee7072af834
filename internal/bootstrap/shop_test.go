package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/chatshop-backend/pkg/config"
	"github.com/angelmondragon/chatshop-backend/pkg/db"
	"github.com/angelmondragon/chatshop-backend/pkg/logger"
	"github.com/angelmondragon/chatshop-backend/pkg/migrate"
	"github.com/angelmondragon/chatshop-backend/pkg/telegram"
)

type botAPIRecorder struct {
	mu    sync.Mutex
	calls map[string][]map[string]any
}

func (r *botAPIRecorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	method := req.URL.Path[strings.LastIndex(req.URL.Path, "/")+1:]
	body, _ := io.ReadAll(req.Body)
	payload := map[string]any{}
	_ = json.Unmarshal(body, &payload)

	r.mu.Lock()
	r.calls[method] = append(r.calls[method], payload)
	r.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":1,"chat":{"id":1}}}`)
}

func (r *botAPIRecorder) count(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls[method])
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = config.AppEnvDev
	cfg.DB.Driver = config.DriverSQLite
	cfg.DB.DSN = fmt.Sprintf("file:bootstrap_%s?mode=memory&cache=shared", uuid.NewString())
	cfg.Shop.AdminIDsRaw = "1, 2"
	cfg.Shop.CardNumber = "4111 1111 1111 1111"
	cfg.Shop.PageSize = 6
	cfg.Shop.DefaultAddress = "Main st. 1"
	cfg.Orders.IDDigits = 8
	cfg.Orders.NodeID = 1
	cfg.Orders.ListLimit = 20
	return cfg
}

func TestNewShopProcessesStartCommand(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbClient.Close() })
	require.NoError(t, migrate.MaybeRunDev(ctx, cfg, logg, dbClient))

	recorder := &botAPIRecorder{calls: map[string][]map[string]any{}}
	server := httptest.NewServer(recorder)
	t.Cleanup(server.Close)

	cfg.Telegram.Token = "123:abc"
	cfg.Telegram.APIBaseURL = server.URL
	tg, err := NewTelegramClient(cfg.Telegram)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	shop, err := NewShop(ShopParams{
		Config:     cfg,
		Logger:     logg,
		DB:         dbClient,
		Telegram:   tg,
		Registerer: reg,
	})
	require.NoError(t, err)
	require.True(t, shop.Admins.IsAdmin(2))

	update := telegram.Update{
		UpdateID: 1,
		Message: &telegram.Message{
			MessageID: 10,
			From:      &telegram.User{ID: 100, FirstName: "Ann"},
			Chat:      telegram.Chat{ID: 100},
			Text:      "/start",
			Entities:  []telegram.MessageSpan{{Type: "bot_command", Offset: 0, Length: 6}},
		},
	}
	require.NoError(t, shop.Processor.Process(ctx, update))
	require.Equal(t, 1, recorder.count("sendMessage"))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}

func TestNewShopRequiresDependencies(t *testing.T) {
	_, err := NewShop(ShopParams{})
	require.Error(t, err)

	cfg := testConfig()
	_, err = NewShop(ShopParams{Config: cfg, Logger: logger.New(logger.Options{ServiceName: "test"})})
	require.Error(t, err)
}
