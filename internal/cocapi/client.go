package cocapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/EgorLis/Clashwatcher/internal/roster"
)

// DefaultBaseURL — продакшен-адрес Clash of Clans API.
const DefaultBaseURL = "https://api.clashofclans.com/v1"

// Client — клиент членского эндпоинта CoC API. Держит bearer-токен и
// нормализованный тег клана; потокобезопасен.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	clanTag string
	log     *zap.Logger

	mu       sync.Mutex
	etag     string        // для If-None-Match
	lastSeen roster.Roster // последний разобранный снимок (отдаём на 304)
}

// New создаёт клиент. baseURL можно переопределить (тесты), пустая строка
// означает DefaultBaseURL. Тег клана нормализуется: ведущий '#' убирается.
func New(token, clanTag, baseURL string, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		clanTag: NormalizeTag(clanTag),
		log:     log,
	}
}

// NormalizeTag убирает ведущий '#', если он есть.
func NormalizeTag(tag string) string {
	return strings.TrimPrefix(tag, "#")
}

// ClanTag — нормализованный тег клана (без '#').
func (c *Client) ClanTag() string { return c.clanTag }

type membersResponse struct {
	Items []struct {
		Tag  string `json:"tag"`
		Name string `json:"name"`
	} `json:"items"`
}

// Fetch запрашивает текущий состав клана. Возвращает (снимок, статус, nil)
// при успехе, (nil, статус, err) при не-2xx и (nil, 0, err) при сетевой
// ошибке или битом JSON. Ретраев внутри нет, это дело вызывающего.
// Использует ETag для экономии: на 304 отдаёт прошлый снимок как успех.
func (c *Client) Fetch(ctx context.Context) (roster.Roster, int, error) {
	u := fmt.Sprintf("%s/clans/%%23%s/members", c.baseURL, url.PathEscape(c.clanTag))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	c.mu.Lock()
	if c.etag != "" {
		req.Header.Set("If-None-Match", c.etag)
	}
	c.mu.Unlock()

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("coc api request failed", zap.Error(err))
		return nil, 0, err
	}
	defer resp.Body.Close()

	// 304 — состав не менялся, отдаём прошлый снимок
	if resp.StatusCode == http.StatusNotModified {
		c.mu.Lock()
		prev := roster.Clone(c.lastSeen)
		c.mu.Unlock()
		return prev, resp.StatusCode, nil
	}

	if resp.StatusCode/100 != 2 {
		c.log.Warn("coc api non-2xx",
			zap.Int("status", resp.StatusCode), zap.String("clan", c.clanTag))
		return nil, resp.StatusCode, fmt.Errorf("coc api status %d", resp.StatusCode)
	}

	var mr membersResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		c.log.Warn("coc api bad payload", zap.Error(err))
		return nil, 0, err
	}

	members := make(roster.Roster, len(mr.Items))
	for _, it := range mr.Items {
		if it.Tag == "" {
			continue // битую запись пропускаем, остальное разбираем
		}
		members[it.Tag] = it.Name
	}

	c.mu.Lock()
	if et := resp.Header.Get("ETag"); et != "" {
		c.etag = et
	}
	c.lastSeen = roster.Clone(members)
	c.mu.Unlock()

	return members, resp.StatusCode, nil
}
