package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"lol-denylist/internal/config"
	"lol-denylist/internal/domain"

	"github.com/valyala/fasthttp"
)

// Client talks to the Riot API. It is the sole owner of network I/O and
// translates upstream responses into the core's canonical shapes. It never
// retries; retry policy belongs to the caller.
type Client struct {
	apiKey string
	region string

	// Full base URLs without trailing slash, e.g.
	// "https://na1.api.riotgames.com". Injectable for tests.
	platformBase  string
	continentBase string

	client *fasthttp.Client

	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

// RateLimitInfo mirrors the app-level rate-limit headers of the last
// response. Riot reports limits as "calls:window" pairs.
type RateLimitInfo struct {
	AppLimit   string    `json:"app_limit"`
	AppCount   string    `json:"app_count"`
	RetryAfter string    `json:"retry_after,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewClient(cfg *config.Config) *Client {
	region := NormalizeRegion(cfg.Region)
	return NewClientWithHosts(
		cfg.RiotAPIKey,
		region,
		fmt.Sprintf("https://%s.api.riotgames.com", Platform(region)),
		fmt.Sprintf("https://%s.api.riotgames.com", Continent(region)),
	)
}

// NewClientWithHosts builds a client against explicit base URLs. Tests point
// both at an httptest server.
func NewClientWithHosts(apiKey, region, platformBase, continentBase string) *Client {
	return &Client{
		apiKey:        apiKey,
		region:        NormalizeRegion(region),
		platformBase:  platformBase,
		continentBase: continentBase,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

func (c *Client) Region() string { return c.region }

func (c *Client) RateLimit() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *Client) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if limit := string(resp.Header.Peek("X-App-Rate-Limit")); limit != "" {
		c.rateLimit.AppLimit = limit
	}
	if count := string(resp.Header.Peek("X-App-Rate-Limit-Count")); count != "" {
		c.rateLimit.AppCount = count
	}
	c.rateLimit.RetryAfter = string(resp.Header.Peek("Retry-After"))
	c.rateLimit.UpdatedAt = time.Now()
}

// AccountByRiotID resolves a name+tag pair to an account via account-v1.
func (c *Client) AccountByRiotID(ctx context.Context, name, tag string) (*Account, error) {
	u := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.continentBase, url.PathEscape(name), url.PathEscape(tag))
	return doRequest[Account](ctx, c, "account by riot id", u)
}

// SummonerByPuuid fetches summoner detail via summoner-v4. This is the cheap
// single call used when the puuid is already known.
func (c *Client) SummonerByPuuid(ctx context.Context, puuid string) (*Summoner, error) {
	u := fmt.Sprintf("%s/lol/summoner/v4/summoners/by-puuid/%s",
		c.platformBase, url.PathEscape(puuid))
	return doRequest[Summoner](ctx, c, "summoner by puuid", u)
}

// MatchIDsByPuuid lists match ids most-recent-first via match-v5. An empty
// list is a valid result, not an error.
func (c *Client) MatchIDsByPuuid(ctx context.Context, puuid string, start, count int) ([]string, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?start=%d&count=%d",
		c.continentBase, url.PathEscape(puuid), start, count)
	ids, err := doRequest[[]string](ctx, c, "match ids by puuid", u)
	if err != nil {
		return nil, err
	}
	return *ids, nil
}

// MatchByID fetches and normalizes a finished match via match-v5.
func (c *Client) MatchByID(ctx context.Context, matchID string) (*domain.MatchDetail, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.continentBase, url.PathEscape(matchID))
	resp, err := doRequest[matchResponse](ctx, c, "match by id", u)
	if err != nil {
		return nil, err
	}

	detail := &domain.MatchDetail{
		MatchID:      resp.Metadata.MatchID,
		QueueID:      resp.Info.QueueID,
		GameMode:     resp.Info.GameMode,
		GameCreation: time.UnixMilli(resp.Info.GameCreation),
		GameDuration: time.Duration(resp.Info.GameDuration) * time.Second,
		Participants: normalizeParticipants(resp.Info.Participants),
	}
	if detail.MatchID == "" {
		detail.MatchID = matchID
	}
	return detail, nil
}

// ActiveGameByPuuid fetches the current game via spectator-v5. "Not in a
// game" is a well-known condition, returned as (nil, nil): the endpoint
// answers 404 for it, and 400 for some older accounts.
func (c *Client) ActiveGameByPuuid(ctx context.Context, puuid string) (*domain.LiveMatch, error) {
	u := fmt.Sprintf("%s/lol/spectator/v5/active-games/by-summoner/%s",
		c.platformBase, url.PathEscape(puuid))
	resp, err := doRequest[spectatorResponse](ctx, c, "active game by puuid", u)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		var ue *domain.UpstreamError
		if errors.As(err, &ue) && ue.Status == fasthttp.StatusBadRequest {
			return nil, nil
		}
		return nil, err
	}

	return &domain.LiveMatch{
		GameID:       resp.GameID,
		GameMode:     resp.GameMode,
		Participants: normalizeParticipants(resp.Participants),
	}, nil
}

func doRequest[T any](ctx context.Context, c *Client, op, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("X-Riot-Token", c.apiKey)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.Do(req, resp)
	}
	if err != nil {
		return nil, &domain.UpstreamError{Op: op, Err: err}
	}

	c.updateRateLimit(resp)

	switch resp.StatusCode() {
	case fasthttp.StatusOK:
	case fasthttp.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	default:
		return nil, &domain.UpstreamError{Op: op, Status: resp.StatusCode()}
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, &domain.UpstreamError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return &result, nil
}
