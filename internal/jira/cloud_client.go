package jira

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const changelogPageSize = 100

type cloudClient struct {
	cfg        Config
	httpClient *http.Client

	throttleMutex sync.Mutex
	lastRequest   time.Time

	// Session cache
	cache      map[string]*cacheEntry
	cacheMutex sync.RWMutex
}

type cacheEntry struct {
	Value       interface{}
	Expiration  time.Time
	AccessCount int
	OriginalTTL time.Duration
}

func newCloudClient(cfg Config) Client {
	return &cloudClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: make(map[string]*cacheEntry),
	}
}

func (c *cloudClient) getFromCache(key string) (interface{}, bool) {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	entry, ok := c.cache[key]
	if !ok {
		log.Debug().Str("key", key).Msg("Cache miss")
		return nil, false
	}
	log.Debug().Str("key", key).Msg("Cache hit")

	if time.Now().After(entry.Expiration) {
		delete(c.cache, key)
		return nil, false
	}

	// Sliding window extension
	if entry.AccessCount < 6 {
		entry.Expiration = time.Now().Add(entry.OriginalTTL)
		entry.AccessCount++
	}

	return entry.Value, true
}

func (c *cloudClient) addToCache(key string, value interface{}, ttl time.Duration) {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	c.cache[key] = &cacheEntry{
		Value:       value,
		Expiration:  time.Now().Add(ttl),
		OriginalTTL: ttl,
		AccessCount: 1,
	}
	log.Debug().Str("key", key).Dur("ttl", ttl).Msg("Added to cache")
}

func (c *cloudClient) throttle() {
	c.throttleMutex.Lock()
	defer c.throttleMutex.Unlock()

	elapsed := time.Since(c.lastRequest)
	if elapsed < c.cfg.RequestDelay {
		wait := c.cfg.RequestDelay - elapsed
		log.Debug().Dur("wait", wait).Msg("Throttling Jira request")
		time.Sleep(wait)
	}
	c.lastRequest = time.Now()
}

// get performs an authenticated GET and decodes the JSON body into out.
func (c *cloudClient) get(requestURL string, out interface{}) error {
	c.throttle()

	req, err := http.NewRequest("GET", requestURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.cfg.Email, c.cfg.APIToken)

	log.Debug().Str("url", requestURL).Msg("Jira request")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("resource not found (404): %s", requestURL)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("Jira authentication failed (401/403). Please check JIRA_EMAIL and JIRA_API_TOKEN.")
		case http.StatusTooManyRequests:
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				return fmt.Errorf("Jira rate limit exceeded (429). Retry after %s seconds.", retryAfter)
			}
			return fmt.Errorf("Jira rate limit exceeded (429).")
		default:
			return fmt.Errorf("Jira API returned status %d. Please check Jira availability.", resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode Jira response: %w", err)
	}
	return nil
}

func (c *cloudClient) GetIssue(key string) (*IssueDTO, error) {
	cacheKey := "issue:" + key
	if val, ok := c.getFromCache(cacheKey); ok {
		return val.(*IssueDTO), nil
	}

	params := url.Values{}
	params.Set("fields", "summary,status,assignee,description,comment,created")

	requestURL := fmt.Sprintf("%s/rest/api/3/issue/%s?%s", c.cfg.BaseURL, key, params.Encode())
	var issue IssueDTO
	if err := c.get(requestURL, &issue); err != nil {
		return nil, err
	}

	c.addToCache(cacheKey, &issue, 10*time.Minute)
	return &issue, nil
}

func (c *cloudClient) GetChangelog(key string) ([]ChangelogEntryDTO, error) {
	cacheKey := "changelog:" + key
	if val, ok := c.getFromCache(cacheKey); ok {
		return val.([]ChangelogEntryDTO), nil
	}

	var entries []ChangelogEntryDTO
	startAt := 0
	for {
		params := url.Values{}
		params.Set("startAt", fmt.Sprintf("%d", startAt))
		params.Set("maxResults", fmt.Sprintf("%d", changelogPageSize))

		requestURL := fmt.Sprintf("%s/rest/api/3/issue/%s/changelog?%s", c.cfg.BaseURL, key, params.Encode())
		var page ChangelogResponse
		if err := c.get(requestURL, &page); err != nil {
			return nil, err
		}

		entries = append(entries, page.Values...)
		if len(page.Values) == 0 || startAt+len(page.Values) >= page.Total {
			break
		}
		startAt += len(page.Values)
	}

	log.Debug().Str("issue", key).Int("entries", len(entries)).Msg("Fetched changelog")
	c.addToCache(cacheKey, entries, 10*time.Minute)
	return entries, nil
}

func (c *cloudClient) GetWorklogs(key string) ([]WorklogDTO, error) {
	cacheKey := "worklog:" + key
	if val, ok := c.getFromCache(cacheKey); ok {
		return val.([]WorklogDTO), nil
	}

	requestURL := fmt.Sprintf("%s/rest/api/3/issue/%s/worklog", c.cfg.BaseURL, key)
	var result WorklogResponse
	if err := c.get(requestURL, &result); err != nil {
		return nil, err
	}

	c.addToCache(cacheKey, result.Worklogs, 10*time.Minute)
	return result.Worklogs, nil
}
