package firebase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// defaultAccountsBaseURL is the Identity Toolkit endpoint used to page
// through the project's auth accounts.
const defaultAccountsBaseURL = "https://identitytoolkit.googleapis.com/v1"

// Client talks to the Firebase Realtime Database and Auth REST surfaces.
// With Mock set it serves generated sample data instead, for local runs
// without credentials.
type Client struct {
	DatabaseURL     string
	ProjectID       string
	AccessToken     string
	AccountsBaseURL string
	Mock            bool
	client          *http.Client
}

// Account is one auth user as returned by the roster export.
type Account struct {
	UID         string
	Email       string
	CreatedAt   int64 // epoch ms
	LastLoginAt int64 // epoch ms, zero when the user never signed in
}

// NewClient creates a new Firebase client.
func NewClient(databaseURL, projectID, accessToken string, mock bool) *Client {
	return &Client{
		DatabaseURL:     databaseURL,
		ProjectID:       projectID,
		AccessToken:     accessToken,
		AccountsBaseURL: defaultAccountsBaseURL,
		Mock:            mock,
		client:          &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchUsers exports the full /users subtree as raw JSON.
func (c *Client) FetchUsers(ctx context.Context) ([]byte, error) {
	if c.Mock {
		return c.mockUsers()
	}

	endpoint := fmt.Sprintf("%s/users.json?access_token=%s", c.DatabaseURL, url.QueryEscape(c.AccessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("users export returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read users export: %w", err)
	}
	if len(body) == 0 || string(body) == "null" {
		return nil, fmt.Errorf("users export is empty")
	}
	return body, nil
}

// ListAccounts pages through all auth accounts of the project.
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	if c.Mock {
		return c.mockAccounts(), nil
	}

	var accounts []Account
	pageToken := ""
	for {
		endpoint := fmt.Sprintf("%s/projects/%s/accounts:batchGet?maxResults=1000", c.AccountsBaseURL, c.ProjectID)
		if pageToken != "" {
			endpoint += "&nextPageToken=" + url.QueryEscape(pageToken)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.AccessToken)

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts: %w", err)
		}
		var page struct {
			Users []struct {
				LocalID     string `json:"localId"`
				Email       string `json:"email"`
				CreatedAt   string `json:"createdAt"`
				LastLoginAt string `json:"lastLoginAt"`
			} `json:"users"`
			NextPageToken string `json:"nextPageToken"`
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("accounts export returned status %d", resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("failed to decode accounts page: %w", err)
		}
		resp.Body.Close()

		for _, u := range page.Users {
			accounts = append(accounts, Account{
				UID:         u.LocalID,
				Email:       u.Email,
				CreatedAt:   parseMillis(u.CreatedAt),
				LastLoginAt: parseMillis(u.LastLoginAt),
			})
		}
		if page.NextPageToken == "" {
			return accounts, nil
		}
		pageToken = page.NextPageToken
	}
}

func parseMillis(s string) int64 {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return ms
}

// mockUsers generates a small sample snapshot for local development.
func (c *Client) mockUsers() ([]byte, error) {
	users := map[string]any{
		"mock-user-1": map[string]any{
			"userInfo": map[string]any{
				"email":   "one@example.com",
				"country": "DE",
				"city":    "Berlin",
				"height":  180,
				"weight":  75,
				"gender":  "m",
				"age":     31,
				"active":  true,
				"level":   "intermediate",
				"myGym":   "A, D, K",
				"latestReceiptInfo": []any{
					map[string]any{
						"purchase_date_ms":          1600000000000,
						"expires_date_ms":           1631536000000,
						"original_purchase_date_ms": 1600000000000,
						"product_id":                "com.klein.subscription.yearly",
					},
				},
			},
		},
		"mock-user-2": map[string]any{
			"userInfo": map[string]any{
				"email":          "two@example.com",
				"gymPreferences": []any{"B", "C"},
			},
		},
		"mock-user-3": map[string]any{},
	}
	return json.Marshal(users)
}

// mockAccounts generates roster entries matching the mock users.
func (c *Client) mockAccounts() []Account {
	return []Account{
		{UID: "mock-user-1", Email: "one@example.com", CreatedAt: 1590000000000, LastLoginAt: 1631000000000},
		{UID: "mock-user-2", Email: "two@example.com", CreatedAt: 1610000000000},
		{UID: "mock-user-3", Email: "", CreatedAt: 1620000000000},
	}
}
