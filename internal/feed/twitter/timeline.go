package twitter

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strconv"
	"time"

	"cashtag-trader/internal/interfaces"
	"cashtag-trader/internal/types"
)

var _ interfaces.Feed = (*Client)(nil)

type tweet struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	NoteTweet *struct {
		Text string `json:"text"`
	} `json:"note_tweet,omitempty"`
}

type timelineResponse struct {
	Data   []tweet      `json:"data"`
	Errors []apiProblem `json:"errors"`
	Meta   struct {
		ResultCount int    `json:"result_count"`
		NewestID    string `json:"newest_id"`
	} `json:"meta"`
}

type userResponse struct {
	Data *struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"data"`
	Errors []apiProblem `json:"errors"`
}

// UserID resolves a screen name to its numeric user ID. Results are cached.
func (c *Client) UserID(ctx context.Context, username string) (string, error) {
	c.mu.Lock()
	id, ok := c.userIDs[username]
	c.mu.Unlock()
	if ok {
		return id, nil
	}

	var resp userResponse
	if err := c.get(ctx, "/2/users/by/username/"+url.PathEscape(username), nil, &resp); err != nil {
		return "", fmt.Errorf("lookup user %s: %w", username, err)
	}
	if resp.Data == nil || resp.Data.ID == "" {
		return "", fmt.Errorf("lookup user %s: %w", username, problemsErr(resp.Errors))
	}

	c.mu.Lock()
	c.userIDs[username] = resp.Data.ID
	c.mu.Unlock()
	return resp.Data.ID, nil
}

// Timeline returns up to count of account's posts newer than sinceID, newest first.
// Long posts carry their full text.
func (c *Client) Timeline(ctx context.Context, account string, count int, sinceID int64) ([]types.Post, error) {
	userID, err := c.UserID(ctx, account)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("max_results", strconv.Itoa(count))
	q.Set("tweet.fields", "created_at,note_tweet")
	if sinceID > 0 {
		q.Set("since_id", strconv.FormatInt(sinceID, 10))
	}

	var resp timelineResponse
	if err := c.get(ctx, "/2/users/"+userID+"/tweets", q, &resp); err != nil {
		return nil, fmt.Errorf("fetch timeline of %s: %w", account, err)
	}
	if len(resp.Data) == 0 && len(resp.Errors) > 0 {
		return nil, fmt.Errorf("fetch timeline of %s: %w", account, problemsErr(resp.Errors))
	}

	posts := make([]types.Post, 0, len(resp.Data))
	for _, tw := range resp.Data {
		id, err := strconv.ParseInt(tw.ID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse post id %q: %w", tw.ID, err)
		}
		text := tw.Text
		if tw.NoteTweet != nil && tw.NoteTweet.Text != "" {
			text = tw.NoteTweet.Text
		}
		posts = append(posts, types.Post{
			ID:        id,
			Text:      html.UnescapeString(text),
			Author:    account,
			CreatedAt: tw.CreatedAt,
		})
	}
	return posts, nil
}

func problemsErr(ps []apiProblem) error {
	if len(ps) == 0 {
		return errors.New("empty response")
	}
	if ps[0].Detail != "" {
		return errors.New(ps[0].Detail)
	}
	return errors.New(ps[0].Title)
}
