package types

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Post is a single item from the watched account's timeline.
type Post struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// SortNewestFirst orders posts by descending ID.
func SortNewestFirst(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].ID > posts[j].ID })
}

type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

// TradeAdvice is an ephemeral recommendation derived from one post.
type TradeAdvice struct {
	Action Action `json:"action"`
	Symbol string `json:"symbol"`
	Post   Post   `json:"post"`
}

// SymbolSet is a set of uppercase ticker symbols.
type SymbolSet map[string]struct{}

func NewSymbolSet(symbols ...string) SymbolSet {
	s := make(SymbolSet, len(symbols))
	for _, sym := range symbols {
		s[sym] = struct{}{}
	}
	return s
}

func (s SymbolSet) Has(symbol string) bool {
	_, ok := s[symbol]
	return ok
}

// Sorted returns the members in lexical order.
func (s SymbolSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for sym := range s {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

type OrderReq struct {
	Symbol      string
	Side        Action
	Qty         decimal.Decimal
	TimeInForce string
	Tag         string
}

type OrderResp struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type Clock struct {
	Timestamp time.Time
	IsOpen    bool
	NextOpen  time.Time
}

// StepResult summarises one poll-advise-submit cycle.
type StepResult struct {
	CycleID  string        `json:"cycle_id"`
	Posts    int           `json:"posts"`
	Cursor   int64         `json:"cursor"`
	Advices  []TradeAdvice `json:"advices"`
	Orders   []OrderResp   `json:"orders"`
	Duration time.Duration `json:"duration"`
}
