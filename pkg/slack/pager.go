package slack

import (
	"context"
	"net/url"
)

// Pager is a pull-based iterator over cursor-paginated method calls.
// One page is fetched per Next call; stopping early never triggers
// further network traffic. The cursor token stays private to the
// pager; a repeated cursor terminates iteration as a loop guard.
type Pager struct {
	c        *Client
	method   string
	params   url.Values
	cursor   string
	seen     map[string]struct{}
	maxPages int
	pages    int
	done     bool
}

// Pages starts a pager for method. params must not be mutated by the
// caller afterwards.
func (c *Client) Pages(method string, params url.Values) *Pager {
	return &Pager{
		c:      c,
		method: method,
		params: params,
		seen:   map[string]struct{}{},
	}
}

// SetMaxPages bounds the number of pages fetched. Zero means no bound.
func (p *Pager) SetMaxPages(n int) { p.maxPages = n }

// Next fetches the next page, decoding the payload into out. It
// returns false once the server reports no further cursor or the page
// bound is reached.
func (p *Pager) Next(ctx context.Context, out any) (bool, error) {
	if p.done {
		return false, nil
	}
	params := url.Values{}
	for k, vs := range p.params {
		params[k] = vs
	}
	if p.cursor != "" {
		params.Set("cursor", p.cursor)
	}

	env, err := p.c.Call(ctx, p.method, params, out)
	if err != nil {
		p.done = true
		return false, err
	}
	p.pages++

	next := env.ResponseMetadata.NextCursor
	switch {
	case next == "":
		p.done = true
	default:
		if _, dup := p.seen[next]; dup {
			p.done = true
		} else {
			p.seen[next] = struct{}{}
			p.cursor = next
		}
	}
	if p.maxPages > 0 && p.pages >= p.maxPages {
		p.done = true
	}
	return true, nil
}

// HasMore reports whether another Next call may produce a page.
func (p *Pager) HasMore() bool { return !p.done }
