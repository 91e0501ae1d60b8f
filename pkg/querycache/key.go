package querycache

import (
	"fmt"
	"strconv"
)

// Op distinguishes list queries from detail queries.
type Op string

const (
	OpList   Op = "list"
	OpDetail Op = "detail"
)

// Key identifies one cached read result. Distinct keys never share cached
// values; identical keys always resolve to the latest fetch for that key.
type Key struct {
	Kind   string
	Op     Op
	Page   int
	Search string
	ID     string
}

// ListKey returns the key for one page of a kind's list, scoped by search.
func ListKey(kind string, page int, search string) Key {
	if page < 1 {
		page = 1
	}
	return Key{Kind: kind, Op: OpList, Page: page, Search: search}
}

// DetailKey returns the key for a single record of a kind.
func DetailKey(kind, id string) Key {
	return Key{Kind: kind, Op: OpDetail, ID: id}
}

func (k Key) String() string {
	if k.Op == OpDetail {
		return k.Kind + ":detail:" + k.ID
	}
	s := k.Kind + ":list:page=" + strconv.Itoa(k.Page)
	if k.Search != "" {
		s += fmt.Sprintf(":search=%q", k.Search)
	}
	return s
}
