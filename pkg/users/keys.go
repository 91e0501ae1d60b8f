package users

import (
	"github.com/crewdesk/crewdesk/pkg/models"
	"github.com/crewdesk/crewdesk/pkg/querycache"
)

// ListKey returns the cache key for one page of the users list.
func ListKey(page int, search string) querycache.Key {
	return querycache.ListKey(models.KindUsers, page, search)
}

// DetailKey returns the cache key for a single user.
func DetailKey(id string) querycache.Key {
	return querycache.DetailKey(models.KindUsers, id)
}
