package roles

import (
	"github.com/crewdesk/crewdesk/pkg/models"
	"github.com/crewdesk/crewdesk/pkg/querycache"
)

// ListKey returns the cache key for one page of the roles list.
func ListKey(page int, search string) querycache.Key {
	return querycache.ListKey(models.KindRoles, page, search)
}

// DetailKey returns the cache key for a single role.
func DetailKey(id string) querycache.Key {
	return querycache.DetailKey(models.KindRoles, id)
}
