package sqlstore

import "github.com/goliatone/go-memberapi/core"

var (
	_ core.SessionStore           = (*SessionStore)(nil)
	_ core.StoreProvider          = (*RepositoryFactory)(nil)
	_ core.RepositoryStoreFactory = (*RepositoryFactory)(nil)
)
