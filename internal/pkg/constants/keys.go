package constants

const (
	ViperServerAddrKey        = "server.addr"
	ViperAllowOriginsKey      = "server.allow_origins"
	ViperLogLevelKey          = "log.level"
	ViperLogDevelopmentKey    = "log.development"
	ViperSecretKey            = "auth.secret"
	ViperTokenTTLKey          = "auth.token_ttl"
	ViperStoreDriverKey       = "store.driver"
	ViperStoreDSNKey          = "store.dsn"
	ViperCsvSampleSizeKey     = "csv.sample_size"
	ViperCsvDisplayRowsKey    = "csv.display_rows"
	ViperPreviewRowsKey       = "preview.max_rows"
	ViperLocaleDirKey         = "locale.dir"
	ViperLocaleDefaultKey     = "locale.default"
	ViperLocaleSupportedKey   = "locale.supported"
	ViperSortChildPlacesKey   = "topic_page.sort_child_places"
	ViperTopicFetchRetriesKey = "topic_page.fetch_retries"
	ViperTopicUpstreamKey     = "topic_page.upstream"
)

const (
	CookieKeySessionToken = "wizard_token"
	CtxKeySessionID       = "session_id"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
)
