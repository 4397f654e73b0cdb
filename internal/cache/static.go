package cache

var staticCache = NewCache[string, string]()

// GetStaticHash returns the ETag computed at startup for an embedded asset.
func GetStaticHash(path string) (string, bool) {
	return staticCache.Get(path)
}

func SetStaticHash(path, hash string) {
	staticCache.Set(path, hash)
}
