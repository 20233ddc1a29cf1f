package shared

// Redis keys shared by the catalog services.
const (
	CacheKeyCategoryTree  = "catalog:categories:tree"
	CacheKeyProductPrefix = "catalog:products:"
	CacheProductPattern   = CacheKeyProductPrefix + "*"
)

func ProductSlugCacheKey(slug string) string {
	return CacheKeyProductPrefix + "slug:" + slug
}
