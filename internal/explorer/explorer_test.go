package explorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidateURLs(t *testing.T) {
	urls := candidateURLs("10.0.0.1", "/api", []int{80, 443, 8443, 9000})
	assert.Equal(t, []string{
		"https://10.0.0.1/api",
		"http://10.0.0.1:80/api",
		"https://10.0.0.1:8443/api",
		"http://10.0.0.1:9000/api",
	}, urls)
}

func TestCandidateURLsNoOpenPorts(t *testing.T) {
	assert.Equal(t, []string{"https://10.0.0.1/api"}, candidateURLs("10.0.0.1", "/api", nil))
}

func TestMethodPassCapBoundsTargets(t *testing.T) {
	paths := make([]string, 0, methodPassCap*2)
	for i := 0; i < methodPassCap*2; i++ {
		paths = append(paths, "/api"+string(rune('a'+i%26))+string(rune('a'+i/26)))
	}
	unique := dedupPaths(paths)
	if len(unique) > methodPassCap {
		unique = unique[:methodPassCap]
	}
	assert.Len(t, unique, methodPassCap)
}

func TestPlausibleStatuses(t *testing.T) {
	for _, status := range []int{200, 401, 403, 405} {
		assert.True(t, plausibleStatuses[status], "status %d", status)
	}
	for _, status := range []int{301, 302, 404, 500, 503} {
		assert.False(t, plausibleStatuses[status], "status %d", status)
	}
}

func TestEndpointCatalogueShape(t *testing.T) {
	assert.GreaterOrEqual(t, len(endpointCatalogue), 150)
	seen := map[string]bool{}
	for _, p := range endpointCatalogue {
		assert.True(t, p[0] == '/', "path %q must be absolute", p)
		assert.False(t, seen[p], "duplicate catalogue path %q", p)
		seen[p] = true
	}
}
