package plugins

import (
	"testing"

	"github.com/damoang/angple-contents/internal/config"
	"github.com/damoang/angple-contents/internal/plugin"
	"github.com/damoang/angple-contents/internal/plugins/sharedcontent"
	"github.com/damoang/angple-contents/internal/plugins/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	prefix := plugin.OutputCachePrefix
	t.Cleanup(func() { plugin.OutputCachePrefix = prefix })

	cfg := config.Default().Contents
	cfg.CacheKeyPrefix = "site1:out:"
	cfg.AllowedPlugins = map[string][]string{"sidebar": {text.TypeTag}}

	registry := plugin.NewRegistry()
	require.NoError(t, Register(registry, cfg, nil))
	assert.Error(t, Register(registry, cfg, nil), "second registration must fail")

	assert.Len(t, registry.Plugins(), 4)
	assert.True(t, registry.HasPlugin(sharedcontent.ItemTypeTag))
	assert.Equal(t, []string{text.TypeTag}, registry.AllowedTypes("sidebar"))
	assert.Len(t, registry.AllowedTypes("main"), 4)
	assert.Equal(t, "site1:out:text.textitem:main:3", plugin.OutputCacheKey(text.TypeTag, "main", 3))
}
