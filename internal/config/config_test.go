package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDefaults(t *testing.T) {
	cfg := defaults()
	assert.Equal(t, "data/bitkv.log", cfg.DB_PATH)
	assert.Equal(t, 0.5, cfg.GARBAGE_RATIO_THRESHOLD)
	assert.Equal(t, uint32(0o644), cfg.FILE_PERM)
	assert.Equal(t, uint32(0o755), cfg.DIR_PERM)
}

func TestLoadConfigFromFile(t *testing.T) {
	log := zap.NewNop().Sugar()
	cfg, err := LoadConfig("config.yml", log)
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal("data/bitkv.log", cfg.DB_PATH)
	assert.Equal(0.5, cfg.GARBAGE_RATIO_THRESHOLD)
	assert.Equal(uint32(0o644), cfg.FILE_PERM)
	assert.Equal(uint32(0o755), cfg.DIR_PERM)

	assert.Same(cfg, GetConfig())
}
