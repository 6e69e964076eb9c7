package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("READY_SIMULATION_SECONDS", "")
	t.Setenv("KAFKA_ENABLED", "")

	cfg := Load()

	assert.Equal(t, 8*time.Second, cfg.Business.ReadySimulation)
	assert.Equal(t, 10*time.Second, cfg.Business.StaffRefresh)
	assert.Equal(t, 5, cfg.Business.LowStockThreshold)
	assert.Equal(t, "cafe", cfg.Business.StaffOutletID)
	assert.Equal(t, 30*time.Minute, cfg.Business.SessionIdle)
	assert.Equal(t, time.Minute, cfg.Business.SessionSweep)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("READY_SIMULATION_SECONDS", "0")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("LOW_STOCK_THRESHOLD", "not-a-number")

	cfg := Load()

	assert.Zero(t, cfg.Business.ReadySimulation)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 5, cfg.Business.LowStockThreshold)
}
