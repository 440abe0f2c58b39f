package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"marineqc/internal/qc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BATTERY_FILE", "/etc/marineqc/battery.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "marine-reports", cfg.KafkaSourceTopic)
	assert.Equal(t, "flagged-marine-reports", cfg.KafkaSinkTopic)
	assert.Equal(t, "marine-qc", cfg.KafkaGroupID)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, "all", cfg.ReturnMethod)
	assert.Equal(t, []string{"platform"}, cfg.GroupBy)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BATTERY_FILE", "/etc/marineqc/battery.yaml")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("RETURN_METHOD", "failed")
	t.Setenv("GROUP_BY", "platform,month")
	t.Setenv("BATCH_SIZE", "200")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "failed", cfg.ReturnMethod)
	assert.Equal(t, []string{"platform", "month"}, cfg.GroupBy)
	assert.Equal(t, 200, cfg.BatchSize)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name       string
		key, value string
		noBattery  bool
	}{
		{name: "missing battery file", key: "LOG_LEVEL", value: "info", noBattery: true},
		{name: "bad log level", key: "LOG_LEVEL", value: "verbose"},
		{name: "bad log format", key: "LOG_FORMAT", value: "xml"},
		{name: "bad return method", key: "RETURN_METHOD", value: "some"},
		{name: "zero batch size", key: "BATCH_SIZE", value: "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.noBattery {
				t.Setenv("BATTERY_FILE", "/etc/marineqc/battery.yaml")
			}
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

const batteryYAML = `
preprocessing:
  - name: climatology
    func: climatological_value
    names:
      lat: lat
      lon: lon
      date: date
checks:
  - name: position
    func: position_check
    names:
      lat: lat
      lon: lon
  - name: sst_limits
    func: hard_limit_check
    names:
      value: sst
    arguments:
      limits: [-5.0, 40.0]
  - name: sst_climatology
    func: climatology_check
    names:
      value: sst
    arguments:
      maximum_anomaly: 8.0
      climatology: __preprocessed__
      standard_deviation:
        __preprocessed__: sst_stdev
`

func TestParseBattery(t *testing.T) {
	battery, err := ParseBattery([]byte(batteryYAML))
	require.NoError(t, err)

	require.Len(t, battery.Preprocessing, 1)
	assert.Equal(t, "climatology", battery.Preprocessing[0].Name)
	assert.Equal(t, "climatological_value", battery.Preprocessing[0].Func)

	require.Len(t, battery.Checks, 3)
	assert.Equal(t, []string{"position", "sst_limits", "sst_climatology"}, battery.Checks.EntryNames())
	assert.Equal(t, map[string]string{"lat": "lat", "lon": "lon"}, battery.Checks[0].Names)

	climArgs := battery.Checks[2].Arguments
	assert.Equal(t, qc.Preprocessed("climatology"), climArgs["climatology"])
	assert.Equal(t, qc.Preprocessed("sst_stdev"), climArgs["standard_deviation"])
	assert.Equal(t, 8.0, climArgs["maximum_anomaly"])

	// a battery without preprocessing is fine
	bare, err := ParseBattery([]byte("checks:\n  - name: position\n    func: position_check\n"))
	require.NoError(t, err)
	assert.Nil(t, bare.Preprocessing)
}

func TestLoadBatteryFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battery.yaml")
	require.NoError(t, os.WriteFile(path, []byte(batteryYAML), 0o600))

	battery, err := LoadBattery(path)
	require.NoError(t, err)
	assert.Len(t, battery.Checks, 3)

	_, err = LoadBattery(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestParseBatteryRejectsBadYAML(t *testing.T) {
	_, err := ParseBattery([]byte("checks: {not a list"))
	assert.Error(t, err)
}
