package config

import (
	"bytes"
	"encoding/base64"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// envAliases lists extra environment variable names accepted for a key, in
// precedence order. Keys not listed here still map to SECTION_KEY variables.
var envAliases = map[string][]string{
	"token.secret":      {"TOKEN_SECRET", "SECRET_KEY"},
	"token.ttl_minutes": {"TOKEN_TTL_MINUTES", "ACCESS_TOKEN_EXPIRE_MINUTES"},
}

var defaults = map[string]any{
	"app.name":               "autocare",
	"app.env":                "development",
	"app.login_url":          "/ui/login",
	"app.redirect_url":       "/ui/dashboard",
	"http.address":           ":8080",
	"http.read_timeout":      15,
	"http.write_timeout":     15,
	"http.shutdown_timeout":  10,
	"http.cookie_secure":     false,
	"hash.scheme":            "bcrypt",
	"hash.bcrypt_cost":       10,
	"token.scheme":           "hmac",
	"token.ttl_minutes":      1440,
	"idempotency.ttl_second": 86400,
	"telemetry.enabled":      false,
	"telemetry.sample_ratio": 1.0,
	"app.max_goroutine":      0,
	"database.migrate":       false,
	"database.connect_retry": 5,
}

// Viper is a Config implementation backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

// NewViper loads configuration from the given file path and applies
// environment overrides on top of it.
//
// The config file type is inferred by Viper from the filename extension.
func NewViper(pathFile string) (*Viper, error) {
	v := newViper()

	filename := path.Base(pathFile)
	configName := filename[:len(filename)-len(path.Ext(filename))]

	v.AddConfigPath(path.Dir(pathFile))
	v.SetConfigName(configName)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

// NewViperFromBytes loads configuration from memory and applies environment overrides.
// configType should be a format supported by Viper (e.g. "yaml", "json", "toml").
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, errors.New("config type is required")
	}

	v := newViper()
	v.SetConfigType(configType)

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, envs := range envAliases {
		// BindEnv only errors when called without a key.
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}

	return v
}

// GetFloat64 returns the value for key as float64.
func (vc *Viper) GetFloat64(key string) float64 {
	return vc.v.GetFloat64(key)
}

// IsSet reports whether key has any value.
func (vc *Viper) IsSet(key string) bool {
	return vc.v.IsSet(key)
}

// GetInt returns the value for key as int.
func (vc *Viper) GetInt(key string) int {
	return vc.v.GetInt(key)
}

// GetInt64 returns the value for key as int64.
func (vc *Viper) GetInt64(key string) int64 {
	return vc.v.GetInt64(key)
}

// GetUint32 returns the value for key as uint32.
func (vc *Viper) GetUint32(key string) uint32 {
	return vc.v.GetUint32(key)
}

// GetBool returns the value for key as bool.
func (vc *Viper) GetBool(key string) bool {
	return vc.v.GetBool(key)
}

// GetSecond returns the value for key as seconds.
func (vc *Viper) GetSecond(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Second
}

// GetMinute returns the value for key as minutes.
func (vc *Viper) GetMinute(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Minute
}

// GetString returns the value for key as string.
func (vc *Viper) GetString(key string) string {
	return vc.v.GetString(key)
}

// GetBinary returns the value for key decoded from base64.
func (vc *Viper) GetBinary(key string) []byte {
	data, err := base64.StdEncoding.DecodeString(vc.v.GetString(key))
	if err != nil {
		return nil
	}

	return data
}

// GetArray returns the value for key from a YAML list or a comma separated string.
func (vc *Viper) GetArray(key string) []string {
	switch vc.v.Get(key).(type) {
	case []any, []string:
		return compact(vc.v.GetStringSlice(key))
	}

	return compact(strings.Split(vc.v.GetString(key), ","))
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}

// Close implements io.Closer for interface compatibility.
func (vc *Viper) Close() error {
	return nil
}
