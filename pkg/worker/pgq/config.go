package pgq

import (
	"fmt"
	"math/rand"
	"net"
	"net/url"
	"strconv"
	"time"
)

// Config locates the Postgres database that holds the job queue.
type Config struct {
	Host     string `yaml:"host" mapstructure:"host" default:"localhost"`
	Port     int    `yaml:"port" mapstructure:"port" default:"5432"`
	Name     string `yaml:"name" mapstructure:"name" default:"labsearch"`
	Username string `yaml:"username" mapstructure:"username" default:"labsearch"`
	Password string `yaml:"password" mapstructure:"password" default:""`
	SSLMode  string `yaml:"sslmode" mapstructure:"sslmode" default:"disable"`

	MaxOpenConns          int           `yaml:"max_open_conns" mapstructure:"max_open_conns" default:"10"`
	MaxIdleConns          int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns" default:"4"`
	ConnMaxIdleTime       time.Duration `yaml:"conn_max_idle_time" mapstructure:"conn_max_idle_time" default:"5m"`
	ConnMaxLifetime       time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime" default:"5m"`
	ConnMaxLifetimeJitter time.Duration `yaml:"conn_max_lifetime_jitter" mapstructure:"conn_max_lifetime_jitter" default:"2m"`
}

func (c Config) sslMode() string {
	if c.SSLMode == "" {
		return "disable"
	}
	return c.SSLMode
}

// ConnectionString is the keyword/value DSN used by the pgx driver.
func (c Config) ConnectionString() string {
	return fmt.Sprintf(
		"dbname=%s user=%s password='%s' host=%s port=%d sslmode=%s",
		c.Name, c.Username, c.Password, c.Host, c.Port, c.sslMode(),
	)
}

// ConnectionURL is the URL form used by the migration driver.
func (c Config) ConnectionURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     c.Name,
		RawQuery: url.Values{"sslmode": []string{c.sslMode()}}.Encode(),
	}
	return u.String()
}

// ConnMaxLifetimeWithJitter spreads connection recycling so that pooled
// connections do not all expire together.
func (c Config) ConnMaxLifetimeWithJitter() time.Duration {
	if c.ConnMaxLifetimeJitter <= 0 {
		return c.ConnMaxLifetime
	}
	//nolint:gosec
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return c.ConnMaxLifetime + time.Duration(r.Int63n(int64(c.ConnMaxLifetimeJitter)))
}
