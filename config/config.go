package config

import "time"

type Config struct {
	Web      Web
	Cors     Cors
	DB       DB
	Session  Session
	Checkout Checkout
	AMQP     AMQP
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type Cors struct {
	Origin string
}

type DB struct {
	User         string `conf:"default:postgres"`
	Password     string `conf:"default:postgres,mask"`
	Host         string `conf:"default:localhost:5432"`
	Name         string `conf:"default:store"`
	MaxIdleConns int    `conf:"default:2"`
	MaxOpenConns int    `conf:"default:10"`
	DisableTLS   bool   `conf:"default:true"`
}

type Session struct {
	Lifetime time.Duration `conf:"default:24h"`
}

// Checkout bounds how often a single caller may attempt order creation.
type Checkout struct {
	Burst  int     `conf:"default:5"`
	Expiry int     `conf:"default:30"`
	RPS    float64 `conf:"default:1"`
}

// AMQP configures the optional broker fan-out of domain events.
// An empty URL disables it.
type AMQP struct {
	URL      string `conf:"mask"`
	Exchange string `conf:"default:store.events"`
}
