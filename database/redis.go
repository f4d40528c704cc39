package database

import (
	"time"

	"github.com/gomodule/redigo/redis"
	log "github.com/sirupsen/logrus"
)

//NewPool returns a redis connection pool with default connection parameters.
//Callers borrow a connection per logical operation and must close it on every
//exit path; the pool itself never retries failed commands.
func NewPool(address string) (*redis.Pool, error) {
	pool := &redis.Pool{
		MaxIdle: 3,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", address)
		},
	}

	conn := pool.Get()
	defer conn.Close()
	if _, err := conn.Do("PING"); err != nil {
		log.WithError(err).Error("error establishing active connection to redis")
		return nil, err
	}
	return pool, nil
}
