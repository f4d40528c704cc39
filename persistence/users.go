package persistence

import (
	"fmt"

	"github.com/gomodule/redigo/redis"
	log "github.com/sirupsen/logrus"
)

const (
	userKeyFormat = "user:%s"
	usersAllKey = "users:all"

	nickField = "nick"
	passwordField = "password"
)

//UserStore reads and writes user records in redis
type UserStore struct {
	pool *redis.Pool
}

//UserStorer provides an interface of UserStore functions. Useful for mocking
type UserStorer interface {
	CreateRecord(UserRecord) Status
	RetrieveRecord(string) (UserRecord, Status)
	RetrieveRecords() ([]UserRecord, Status)
	ActiveConnection() bool
}

//NewUserStore returns a UserStore backed by the given redis pool
func NewUserStore(pool *redis.Pool) *UserStore {
	return &UserStore{pool: pool}
}

//CreateRecord will attempt to add the provided user to the store.
//HSETNX on the nick field makes create-if-absent atomic, so concurrent
//creations of the same name cannot both win.
func (s *UserStore) CreateRecord(record UserRecord) Status {
	conn := s.pool.Get()
	defer conn.Close()

	userKey := fmt.Sprintf(userKeyFormat, record.User)
	created, err := redis.Int(conn.Do("HSETNX", userKey, nickField, record.User))
	if err != nil {
		log.WithError(err).WithField("user", record.User).Error("could not add user to store")
		return BACKEND_ERROR
	}
	if created == 0 {
		log.WithField("user", record.User).Infof("user with name %s already exists!", record.User)
		return ALREADY_EXISTS
	}

	if _, err = conn.Do("HSET", userKey, passwordField, record.Password); err != nil {
		log.WithError(err).WithField("user", record.User).Error("could not write user credentials")
		return BACKEND_ERROR
	}
	if _, err = conn.Do("SADD", usersAllKey, record.User); err != nil {
		log.WithError(err).WithField("user", record.User).Error("could not add user to index")
		return BACKEND_ERROR
	}
	log.WithField("user", record.User).Info("created user record")
	return CREATED
}

//RetrieveRecord will find the user with the provided name in the store
func (s *UserStore) RetrieveRecord(name string) (UserRecord, Status) {
	conn := s.pool.Get()
	defer conn.Close()
	return readUser(conn, name)
}

//RetrieveRecords will find all indexed users in the store. Entries whose
//backing record has vanished are dropped. Iteration order is unspecified.
func (s *UserStore) RetrieveRecords() ([]UserRecord, Status) {
	conn := s.pool.Get()
	defer conn.Close()

	names, err := redis.Strings(conn.Do("SMEMBERS", usersAllKey))
	if err != nil {
		log.WithError(err).Error("could not read user index")
		return nil, BACKEND_ERROR
	}

	records := make([]UserRecord, 0, len(names))
	for _, name := range names {
		record, status := readUser(conn, name)
		if status != OK {
			continue
		}
		records = append(records, record)
	}
	return records, OK
}

func readUser(conn redis.Conn, name string) (UserRecord, Status) {
	hash, err := redis.StringMap(conn.Do("HGETALL", fmt.Sprintf(userKeyFormat, name)))
	if err != nil {
		log.WithError(err).WithField("user", name).Error("could not read user record")
		return UserRecord{}, BACKEND_ERROR
	}
	if len(hash) == 0 {
		return UserRecord{}, NOT_FOUND
	}

	nick, hasNick := hash[nickField]
	password, hasPassword := hash[passwordField]
	if !hasNick || !hasPassword {
		log.WithField("user", name).Error("user record is missing required fields")
		return UserRecord{}, CORRUPT
	}
	return UserRecord{User: nick, Password: password}, OK
}

//ActiveConnection will check if redis still answers commands
func (s *UserStore) ActiveConnection() bool {
	conn := s.pool.Get()
	defer conn.Close()
	if _, err := conn.Do("PING"); err != nil {
		log.WithError(err).Error("could not connect to redis")
		return false
	}
	return true
}
