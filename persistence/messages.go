package persistence

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	messageKeyFormat = "message:%s"
	userMessagesKeyFormat = "user:%s:messages"
	messagesAllKey = "messages:all"

	idField = "id"
	messageField = "message"
	createdField = "created"
	updatedField = "updated"
)

//MessageStore reads and writes message records in redis
type MessageStore struct {
	pool *redis.Pool
}

//MessageStorer provides an interface of MessageStore functions. Useful for mocking
type MessageStorer interface {
	CreateRecord(body string, user string) (string, Status)
	RetrieveRecord(id string) (MessageRecord, Status)
	RetrieveRecordsBy(user string) ([]MessageRecord, Status)
	RetrieveRecords() ([]MessageRecord, Status)
	UpdateRecord(id string, body string) Status
	DeleteRecord(id string, forUser string) Status
	RecordExists(id string, forUser string) bool
}

//NewMessageStore returns a MessageStore backed by the given redis pool
func NewMessageStore(pool *redis.Pool) *MessageStore {
	return &MessageStore{pool: pool}
}

//CreateRecord will write a new message record for the user and return its id.
//The hash is written as a single command; the two index additions that follow
//are separate commands, so a failure in between leaves the indexes behind the
//record rather than ahead of it.
func (s *MessageStore) CreateRecord(body string, user string) (string, Status) {
	conn := s.pool.Get()
	defer conn.Close()

	id := uuid.New().String()
	now := time.Now().Unix()

	_, err := conn.Do("HSET", fmt.Sprintf(messageKeyFormat, id),
		idField, id,
		messageField, body,
		createdField, now,
		updatedField, now)
	if err != nil {
		log.WithError(err).WithField("messageID", id).Error("could not add message to store")
		return "", BACKEND_ERROR
	}

	if _, err = conn.Do("SADD", fmt.Sprintf(userMessagesKeyFormat, user), id); err != nil {
		log.WithError(err).WithField("messageID", id).Errorf("could not add message to index for user %s", user)
		return "", BACKEND_ERROR
	}
	if _, err = conn.Do("SADD", messagesAllKey, id); err != nil {
		log.WithError(err).WithField("messageID", id).Error("could not add message to global index")
		return "", BACKEND_ERROR
	}
	log.WithField("messageID", id).Infof("created message record for user %s", user)
	return id, CREATED
}

//RetrieveRecord will find the message with the provided id in the store.
//A missing hash reports NOT_FOUND; a hash that exists but is missing any
//required field, or holds an unparseable timestamp, reports CORRUPT.
func (s *MessageStore) RetrieveRecord(id string) (MessageRecord, Status) {
	conn := s.pool.Get()
	defer conn.Close()

	hash, err := redis.StringMap(conn.Do("HGETALL", fmt.Sprintf(messageKeyFormat, id)))
	if err != nil {
		log.WithError(err).WithField("messageID", id).Error("could not read message record")
		return MessageRecord{}, BACKEND_ERROR
	}
	return toMessageRecord(id, hash)
}

//RetrieveRecordsBy will find all messages indexed for the provided user
func (s *MessageStore) RetrieveRecordsBy(user string) ([]MessageRecord, Status) {
	return s.retrieveIndexed(fmt.Sprintf(userMessagesKeyFormat, user))
}

//RetrieveRecords will find all messages in the global index
func (s *MessageStore) RetrieveRecords() ([]MessageRecord, Status) {
	return s.retrieveIndexed(messagesAllKey)
}

func (s *MessageStore) retrieveIndexed(indexKey string) ([]MessageRecord, Status) {
	conn := s.pool.Get()
	ids, err := redis.Strings(conn.Do("SMEMBERS", indexKey))
	conn.Close()
	if err != nil {
		log.WithError(err).Errorf("could not read message index %s", indexKey)
		return nil, BACKEND_ERROR
	}
	return s.resolve(ids), OK
}

//resolve fans out over the indexed ids with one lookup per goroutine, each on
//its own pooled connection. Result order is unspecified; absent and corrupt
//entries are dropped.
func (s *MessageStore) resolve(ids []string) []MessageRecord {
	var wg sync.WaitGroup
	var mu sync.Mutex
	records := make([]MessageRecord, 0, len(ids))
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			record, status := s.RetrieveRecord(id)
			if status != OK {
				return
			}
			mu.Lock()
			records = append(records, record)
			mu.Unlock()
		}(id)
	}
	wg.Wait()
	return records
}

//UpdateRecord will overwrite the body of an existing message and refresh its
//updated timestamp. Missing and corrupt records are both rejected before any
//write. The body and timestamp are two separate partial-hash writes.
func (s *MessageStore) UpdateRecord(id string, body string) Status {
	conn := s.pool.Get()
	defer conn.Close()

	messageKey := fmt.Sprintf(messageKeyFormat, id)
	hash, err := redis.StringMap(conn.Do("HGETALL", messageKey))
	if err != nil {
		log.WithError(err).WithField("messageID", id).Error("could not read message record")
		return BACKEND_ERROR
	}
	if _, status := toMessageRecord(id, hash); status != OK {
		log.WithField("messageID", id).Info("could not update message as it does not exist")
		return NOT_FOUND
	}

	if _, err = conn.Do("HSET", messageKey, messageField, body); err != nil {
		log.WithError(err).WithField("messageID", id).Error("could not update message body")
		return BACKEND_ERROR
	}
	if _, err = conn.Do("HSET", messageKey, updatedField, time.Now().Unix()); err != nil {
		log.WithError(err).WithField("messageID", id).Error("could not update message timestamp")
		return BACKEND_ERROR
	}
	log.WithField("messageID", id).Info("updated message record")
	return UPDATED
}

//DeleteRecord will remove the message hash, the per-user index entry and the
//global index entry as three independent removals. The delete reports DELETED
//when any of the three found something to remove, so cleaning up a record
//that only lingers in a stale index still succeeds.
func (s *MessageStore) DeleteRecord(id string, forUser string) Status {
	conn := s.pool.Get()
	defer conn.Close()

	deletedKeys, err := redis.Int(conn.Do("DEL", fmt.Sprintf(messageKeyFormat, id)))
	if err != nil {
		log.WithError(err).WithField("messageID", id).Error("could not delete message record")
		return BACKEND_ERROR
	}
	removedUserEntries, err := redis.Int(conn.Do("SREM", fmt.Sprintf(userMessagesKeyFormat, forUser), id))
	if err != nil {
		log.WithError(err).WithField("messageID", id).Errorf("could not remove message from index for user %s", forUser)
		return BACKEND_ERROR
	}
	removedGlobalEntries, err := redis.Int(conn.Do("SREM", messagesAllKey, id))
	if err != nil {
		log.WithError(err).WithField("messageID", id).Error("could not remove message from global index")
		return BACKEND_ERROR
	}

	if deletedKeys+removedUserEntries+removedGlobalEntries == 0 {
		log.WithField("messageID", id).Info("could not delete message as it does not exist")
		return NOT_FOUND
	}
	log.WithField("messageID", id).Info("message removed from store")
	return DELETED
}

//RecordExists checks membership of the per-user index only; the primary hash
//is deliberately not consulted
func (s *MessageStore) RecordExists(id string, forUser string) bool {
	conn := s.pool.Get()
	defer conn.Close()

	member, err := redis.Bool(conn.Do("SISMEMBER", fmt.Sprintf(userMessagesKeyFormat, forUser), id))
	if err != nil {
		log.WithError(err).WithField("messageID", id).Error("could not check message index membership")
		return false
	}
	return member
}

func toMessageRecord(id string, hash map[string]string) (MessageRecord, Status) {
	if len(hash) == 0 {
		return MessageRecord{}, NOT_FOUND
	}

	for _, field := range []string{idField, messageField, createdField, updatedField} {
		if _, present := hash[field]; !present {
			log.WithField("messageID", id).Errorf("message record is missing required field %s", field)
			return MessageRecord{}, CORRUPT
		}
	}

	created, err := strconv.ParseInt(hash[createdField], 10, 64)
	if err != nil {
		log.WithError(err).WithField("messageID", id).Error("message record holds unparseable created timestamp")
		return MessageRecord{}, CORRUPT
	}
	updated, err := strconv.ParseInt(hash[updatedField], 10, 64)
	if err != nil {
		log.WithError(err).WithField("messageID", id).Error("message record holds unparseable updated timestamp")
		return MessageRecord{}, CORRUPT
	}

	return MessageRecord{
		ID: hash[idField],
		Message: hash[messageField],
		Created: created,
		Updated: updated,
	}, OK
}
