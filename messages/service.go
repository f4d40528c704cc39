package messages

import (
	"github.com/scott-ace-newton/messages-rw-redis/notification"
	"github.com/scott-ace-newton/messages-rw-redis/persistence"
	log "github.com/sirupsen/logrus"
)

//Service coordinates the message store with the user store. It owns the one
//cross-entity invariant: a message can only be created for an author the
//user store confirms to exist.
type Service struct {
	store persistence.MessageStorer
	users persistence.UserStorer
	queueClient notification.QueueClient
}

func NewService(store persistence.MessageStorer, users persistence.UserStorer, queueClient notification.QueueClient) Service {
	return Service{
		store: store,
		users: users,
		queueClient: queueClient,
	}
}

//Create writes a new message for the user and returns its id.
//Fails with USER_NOT_FOUND before touching the message store if the author
//does not exist. The check is a plain read; users are never deleted in this
//system so it cannot race a removal.
func (s Service) Create(body string, user string) (string, persistence.Status) {
	if _, status := s.users.RetrieveRecord(user); status != persistence.OK {
		log.WithField("user", user).Infof("user %s was not found. Message will not be created", user)
		return "", persistence.USER_NOT_FOUND
	}

	id, status := s.store.CreateRecord(body, user)
	if status == persistence.CREATED {
		s.queueClient.AddMessageToQueue(persistence.Event{
			Type: notification.MessageCreatedEvent,
			User: user,
			MessageID: id,
		})
	}
	return id, status
}

//Describe returns the message with the provided id
func (s Service) Describe(id string) (persistence.MessageRecord, persistence.Status) {
	return s.store.RetrieveRecord(id)
}

//WrittenBy returns all messages indexed for the user
func (s Service) WrittenBy(user string) ([]persistence.MessageRecord, persistence.Status) {
	return s.store.RetrieveRecordsBy(user)
}

//All returns all known messages
func (s Service) All() ([]persistence.MessageRecord, persistence.Status) {
	return s.store.RetrieveRecords()
}

//Update overwrites the body of an existing message
func (s Service) Update(id string, body string) persistence.Status {
	return s.store.UpdateRecord(id, body)
}

//Delete removes a message for a user. Existence is pre-checked against the
//per-user index, not the primary record, so an id whose hash is gone but
//whose index entry lingers is still found and handed to the best-effort
//delete; an id absent from the index is rejected without any removal.
func (s Service) Delete(id string, forUser string) persistence.Status {
	if !s.store.RecordExists(id, forUser) {
		log.WithField("messageID", id).Infof("message is not indexed for user %s", forUser)
		return persistence.NOT_FOUND
	}

	status := s.store.DeleteRecord(id, forUser)
	if status == persistence.DELETED {
		s.queueClient.AddMessageToQueue(persistence.Event{
			Type: notification.MessageDeletedEvent,
			User: forUser,
			MessageID: id,
		})
	}
	return status
}
