package users

import (
	"github.com/scott-ace-newton/messages-rw-redis/notification"
	"github.com/scott-ace-newton/messages-rw-redis/persistence"
)

//Service wraps the user store. It adds no invariant of its own and exists as
//the seam where authorization logic would land.
type Service struct {
	store persistence.UserStorer
	queueClient notification.QueueClient
}

func NewService(store persistence.UserStorer, queueClient notification.QueueClient) Service {
	return Service{
		store: store,
		queueClient: queueClient,
	}
}

//Create adds a new user and announces it on the queue
func (s Service) Create(record persistence.UserRecord) persistence.Status {
	status := s.store.CreateRecord(record)
	if status == persistence.CREATED {
		s.queueClient.AddMessageToQueue(persistence.Event{
			Type: notification.UserCreatedEvent,
			User: record.User,
		})
	}
	return status
}

//Describe returns the user with the provided name
func (s Service) Describe(name string) (persistence.UserRecord, persistence.Status) {
	return s.store.RetrieveRecord(name)
}

//All returns all known users
func (s Service) All() ([]persistence.UserRecord, persistence.Status) {
	return s.store.RetrieveRecords()
}

//Healthy reports whether the backing store answers commands
func (s Service) Healthy() bool {
	return s.store.ActiveConnection()
}
