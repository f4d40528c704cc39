package notification

import (
	"fmt"

	"github.com/scott-ace-newton/messages-rw-redis/persistence"
)

const (
	UserCreatedEvent = "USER_CREATED"
	MessageCreatedEvent = "MESSAGE_CREATED"
	MessageDeletedEvent = "MESSAGE_DELETED"
)

//QueueClient is a simple queue client
type QueueClient struct {
	queueURL string
}

//NewQueueClient returns simple queue client
func NewQueueClient(queueURL string) QueueClient {
	return QueueClient{queueURL}
}

//AddMessageToQueue would add the provided event to the configured queue.
//As this is a test application however it simply prints the event to the terminal
func (qc *QueueClient) AddMessageToQueue(event persistence.Event) {
	fmt.Printf("adding event to queue: %v\n", event)
}

//QueueIsWritable is the healthcheck of the configured queue.
//As this is a test application however it simply hardcoded to return true
func (qc *QueueClient) QueueIsWritable() bool {
	return true
}
