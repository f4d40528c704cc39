package users

import (
	p "github.com/scott-ace-newton/messages-rw-redis/persistence"
)

type mockUserStore struct {
	expectedStatus p.Status
	expectedRecord p.UserRecord
	expectedRecords []p.UserRecord
	healthy bool
}

func (ms *mockUserStore) CreateRecord(p.UserRecord) p.Status {
	return ms.expectedStatus
}

func (ms *mockUserStore) RetrieveRecord(string) (p.UserRecord, p.Status) {
	return ms.expectedRecord, ms.expectedStatus
}

func (ms *mockUserStore) RetrieveRecords() ([]p.UserRecord, p.Status) {
	return ms.expectedRecords, ms.expectedStatus
}

func (ms *mockUserStore) ActiveConnection() bool {
	return ms.healthy
}

type mockMessageStore struct {
	expectedID string
	expectedStatus p.Status
	expectedRecord p.MessageRecord
	expectedRecords []p.MessageRecord
	indexed bool
}

func (ms *mockMessageStore) CreateRecord(string, string) (string, p.Status) {
	return ms.expectedID, ms.expectedStatus
}

func (ms *mockMessageStore) RetrieveRecord(string) (p.MessageRecord, p.Status) {
	return ms.expectedRecord, ms.expectedStatus
}

func (ms *mockMessageStore) RetrieveRecordsBy(string) ([]p.MessageRecord, p.Status) {
	return ms.expectedRecords, p.OK
}

func (ms *mockMessageStore) RetrieveRecords() ([]p.MessageRecord, p.Status) {
	return ms.expectedRecords, p.OK
}

func (ms *mockMessageStore) UpdateRecord(string, string) p.Status {
	return ms.expectedStatus
}

func (ms *mockMessageStore) DeleteRecord(string, string) p.Status {
	return ms.expectedStatus
}

func (ms *mockMessageStore) RecordExists(string, string) bool {
	return ms.indexed
}
