package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserIDList_Intersect(t *testing.T) {
	l := UserIDList{1, 2, 3, 4}
	assert.Equal(t, UserIDList{2, 4}, l.Intersect(UserIDList{4, 2}))
	assert.Equal(t, UserIDList{}, l.Intersect(UserIDList{}))
	assert.Equal(t, UserIDList{1, 2, 3, 4}, l.Intersect(UserIDList{1, 2, 3, 4, 5}))
}

func TestUserIDList_ScanValueRoundTrip(t *testing.T) {
	l := UserIDList{7, 8}
	value, err := l.Value()
	require.NoError(t, err)

	var decoded UserIDList
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, l, decoded)

	var fromNil UserIDList
	require.NoError(t, fromNil.Scan(nil))
	assert.Equal(t, UserIDList{}, fromNil)
}

func TestUser_Permissions(t *testing.T) {
	admin := &User{ID: 1, Role: RoleAdmin}
	worker := &User{ID: 2, Role: RoleWorker}

	assert.True(t, admin.CanManageWorkLogFor(2))
	assert.True(t, worker.CanManageWorkLogFor(2))
	assert.False(t, worker.CanManageWorkLogFor(1))

	assert.True(t, admin.CanViewAllWorkLogs())
	assert.False(t, worker.CanViewAllWorkLogs())

	assert.True(t, admin.CanManageBilling())
	assert.False(t, worker.CanManageBilling())

	assert.True(t, worker.CanCreateReports())
	assert.False(t, worker.CanManageReports())
}

func TestUser_DisplayName(t *testing.T) {
	u := &User{Username: "mmuster", FullName: "Max Mustermann"}
	assert.Equal(t, "Max Mustermann", u.DisplayName())

	u.FullName = ""
	assert.Equal(t, "mmuster", u.DisplayName())
}

func TestReport_StatusTransitions(t *testing.T) {
	r := &Report{Status: ReportDraft}
	assert.True(t, r.CanTransitionTo(ReportFinalized))
	assert.False(t, r.CanTransitionTo(ReportArchived))

	r.Status = ReportFinalized
	assert.True(t, r.CanTransitionTo(ReportArchived))
	assert.False(t, r.CanTransitionTo(ReportDraft))

	r.Status = ReportArchived
	assert.False(t, r.CanTransitionTo(ReportFinalized))
}

func TestInvoice_StatusTransitions(t *testing.T) {
	i := &Invoice{Status: InvoiceDraft}
	assert.True(t, i.CanTransitionTo(InvoiceSent))
	assert.False(t, i.CanTransitionTo(InvoicePaid))

	i.Status = InvoiceSent
	assert.True(t, i.CanTransitionTo(InvoicePaid))

	i.Status = InvoicePaid
	assert.False(t, i.CanTransitionTo(InvoiceSent))
}

func TestWorkLog_IsPublicContract(t *testing.T) {
	log := &WorkLog{}
	assert.False(t, log.IsPublicContract(), "street-less logs are private")

	log.Street = &Street{PublicContract: true}
	assert.True(t, log.IsPublicContract())

	log.Street.PublicContract = false
	assert.False(t, log.IsPublicContract())
}
