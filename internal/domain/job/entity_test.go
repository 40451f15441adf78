package job

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJob_DedupKey(t *testing.T) {
	company := uuid.New()
	a := Job{CompanyID: company, Title: "Senior Backend Developer", Location: "Berlin, Germany"}
	b := Job{CompanyID: company, Title: "Sr. Back-End Dev", Location: " berlin  germany"}
	assert.Equal(t, a.DedupKey(), b.DedupKey())

	other := b
	other.CompanyID = uuid.New()
	assert.NotEqual(t, a.DedupKey(), other.DedupKey())

	remote := a
	remote.Location = "Remote"
	assert.NotEqual(t, a.DedupKey(), remote.DedupKey())
}

func TestJob_ExpiryAndRecency(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	posted := now.Add(-3 * 24 * time.Hour)

	j := Job{ExpiresAt: &past, PostedAt: &posted}
	assert.True(t, j.Expired(now))
	assert.True(t, j.PostedWithin(7, now))
	assert.False(t, j.PostedWithin(2, now))
	assert.False(t, j.PostedWithin(0, now))
	assert.False(t, Job{}.Expired(now))
	assert.False(t, Job{}.PostedWithin(7, now))
}
