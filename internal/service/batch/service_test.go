package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagehq/tripdocs/internal/models"
	"github.com/voyagehq/tripdocs/pkg/logger"
)

type fakeQueue struct {
	enqueued []models.Batch
	err      error
}

func (f *fakeQueue) EnqueueBatch(_ context.Context, batch models.Batch) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, batch)
	return nil
}

func validBatch() models.Batch {
	return models.Batch{Documents: []models.DocumentRef{{
		DocumentID: "d1",
		TravelerID: "t1",
		SourceURL:  "https://docs.example.com/d1.pdf",
		Kind:       models.KindFlight,
	}}}
}

func TestSubmitAssignsBatchIDAndEnqueues(t *testing.T) {
	q := &fakeQueue{}
	svc := NewService(q, nil, nil, logger.NewTestLogger())

	accepted, err := svc.Submit(context.Background(), validBatch())
	require.NoError(t, err)
	assert.NotEmpty(t, accepted.ID)

	require.Len(t, q.enqueued, 1)
	assert.Equal(t, accepted.ID, q.enqueued[0].ID)
}

func TestSubmitKeepsCallerBatchID(t *testing.T) {
	q := &fakeQueue{}
	svc := NewService(q, nil, nil, logger.NewTestLogger())

	b := validBatch()
	b.ID = "caller-chosen"
	accepted, err := svc.Submit(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, "caller-chosen", accepted.ID)
}

func TestSubmitRejectsEmptyBatch(t *testing.T) {
	q := &fakeQueue{}
	svc := NewService(q, nil, nil, logger.NewTestLogger())

	_, err := svc.Submit(context.Background(), models.Batch{})
	require.Error(t, err)
	assert.Empty(t, q.enqueued)
}

func TestSubmitRejectsMalformedDocuments(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.DocumentRef)
	}{
		{"missing document id", func(d *models.DocumentRef) { d.DocumentID = "" }},
		{"missing traveler id", func(d *models.DocumentRef) { d.TravelerID = "" }},
		{"missing source url", func(d *models.DocumentRef) { d.SourceURL = "" }},
		{"unknown kind", func(d *models.DocumentRef) { d.Kind = "visa" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := &fakeQueue{}
			svc := NewService(q, nil, nil, logger.NewTestLogger())

			b := validBatch()
			tc.mutate(&b.Documents[0])

			_, err := svc.Submit(context.Background(), b)
			require.Error(t, err)
			assert.Empty(t, q.enqueued)
		})
	}
}

func TestSubmitPropagatesQueueFailure(t *testing.T) {
	q := &fakeQueue{err: errors.New("redis down")}
	svc := NewService(q, nil, nil, logger.NewTestLogger())

	_, err := svc.Submit(context.Background(), validBatch())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to enqueue batch")
}

func TestGetStatusWithoutStoreReturnsNil(t *testing.T) {
	svc := NewService(&fakeQueue{}, nil, nil, logger.NewTestLogger())

	status, err := svc.GetStatus(context.Background(), "b1")
	require.NoError(t, err)
	assert.Nil(t, status)
}
