package nats

import (
	"testing"

	"erp-featurestore-be/pkg/events"

	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "features.snapshots.recorded", Subject(events.TypeSnapshotsRecorded))
	assert.Equal(t, "features.snapshots.record", Subject(events.TypeSnapshotsRecord))
}
