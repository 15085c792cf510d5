package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRun(t *testing.T) {
	before := testutil.ToFloat64(RunsTotal.WithLabelValues("preview", StatusSuccess))
	RecordRun("preview", StatusSuccess, 0.2)
	assert.Equal(t, before+1, testutil.ToFloat64(RunsTotal.WithLabelValues("preview", StatusSuccess)))
}

func TestRecordUpload(t *testing.T) {
	before := testutil.ToFloat64(UploadsTotal.WithLabelValues("inline", StatusError))
	RecordUpload("inline", StatusError, 100)
	assert.Equal(t, before+1, testutil.ToFloat64(UploadsTotal.WithLabelValues("inline", StatusError)))
}

func TestRecordAdmissionRejected(t *testing.T) {
	before := testutil.ToFloat64(AdmissionRejectedTotal)
	RecordAdmissionRejected()
	assert.Equal(t, before+1, testutil.ToFloat64(AdmissionRejectedTotal))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusSuccess, StatusOf(nil))
	assert.Equal(t, StatusError, StatusOf(errors.New("boom")))
}
