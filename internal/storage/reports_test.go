package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"donorconnect/internal/utils"
	"donorconnect/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	data, _ := io.ReadAll(params.Body)
	f.body = string(data)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func reportDonors() []*types.Donor {
	return []*types.Donor{
		{
			ID:    "d1",
			Name:  "John Smith",
			Email: utils.StringPtr("john.smith@email.com"),
			City:  utils.StringPtr("New York"),
			State: utils.StringPtr("NY"),
			Donations: []*types.Donation{
				{Amount: 1000, Date: time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)},
				{Amount: 500, Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
			},
		},
		{ID: "d2", Name: "Smith, Jr."},
	}
}

func TestWriteDonorReport(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteDonorReport(&sb, reportDonors()))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name,email,phone,city,state,donation_count,total_amount,average_amount,last_donation", lines[0])
	assert.Equal(t, "d1,John Smith,john.smith@email.com,,New York,NY,2,1500.00,750.00,2024-02-20", lines[1])
	assert.Equal(t, `d2,"Smith, Jr.",,,,,0,0.00,0.00,`, lines[2])
}

func TestExportDonors(t *testing.T) {
	putter := &fakePutter{}
	e := NewReportExporter(putter, "donorconnect-reports", "reports")
	e.now = func() time.Time { return time.Date(2025, 1, 20, 9, 30, 0, 0, time.UTC) }

	key, err := e.ExportDonors(context.Background(), reportDonors())
	require.NoError(t, err)

	assert.Equal(t, "reports/donors-20250120T093000Z.csv", key)
	require.NotNil(t, putter.input)
	assert.Equal(t, "donorconnect-reports", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "text/csv", aws.ToString(putter.input.ContentType))
	assert.Contains(t, putter.body, "John Smith")
}

func TestExportDonorsErrors(t *testing.T) {
	_, err := NewReportExporter(nil, "", "").ExportDonors(context.Background(), nil)
	assert.ErrorIs(t, err, types.ErrExportDisabled)

	var nilExporter *ReportExporter
	assert.False(t, nilExporter.Enabled())

	putter := &fakePutter{err: errors.New("access denied")}
	_, err = NewReportExporter(putter, "bucket", "").ExportDonors(context.Background(), reportDonors())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}
