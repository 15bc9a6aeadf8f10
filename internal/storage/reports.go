package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strconv"
	"time"

	"donorconnect/internal/stats"
	"donorconnect/internal/utils"
	"donorconnect/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const reportContentType = "text/csv"

type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ReportExporter writes donor reports to an S3 bucket.
type ReportExporter struct {
	client ObjectPutter
	bucket string
	prefix string
	now    func() time.Time
}

func NewReportExporter(client ObjectPutter, bucket, prefix string) *ReportExporter {
	return &ReportExporter{
		client: client,
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
	}
}

func (e *ReportExporter) Enabled() bool {
	return e != nil && e.client != nil && e.bucket != ""
}

// ExportDonors uploads a CSV of every donor with their giving totals and
// returns the object key.
func (e *ReportExporter) ExportDonors(ctx context.Context, donors []*types.Donor) (string, error) {
	if !e.Enabled() {
		return "", types.ErrExportDisabled
	}

	var buf bytes.Buffer
	if err := WriteDonorReport(&buf, donors); err != nil {
		return "", err
	}

	key := path.Join(e.prefix, fmt.Sprintf("donors-%s.csv", e.now().UTC().Format("20060102T150405Z")))

	_, err := e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(reportContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload donor report to s3://%s/%s: %w", e.bucket, key, err)
	}

	return key, nil
}

var donorReportHeader = []string{
	"id", "name", "email", "phone", "city", "state",
	"donation_count", "total_amount", "average_amount", "last_donation",
}

// WriteDonorReport expects each donor's donations ordered newest first.
func WriteDonorReport(w io.Writer, donors []*types.Donor) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(donorReportHeader); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for _, d := range donors {
		totals := stats.Donations(d.Donations)

		lastDonation := ""
		if len(d.Donations) > 0 {
			lastDonation = d.Donations[0].Date.Format(types.DateLayout)
		}

		record := []string{
			d.ID,
			d.Name,
			utils.PtrString(d.Email),
			utils.PtrString(d.Phone),
			utils.PtrString(d.City),
			utils.PtrString(d.State),
			strconv.Itoa(totals.Count),
			strconv.FormatFloat(totals.Total, 'f', 2, 64),
			strconv.FormatFloat(totals.Average, 'f', 2, 64),
			lastDonation,
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write report row for donor %s: %w", d.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
